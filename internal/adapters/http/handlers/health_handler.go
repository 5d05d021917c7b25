package handlers

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Checker reports the health of one dependency
type Checker func(ctx context.Context) error

// HealthHandler handles health check endpoints
type HealthHandler struct {
	mode   string
	checks map[string]Checker
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(mode string, checks map[string]Checker) *HealthHandler {
	return &HealthHandler{mode: mode, checks: checks}
}

// Root handles root endpoint
// @Summary Root endpoint
// @Description Returns API status
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "🚀 Carbon Registry API v1.0 is running",
		"mode":    h.mode,
		"docs":    "/swagger/index.html",
	})
}

// HealthCheck handles health check
// @Summary Health check
// @Description Check API, database and ledger health
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := fiber.StatusOK
	checks := fiber.Map{"api": "healthy"}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			checks[name] = "unhealthy"
			status = fiber.StatusServiceUnavailable
			continue
		}
		checks[name] = "healthy"
	}

	overall := "ok"
	if status != fiber.StatusOK {
		overall = "degraded"
	}
	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": checks,
	})
}

// APIInfo handles API v1 info
// @Summary API v1 Info
// @Description Returns API v1 information
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1 [get]
func (h *HealthHandler) APIInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Carbon Registry API v1.0",
		"version": "1.0.0",
	})
}
