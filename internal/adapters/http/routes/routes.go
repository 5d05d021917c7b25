package routes

import (
	"context"

	"carbon-registry/internal/adapters/http/handlers"
	"carbon-registry/internal/adapters/http/middleware"
	"carbon-registry/internal/adapters/persistence/repositories"
	"carbon-registry/internal/config"
	"carbon-registry/internal/core/services"
	"carbon-registry/internal/pkg/ability"
	"carbon-registry/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Deps are the external resources the routes are built on
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Policy   *ability.Policy
	Ledger   services.ProgrammeLedger
	Registry *prometheus.Registry
	// Extra health checks, e.g. the ledger broker
	Checks map[string]handlers.Checker
}

// Setup configures all routes for the application and returns the
// ledger sync service for the caller to start and stop
func Setup(app *fiber.App, deps Deps) *services.LedgerSyncService {
	cfg := deps.Config

	// Initialize repositories
	companyRepo := repositories.NewCompanyRepository(deps.DB)
	ledgerEventRepo := repositories.NewLedgerEventRepository(deps.DB)
	txManager := repositories.NewTransactionManager(deps.DB)

	// Initialize services
	m := metrics.New(deps.Registry)
	dispatcher := services.NewLedgerDispatcher(deps.Ledger, ledgerEventRepo, m)
	companyService := services.NewCompanyService(companyRepo, ledgerEventRepo, txManager, dispatcher, m)
	ledgerSync := services.NewLedgerSyncService(ledgerEventRepo, dispatcher, services.LedgerSyncConfig{
		Schedule:     cfg.Ledger.RetrySpec,
		MaxAttempts:  cfg.Ledger.MaxAttempts,
		PendingGrace: cfg.Ledger.PendingGrace,
	})

	// Initialize handlers
	checks := map[string]handlers.Checker{
		"database": func(context.Context) error { return config.HealthCheck() },
	}
	for name, check := range deps.Checks {
		checks[name] = check
	}
	healthHandler := handlers.NewHealthHandler(cfg.AppMode, checks)
	companyHandler := handlers.NewCompanyHandler(companyService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Prometheus metrics
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, companyHandler, deps)

	return ledgerSync
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	companyHandler *handlers.CompanyHandler,
	deps Deps,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Credit statistics labels (public)
	router.Get("/credit-stat-types", companyHandler.CreditStatTypes)

	// Company routes (protected)
	companyRoutes := router.Group("/companies", middleware.AuthMiddleware(deps.Config.JWT.Secret, deps.Policy))
	setupCompanyRoutes(companyRoutes, companyHandler)
}

// setupCompanyRoutes configures company registry routes
func setupCompanyRoutes(router fiber.Router, h *handlers.CompanyHandler) {
	read := middleware.Require(ability.ActionRead)

	router.Post("/", middleware.Require(ability.ActionCreate), h.Create)
	router.Post("/query", read, h.Query)
	router.Post("/find", read, h.FindByIDs)
	router.Get("/tax/:taxId", read, h.GetByTaxID)
	router.Get("/gov/:country", read, h.GetGovByCountry)
	router.Get("/:id", read, h.GetByID)
	router.Put("/:id/suspend", middleware.Require(ability.ActionSuspend), h.Suspend)
	router.Put("/:id/activate", middleware.Require(ability.ActionActivate), h.Activate)
}
