package response

import (
	"errors"
	"log"

	"carbon-registry/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success sends a success response
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends an error response
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Error:   message,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

// Forbidden sends a 403 forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}

// NotFound sends a 404 not found response
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

// errorStatus maps domain errors to HTTP status codes and public messages.
// Order matters: the first match wins.
var errorStatus = []struct {
	err     error
	code    int
	message string
}{
	{domain.ErrNoActiveCompany, fiber.StatusUnauthorized, "No active company found"},
	{domain.ErrNoSuspendedCompany, fiber.StatusUnauthorized, "No suspended company found"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "Unauthorized"},
	{domain.ErrTokenExpired, fiber.StatusUnauthorized, "Access token expired"},
	{domain.ErrTokenInvalid, fiber.StatusUnauthorized, "Invalid access token"},
	{domain.ErrForbidden, fiber.StatusForbidden, "You don't have permission to access this resource"},
	{domain.ErrTaxIDExists, fiber.StatusBadRequest, "Company tax id already exist"},
	{domain.ErrCompanyNotFound, fiber.StatusNotFound, "Company not found"},
	{domain.ErrNotFound, fiber.StatusNotFound, "Resource not found"},
	{domain.ErrSuspendFailed, fiber.StatusInternalServerError, "Company suspend failed. Please try again"},
	{domain.ErrActivateFailed, fiber.StatusInternalServerError, "Company activate failed. Please try again"},
}

// StatusFor returns the HTTP status code and message for err
func StatusFor(err error) (int, string) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.code, e.message
		}
	}
	// Validation errors carry the offending field in their text.
	if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrInvalidQuery) {
		return fiber.StatusBadRequest, err.Error()
	}
	return fiber.StatusInternalServerError, "Internal Server Error"
}

// FromError sends the error response matching a domain error
func FromError(c *fiber.Ctx, err error) error {
	code, message := StatusFor(err)
	if code == fiber.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
	}
	return Error(c, code, message)
}
