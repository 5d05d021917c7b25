package response

import (
	"errors"
	"fmt"
	"testing"

	"carbon-registry/internal/core/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"no active company", domain.ErrNoActiveCompany, fiber.StatusUnauthorized},
		{"no suspended company", domain.ErrNoSuspendedCompany, fiber.StatusUnauthorized},
		{"duplicate tax id", domain.ErrTaxIDExists, fiber.StatusBadRequest},
		{"wrapped invalid input", fmt.Errorf("email: %w", domain.ErrInvalidInput), fiber.StatusBadRequest},
		{"invalid query", fmt.Errorf("%w: unknown field", domain.ErrInvalidQuery), fiber.StatusBadRequest},
		{"forbidden", domain.ErrForbidden, fiber.StatusForbidden},
		{"not found", domain.ErrCompanyNotFound, fiber.StatusNotFound},
		{"resource not found", fmt.Errorf("ledger event x: %w", domain.ErrNotFound), fiber.StatusNotFound},
		{"unauthorized", domain.ErrUnauthorized, fiber.StatusUnauthorized},
		{"token expired", domain.ErrTokenExpired, fiber.StatusUnauthorized},
		{"token invalid", domain.ErrTokenInvalid, fiber.StatusUnauthorized},
		{"suspend failed", domain.ErrSuspendFailed, fiber.StatusInternalServerError},
		{"activate failed", domain.ErrActivateFailed, fiber.StatusInternalServerError},
		{"unknown", errors.New("connection refused"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, message := StatusFor(tt.err)
			assert.Equal(t, tt.code, code)
			assert.NotEmpty(t, message)
		})
	}
}

func TestStatusFor_HidesStorageErrors(t *testing.T) {
	_, message := StatusFor(errors.New("dial tcp 10.0.0.3:3306: connection refused"))
	assert.Equal(t, "Internal Server Error", message)
}
