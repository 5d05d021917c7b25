package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"translated", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{"postgres", &pgconn.PgError{Code: "23505"}, true},
		{"postgres other", &pgconn.PgError{Code: "23502"}, false},
		{"mysql", &mysql.MySQLError{Number: 1062}, true},
		{"mysql other", &mysql.MySQLError{Number: 1452}, false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueViolation(tt.err))
		})
	}
}
