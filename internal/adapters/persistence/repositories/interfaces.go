package repositories

import (
	"context"
	"time"

	"carbon-registry/internal/core/domain"
	"carbon-registry/internal/pkg/querybuilder"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

// CompanyRepository defines company repository interface
type CompanyRepository interface {
	Create(ctx context.Context, company *domain.Company) error
	GetByID(ctx context.Context, companyID int64) (*domain.Company, error)
	GetByTaxID(ctx context.Context, taxID string) (*domain.Company, error)
	GetGovByCountry(ctx context.Context, country string) (*domain.Company, error)
	GetByIDs(ctx context.Context, companyIDs []int64) ([]*domain.Company, error)
	Query(ctx context.Context, params ListParams) ([]*domain.Company, int64, error)
	FindForTransition(ctx context.Context, companyID int64, state domain.CompanyState, ability querybuilder.Condition) (*domain.Company, error)
	UpdateState(ctx context.Context, companyID int64, from, to domain.CompanyState, remarks *string) (int64, error)
}

// LedgerEventRepository defines the programme ledger outbox interface
type LedgerEventRepository interface {
	Create(ctx context.Context, event *domain.LedgerEvent) error
	MarkDelivered(ctx context.Context, id string, at time.Time) error
	MarkFailed(ctx context.Context, id string, reason string) error
	ListRetryable(ctx context.Context, pendingBefore time.Time, maxAttempts, limit int) ([]*domain.LedgerEvent, error)
}

// ListParams holds a compiled-on-demand company list query
type ListParams struct {
	FilterAnd []querybuilder.FilterBy
	FilterOr  []querybuilder.FilterBy
	Sort      *querybuilder.Sort
	Ability   querybuilder.Condition
	Offset    int
	Limit     int
}
