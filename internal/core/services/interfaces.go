package services

import (
	"context"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

// Transactor runs fn inside a single database transaction
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(context.Context) error) error
}

// ProgrammeLedger is the external ledger notified when companies are suspended
type ProgrammeLedger interface {
	FreezeCompany(ctx context.Context, companyID int64, remarks, userID string) error
	RevokeCompanyCertifications(ctx context.Context, companyID int64, remarks, userID string) error
}
