package domain

import "errors"

// Common domain errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Company errors
var (
	ErrCompanyNotFound    = errors.New("company not found")
	ErrNoActiveCompany    = errors.New("no active company found")
	ErrNoSuspendedCompany = errors.New("no suspended company found")
	ErrSuspendFailed      = errors.New("company suspend failed, please try again")
	ErrActivateFailed     = errors.New("company activate failed, please try again")
	ErrTaxIDExists        = errors.New("company tax id already exist")
	ErrInvalidQuery       = errors.New("invalid query")
)

// Ledger errors
var (
	ErrLedgerUnavailable = errors.New("programme ledger unavailable")
	ErrLedgerEventFailed = errors.New("programme ledger event delivery failed")
)
