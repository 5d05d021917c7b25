package domain

import "time"

// CompanyRole represents the registry role of a company
type CompanyRole string

const (
	CompanyRoleGovernment         CompanyRole = "Government"
	CompanyRoleProgrammeDeveloper CompanyRole = "ProgrammeDeveloper"
	CompanyRoleCertifier          CompanyRole = "Certifier"
	CompanyRoleAPI                CompanyRole = "API"
)

// IsValid reports whether the role is one of the known registry roles
func (r CompanyRole) IsValid() bool {
	switch r {
	case CompanyRoleGovernment, CompanyRoleProgrammeDeveloper, CompanyRoleCertifier, CompanyRoleAPI:
		return true
	}
	return false
}

// CompanyState is stored as a small int: 0 = suspended, 1 = active
type CompanyState int

const (
	CompanyStateSuspended CompanyState = 0
	CompanyStateActive    CompanyState = 1
)

func (s CompanyState) String() string {
	switch s {
	case CompanyStateActive:
		return "ACTIVE"
	case CompanyStateSuspended:
		return "SUSPENDED"
	}
	return "UNKNOWN"
}

// Company represents a registry company in the domain layer
type Company struct {
	CompanyID      int64
	TaxID          string
	Name           string
	Email          string
	PhoneNo        string
	Website        string
	Address        string
	Logo           string
	Country        string
	CompanyRole    CompanyRole
	State          CompanyState
	CreditBalance  float64
	ProgrammeCount int
	Remarks        string
	CreatedTime    time.Time
	UpdatedTime    time.Time
}

// LedgerEventType is the programme ledger operation triggered by a suspension
type LedgerEventType string

const (
	LedgerEventFreezeCompany        LedgerEventType = "FREEZE_COMPANY"
	LedgerEventRevokeCertifications LedgerEventType = "REVOKE_CERTIFICATIONS"
)

// LedgerEventStatus tracks delivery of an outbox event
type LedgerEventStatus string

const (
	LedgerEventPending   LedgerEventStatus = "PENDING"
	LedgerEventDelivered LedgerEventStatus = "DELIVERED"
	LedgerEventFailed    LedgerEventStatus = "FAILED"
)

// LedgerStatus is reported back to the caller of Suspend.
// NOT_REQUIRED means the company role has no ledger side effect.
type LedgerStatus string

const (
	LedgerStatusDelivered   LedgerStatus = "DELIVERED"
	LedgerStatusFailed      LedgerStatus = "FAILED"
	LedgerStatusNotRequired LedgerStatus = "NOT_REQUIRED"
)

// LedgerEvent is a pending or delivered programme ledger call
type LedgerEvent struct {
	ID          string
	CompanyID   int64
	Type        LedgerEventType
	Remarks     string
	UserID      string
	Status      LedgerEventStatus
	Attempts    int
	LastError   string
	CreatedAt   time.Time
	DeliveredAt *time.Time
}

// LedgerEventTypeFor returns the ledger side effect for a suspended company role.
// ok is false when the role has none.
func LedgerEventTypeFor(role CompanyRole) (LedgerEventType, bool) {
	switch role {
	case CompanyRoleProgrammeDeveloper:
		return LedgerEventFreezeCompany, true
	case CompanyRoleCertifier:
		return LedgerEventRevokeCertifications, true
	}
	return "", false
}
