package models

import (
	"time"

	"carbon-registry/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Registry Tables
// ============================================================

// Company represents companies table
type Company struct {
	CompanyID      int64               `gorm:"column:company_id;primaryKey;autoIncrement" json:"companyId"`
	TaxID          string              `gorm:"column:tax_id;size:64;uniqueIndex;not null" json:"taxId"`
	Name           string              `gorm:"size:255;not null" json:"name"`
	Email          string              `gorm:"size:255;not null" json:"email"`
	PhoneNo        string              `gorm:"column:phone_no;size:32" json:"phoneNo"`
	Website        string              `gorm:"size:255" json:"website"`
	Address        string              `gorm:"type:text" json:"address"`
	Logo           string              `gorm:"type:text" json:"logo"`
	Country        string              `gorm:"size:2;not null;index" json:"country"`
	CompanyRole    domain.CompanyRole  `gorm:"column:company_role;size:32;not null;index" json:"companyRole"`
	State          domain.CompanyState `gorm:"type:smallint;not null;index" json:"state"`
	CreditBalance  float64             `gorm:"column:credit_balance;not null;default:0" json:"creditBalance"`
	ProgrammeCount int                 `gorm:"column:programme_count;not null;default:0" json:"programmeCount"`
	Remarks        string              `gorm:"type:text" json:"remarks"`
	CreatedTime    time.Time           `gorm:"column:created_time;autoCreateTime" json:"createdTime"`
	UpdatedTime    time.Time           `gorm:"column:updated_time;autoUpdateTime" json:"updatedTime"`
}

func (Company) TableName() string {
	return "companies"
}

// ToDomain converts the row to its domain form
func (c *Company) ToDomain() *domain.Company {
	return &domain.Company{
		CompanyID:      c.CompanyID,
		TaxID:          c.TaxID,
		Name:           c.Name,
		Email:          c.Email,
		PhoneNo:        c.PhoneNo,
		Website:        c.Website,
		Address:        c.Address,
		Logo:           c.Logo,
		Country:        c.Country,
		CompanyRole:    c.CompanyRole,
		State:          c.State,
		CreditBalance:  c.CreditBalance,
		ProgrammeCount: c.ProgrammeCount,
		Remarks:        c.Remarks,
		CreatedTime:    c.CreatedTime,
		UpdatedTime:    c.UpdatedTime,
	}
}

// CompanyFromDomain builds a row from a domain company
func CompanyFromDomain(c *domain.Company) *Company {
	return &Company{
		CompanyID:      c.CompanyID,
		TaxID:          c.TaxID,
		Name:           c.Name,
		Email:          c.Email,
		PhoneNo:        c.PhoneNo,
		Website:        c.Website,
		Address:        c.Address,
		Logo:           c.Logo,
		Country:        c.Country,
		CompanyRole:    c.CompanyRole,
		State:          c.State,
		CreditBalance:  c.CreditBalance,
		ProgrammeCount: c.ProgrammeCount,
		Remarks:        c.Remarks,
		CreatedTime:    c.CreatedTime,
		UpdatedTime:    c.UpdatedTime,
	}
}

// CompanyColumns maps API field names to companies columns.
// Only these fields may appear in filters, sort keys and ability conditions.
var CompanyColumns = map[string]string{
	"companyId":      "company_id",
	"taxId":          "tax_id",
	"name":           "name",
	"email":          "email",
	"phoneNo":        "phone_no",
	"website":        "website",
	"country":        "country",
	"companyRole":    "company_role",
	"state":          "state",
	"creditBalance":  "credit_balance",
	"programmeCount": "programme_count",
	"createdTime":    "created_time",
	"updatedTime":    "updated_time",
}

// LedgerEvent represents ledger_events table (programme ledger outbox)
type LedgerEvent struct {
	ID          string                   `gorm:"size:36;primaryKey" json:"id"`
	CompanyID   int64                    `gorm:"column:company_id;not null;index" json:"companyId"`
	Type        domain.LedgerEventType   `gorm:"size:32;not null" json:"type"`
	Remarks     string                   `gorm:"type:text" json:"remarks"`
	UserID      string                   `gorm:"column:user_id;size:64" json:"userId"`
	Status      domain.LedgerEventStatus `gorm:"size:16;not null;index" json:"status"`
	Attempts    int                      `gorm:"not null;default:0" json:"attempts"`
	LastError   string                   `gorm:"column:last_error;type:text" json:"lastError"`
	CreatedAt   time.Time                `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time                `gorm:"autoUpdateTime" json:"updatedAt"`
	DeliveredAt *time.Time               `gorm:"column:delivered_at" json:"deliveredAt"`
}

func (LedgerEvent) TableName() string {
	return "ledger_events"
}

// ToDomain converts the row to its domain form
func (e *LedgerEvent) ToDomain() *domain.LedgerEvent {
	return &domain.LedgerEvent{
		ID:          e.ID,
		CompanyID:   e.CompanyID,
		Type:        e.Type,
		Remarks:     e.Remarks,
		UserID:      e.UserID,
		Status:      e.Status,
		Attempts:    e.Attempts,
		LastError:   e.LastError,
		CreatedAt:   e.CreatedAt,
		DeliveredAt: e.DeliveredAt,
	}
}

// LedgerEventFromDomain builds a row from a domain event
func LedgerEventFromDomain(e *domain.LedgerEvent) *LedgerEvent {
	return &LedgerEvent{
		ID:          e.ID,
		CompanyID:   e.CompanyID,
		Type:        e.Type,
		Remarks:     e.Remarks,
		UserID:      e.UserID,
		Status:      e.Status,
		Attempts:    e.Attempts,
		LastError:   e.LastError,
		CreatedAt:   e.CreatedAt,
		DeliveredAt: e.DeliveredAt,
	}
}

// AutoMigrate runs auto migration for the registry tables.
// Production databases are migrated with cmd/migrate instead.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Company{},
		&LedgerEvent{},
	)
}
