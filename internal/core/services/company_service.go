package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/mail"
	"strings"

	"carbon-registry/internal/adapters/persistence/repositories"
	"carbon-registry/internal/core/domain"
	"carbon-registry/internal/pkg/metrics"
	"carbon-registry/internal/pkg/pagination"
	"carbon-registry/internal/pkg/querybuilder"

	"github.com/google/uuid"
)

// MaxLookupIDs caps the number of IDs accepted by FindByCompanyIDs
const MaxLookupIDs = 100

// CompanyService handles company registry business logic
type CompanyService struct {
	companyRepo repositories.CompanyRepository
	ledgerRepo  repositories.LedgerEventRepository
	tx          Transactor
	dispatcher  *LedgerDispatcher
	metrics     *metrics.Metrics
}

// NewCompanyService creates a new company service
func NewCompanyService(
	companyRepo repositories.CompanyRepository,
	ledgerRepo repositories.LedgerEventRepository,
	tx Transactor,
	dispatcher *LedgerDispatcher,
	m *metrics.Metrics,
) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		ledgerRepo:  ledgerRepo,
		tx:          tx,
		dispatcher:  dispatcher,
		metrics:     m,
	}
}

// BasicResponse is a status acknowledgement
type BasicResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// SuspendResult reports the suspension and the outcome of the ledger call
type SuspendResult struct {
	BasicResponse
	LedgerStatus domain.LedgerStatus `json:"ledgerStatus"`
}

// QueryInput represents a paginated, filtered company listing
type QueryInput struct {
	Page      int                     `json:"page"`
	Size      int                     `json:"size"`
	FilterAnd []querybuilder.FilterBy `json:"filterAnd"`
	FilterOr  []querybuilder.FilterBy `json:"filterOr"`
	Sort      *querybuilder.Sort      `json:"sort"`
}

// DataList is a page of companies. Data is never nil.
type DataList struct {
	Data  []*domain.Company
	Total int64
	Meta  *pagination.Meta
}

// CreateCompanyInput represents create company input
type CreateCompanyInput struct {
	TaxID       string             `json:"taxId"`
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	PhoneNo     string             `json:"phoneNo"`
	Website     string             `json:"website"`
	Address     string             `json:"address"`
	Logo        string             `json:"logo"`
	Country     string             `json:"country"`
	CompanyRole domain.CompanyRole `json:"companyRole"`
}

// FindCompaniesInput represents a multi-ID lookup
type FindCompaniesInput struct {
	CompanyIDs []int64 `json:"companyIds"`
}

// Suspend moves an active company to SUSPENDED and notifies the programme ledger.
// The ledger call is awaited; its failure does not undo the suspension and is
// reported through LedgerStatus while the outbox keeps retrying.
func (s *CompanyService) Suspend(ctx context.Context, companyID int64, userID, remarks string, ability querybuilder.Condition) (*SuspendResult, error) {
	log.Printf("Suspend company %d by user %s", companyID, userID)

	var event *domain.LedgerEvent
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		company, err := s.companyRepo.FindForTransition(txCtx, companyID, domain.CompanyStateActive, ability)
		if err != nil {
			if errors.Is(err, domain.ErrCompanyNotFound) {
				return domain.ErrNoActiveCompany
			}
			return err
		}

		affected, err := s.companyRepo.UpdateState(txCtx, companyID, domain.CompanyStateActive, domain.CompanyStateSuspended, &remarks)
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrSuspendFailed
		}

		eventType, ok := domain.LedgerEventTypeFor(company.CompanyRole)
		if !ok {
			return nil
		}
		event = &domain.LedgerEvent{
			ID:        uuid.NewString(),
			CompanyID: companyID,
			Type:      eventType,
			Remarks:   remarks,
			UserID:    userID,
			Status:    domain.LedgerEventPending,
		}
		return s.ledgerRepo.Create(txCtx, event)
	})
	s.metrics.ObserveTransition("suspend", err)
	if err != nil {
		return nil, err
	}

	result := &SuspendResult{
		BasicResponse: BasicResponse{StatusCode: http.StatusOK, Message: "Successfully suspended company"},
		LedgerStatus:  domain.LedgerStatusNotRequired,
	}
	if event == nil {
		return result, nil
	}

	if err := s.dispatcher.Deliver(ctx, event); err != nil {
		log.Printf("⚠️ Ledger %s for company %d not delivered, queued for retry: %v", event.Type, companyID, err)
		result.LedgerStatus = domain.LedgerStatusFailed
		return result, nil
	}
	result.LedgerStatus = domain.LedgerStatusDelivered
	return result, nil
}

// Activate moves a suspended company back to ACTIVE
func (s *CompanyService) Activate(ctx context.Context, companyID int64, ability querybuilder.Condition) (*BasicResponse, error) {
	log.Printf("Activate company %d", companyID)

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.companyRepo.FindForTransition(txCtx, companyID, domain.CompanyStateSuspended, ability); err != nil {
			if errors.Is(err, domain.ErrCompanyNotFound) {
				return domain.ErrNoSuspendedCompany
			}
			return err
		}

		affected, err := s.companyRepo.UpdateState(txCtx, companyID, domain.CompanyStateSuspended, domain.CompanyStateActive, nil)
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrActivateFailed
		}
		return nil
	})
	s.metrics.ObserveTransition("activate", err)
	if err != nil {
		return nil, err
	}

	return &BasicResponse{StatusCode: http.StatusOK, Message: "Successfully activated company"}, nil
}

// Query lists companies matching the filters and the ability condition
func (s *CompanyService) Query(ctx context.Context, input *QueryInput, ability querybuilder.Condition) (*DataList, error) {
	params, err := pagination.New(input.Page, input.Size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidQuery, err)
	}

	companies, total, err := s.companyRepo.Query(ctx, repositories.ListParams{
		FilterAnd: input.FilterAnd,
		FilterOr:  input.FilterOr,
		Sort:      input.Sort,
		Ability:   ability,
		Offset:    params.Offset,
		Limit:     params.Limit,
	})
	if err != nil {
		return nil, err
	}
	if companies == nil {
		companies = []*domain.Company{}
	}

	return &DataList{
		Data:  companies,
		Total: total,
		Meta:  pagination.GetMeta(params, total),
	}, nil
}

// FindByTaxID returns the company with the tax ID, or ErrCompanyNotFound
func (s *CompanyService) FindByTaxID(ctx context.Context, taxID string) (*domain.Company, error) {
	taxID = strings.TrimSpace(taxID)
	if taxID == "" {
		return nil, fmt.Errorf("tax id: %w", domain.ErrInvalidInput)
	}
	return s.companyRepo.GetByTaxID(ctx, taxID)
}

// FindByCompanyID returns the company, or ErrCompanyNotFound
func (s *CompanyService) FindByCompanyID(ctx context.Context, companyID int64) (*domain.Company, error) {
	return s.companyRepo.GetByID(ctx, companyID)
}

// FindGovByCountry returns the government company of a country, or ErrCompanyNotFound
func (s *CompanyService) FindGovByCountry(ctx context.Context, countryCode string) (*domain.Company, error) {
	country, err := normalizeCountry(countryCode)
	if err != nil {
		return nil, err
	}
	return s.companyRepo.GetGovByCountry(ctx, country)
}

// FindByCompanyIDs returns one slot per requested ID in request order.
// Unknown IDs leave a nil slot.
func (s *CompanyService) FindByCompanyIDs(ctx context.Context, input *FindCompaniesInput) ([]*domain.Company, error) {
	if len(input.CompanyIDs) == 0 {
		return nil, fmt.Errorf("company ids must not be empty: %w", domain.ErrInvalidInput)
	}
	if len(input.CompanyIDs) > MaxLookupIDs {
		return nil, fmt.Errorf("at most %d company ids: %w", MaxLookupIDs, domain.ErrInvalidInput)
	}
	return s.companyRepo.GetByIDs(ctx, input.CompanyIDs)
}

// Create registers a new active company
func (s *CompanyService) Create(ctx context.Context, input *CreateCompanyInput) (*domain.Company, error) {
	log.Printf("Company create received %s", input.Email)

	company, err := input.toDomain()
	if err != nil {
		return nil, err
	}

	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, err
	}

	s.metrics.IncrementCompaniesCreated()
	return company, nil
}

func (in *CreateCompanyInput) toDomain() (*domain.Company, error) {
	taxID := strings.TrimSpace(in.TaxID)
	if taxID == "" {
		return nil, fmt.Errorf("tax id is required: %w", domain.ErrInvalidInput)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", domain.ErrInvalidInput)
	}

	email := strings.TrimSpace(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("email %q: %w", in.Email, domain.ErrInvalidInput)
	}

	country, err := normalizeCountry(in.Country)
	if err != nil {
		return nil, err
	}

	if !in.CompanyRole.IsValid() {
		return nil, fmt.Errorf("company role %q: %w", in.CompanyRole, domain.ErrInvalidInput)
	}

	return &domain.Company{
		TaxID:       taxID,
		Name:        name,
		Email:       strings.ToLower(email),
		PhoneNo:     strings.TrimSpace(in.PhoneNo),
		Website:     strings.TrimSpace(in.Website),
		Address:     strings.TrimSpace(in.Address),
		Logo:        strings.TrimSpace(in.Logo),
		Country:     country,
		CompanyRole: in.CompanyRole,
		State:       domain.CompanyStateActive,
	}, nil
}

func normalizeCountry(raw string) (string, error) {
	country := strings.ToUpper(strings.TrimSpace(raw))
	if len(country) != 2 || country[0] < 'A' || country[0] > 'Z' || country[1] < 'A' || country[1] > 'Z' {
		return "", fmt.Errorf("country %q: %w", raw, domain.ErrInvalidInput)
	}
	return country, nil
}
