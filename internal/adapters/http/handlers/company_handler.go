package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"carbon-registry/internal/adapters/http/middleware"
	"carbon-registry/internal/core/domain"
	"carbon-registry/internal/core/services"
	"carbon-registry/internal/pkg/ability"
	"carbon-registry/internal/pkg/pagination"
	"carbon-registry/internal/pkg/querybuilder"
	"carbon-registry/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CompanyService is the company use case consumed by the handler
type CompanyService interface {
	Create(ctx context.Context, input *services.CreateCompanyInput) (*domain.Company, error)
	Query(ctx context.Context, input *services.QueryInput, ability querybuilder.Condition) (*services.DataList, error)
	FindByCompanyID(ctx context.Context, companyID int64) (*domain.Company, error)
	FindByTaxID(ctx context.Context, taxID string) (*domain.Company, error)
	FindGovByCountry(ctx context.Context, countryCode string) (*domain.Company, error)
	FindByCompanyIDs(ctx context.Context, input *services.FindCompaniesInput) ([]*domain.Company, error)
	Suspend(ctx context.Context, companyID int64, userID, remarks string, ability querybuilder.Condition) (*services.SuspendResult, error)
	Activate(ctx context.Context, companyID int64, ability querybuilder.Condition) (*services.BasicResponse, error)
}

// CompanyHandler handles company registry endpoints
type CompanyHandler struct {
	companyService CompanyService
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(companyService CompanyService) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
	}
}

// CompanyResponse is the public view of a company
type CompanyResponse struct {
	CompanyID      int64              `json:"companyId"`
	TaxID          string             `json:"taxId"`
	Name           string             `json:"name"`
	Email          string             `json:"email"`
	PhoneNo        string             `json:"phoneNo,omitempty"`
	Website        string             `json:"website,omitempty"`
	Address        string             `json:"address,omitempty"`
	Logo           string             `json:"logo,omitempty"`
	Country        string             `json:"country"`
	CompanyRole    domain.CompanyRole `json:"companyRole"`
	State          string             `json:"state"`
	CreditBalance  float64            `json:"creditBalance"`
	ProgrammeCount int                `json:"programmeCount"`
	Remarks        string             `json:"remarks,omitempty"`
	CreatedTime    time.Time          `json:"createdTime"`
	UpdatedTime    time.Time          `json:"updatedTime"`
}

// QueryResponse is one page of companies
type QueryResponse struct {
	Data  []*CompanyResponse `json:"data"`
	Total int64              `json:"total"`
	Meta  *pagination.Meta   `json:"meta"`
}

// SuspendRequest represents suspend request body
type SuspendRequest struct {
	Remarks string `json:"remarks"`
}

func toCompanyResponse(c *domain.Company) *CompanyResponse {
	if c == nil {
		return nil
	}
	return &CompanyResponse{
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
		State:          c.State.String(),
		CreditBalance:  c.CreditBalance,
		ProgrammeCount: c.ProgrammeCount,
		Remarks:        c.Remarks,
		CreatedTime:    c.CreatedTime,
		UpdatedTime:    c.UpdatedTime,
	}
}

func toCompanyResponses(companies []*domain.Company) []*CompanyResponse {
	out := make([]*CompanyResponse, len(companies))
	for i, c := range companies {
		out[i] = toCompanyResponse(c)
	}
	return out
}

// condition resolves the caller's row condition for an action
func condition(c *fiber.Ctx, action string) (querybuilder.Condition, error) {
	a, ok := c.Locals(middleware.LocalAbility).(*ability.Ability)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return a.Condition(action)
}

func companyID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	return id, err == nil && id > 0
}

// Create handles company registration
// @Summary Create company
// @Description Register a new company in ACTIVE state
// @Tags Companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateCompanyInput true "Company data"
// @Success 201 {object} response.Response{data=CompanyResponse}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /companies [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var req services.CreateCompanyInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	company, err := h.companyService.Create(c.Context(), &req)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "Company created successfully", toCompanyResponse(company))
}

// Query handles paginated company listing
// @Summary Query companies
// @Description List companies with filters and sorting, restricted to the caller's permissions
// @Tags Companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.QueryInput true "Query"
// @Success 200 {object} response.Response{data=QueryResponse}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /companies/query [post]
func (h *CompanyHandler) Query(c *fiber.Ctx) error {
	req := services.QueryInput{Page: 1, Size: pagination.DefaultLimit}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	cond, err := condition(c, ability.ActionRead)
	if err != nil {
		return response.FromError(c, err)
	}

	result, err := h.companyService.Query(c.Context(), &req, cond)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Companies retrieved successfully", QueryResponse{
		Data:  toCompanyResponses(result.Data),
		Total: result.Total,
		Meta:  result.Meta,
	})
}

// GetByID handles company lookup by ID
// @Summary Get company by ID
// @Tags Companies
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Success 200 {object} response.Response{data=CompanyResponse}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /companies/{id} [get]
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	id, ok := companyID(c)
	if !ok {
		return response.BadRequest(c, "Invalid company ID")
	}

	company, err := h.companyService.FindByCompanyID(c.Context(), id)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Company retrieved successfully", toCompanyResponse(company))
}

// GetByTaxID handles company lookup by tax ID
// @Summary Get company by tax ID
// @Tags Companies
// @Produce json
// @Security BearerAuth
// @Param taxId path string true "Tax ID"
// @Success 200 {object} response.Response{data=CompanyResponse}
// @Failure 404 {object} response.Response
// @Router /companies/tax/{taxId} [get]
func (h *CompanyHandler) GetByTaxID(c *fiber.Ctx) error {
	company, err := h.companyService.FindByTaxID(c.Context(), c.Params("taxId"))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Company retrieved successfully", toCompanyResponse(company))
}

// GetGovByCountry handles government company lookup
// @Summary Get government company of a country
// @Tags Companies
// @Produce json
// @Security BearerAuth
// @Param country path string true "ISO 3166-1 alpha-2 country code"
// @Success 200 {object} response.Response{data=CompanyResponse}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /companies/gov/{country} [get]
func (h *CompanyHandler) GetGovByCountry(c *fiber.Ctx) error {
	company, err := h.companyService.FindGovByCountry(c.Context(), c.Params("country"))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Company retrieved successfully", toCompanyResponse(company))
}

// FindByIDs handles multi-ID lookup
// @Summary Find companies by IDs
// @Description Returns one entry per requested ID in request order; unknown IDs are null
// @Tags Companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.FindCompaniesInput true "Company IDs"
// @Success 200 {object} response.Response{data=[]CompanyResponse}
// @Failure 400 {object} response.Response
// @Router /companies/find [post]
func (h *CompanyHandler) FindByIDs(c *fiber.Ctx) error {
	var req services.FindCompaniesInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	companies, err := h.companyService.FindByCompanyIDs(c.Context(), &req)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Companies retrieved successfully", toCompanyResponses(companies))
}

// Suspend handles company suspension
// @Summary Suspend company
// @Description Suspend an active company and notify the programme ledger
// @Tags Companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Param body body SuspendRequest true "Suspension remarks"
// @Success 200 {object} response.Response{data=services.SuspendResult}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /companies/{id}/suspend [put]
func (h *CompanyHandler) Suspend(c *fiber.Ctx) error {
	id, ok := companyID(c)
	if !ok {
		return response.BadRequest(c, "Invalid company ID")
	}

	var req SuspendRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Remarks = strings.TrimSpace(req.Remarks)
	if req.Remarks == "" {
		return response.BadRequest(c, "Remarks are required")
	}

	cond, err := condition(c, ability.ActionSuspend)
	if err != nil {
		return response.FromError(c, err)
	}

	userID, _ := c.Locals(middleware.LocalUserID).(string)
	result, err := h.companyService.Suspend(c.Context(), id, userID, req.Remarks, cond)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, result.Message, result)
}

// Activate handles company reactivation
// @Summary Activate company
// @Description Reactivate a suspended company
// @Tags Companies
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Success 200 {object} response.Response{data=services.BasicResponse}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /companies/{id}/activate [put]
func (h *CompanyHandler) Activate(c *fiber.Ctx) error {
	id, ok := companyID(c)
	if !ok {
		return response.BadRequest(c, "Invalid company ID")
	}

	cond, err := condition(c, ability.ActionActivate)
	if err != nil {
		return response.FromError(c, err)
	}

	result, err := h.companyService.Activate(c.Context(), id, cond)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, result.Message, result)
}

// CreditStatTypes lists the credit statistics labels
// @Summary List credit statistics types
// @Tags Companies
// @Produce json
// @Success 200 {object} response.Response{data=[]domain.CreditStatTypeName}
// @Router /credit-stat-types [get]
func (h *CompanyHandler) CreditStatTypes(c *fiber.Ctx) error {
	return response.Success(c, "Credit stat types retrieved successfully", domain.CreditStatTypeNames)
}
