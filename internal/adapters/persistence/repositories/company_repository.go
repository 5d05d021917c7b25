package repositories

import (
	"context"
	"errors"
	"fmt"

	"carbon-registry/internal/adapters/persistence/models"
	"carbon-registry/internal/core/domain"
	"carbon-registry/internal/pkg/querybuilder"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// companyRepository implements CompanyRepository interface
type companyRepository struct {
	db       *gorm.DB
	compiler *querybuilder.Compiler
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{
		db:       db,
		compiler: querybuilder.NewCompiler(models.CompanyColumns),
	}
}

// Create inserts a company and fills in its generated fields
func (r *companyRepository) Create(ctx context.Context, company *domain.Company) error {
	row := models.CompanyFromDomain(company)
	if err := conn(ctx, r.db).Create(row).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrTaxIDExists
		}
		return fmt.Errorf("create company: %w", err)
	}

	company.CompanyID = row.CompanyID
	company.CreatedTime = row.CreatedTime
	company.UpdatedTime = row.UpdatedTime
	return nil
}

// GetByID gets a company by ID
func (r *companyRepository) GetByID(ctx context.Context, companyID int64) (*domain.Company, error) {
	return r.first(conn(ctx, r.db).Where("company_id = ?", companyID))
}

// GetByTaxID gets a company by tax ID
func (r *companyRepository) GetByTaxID(ctx context.Context, taxID string) (*domain.Company, error) {
	return r.first(conn(ctx, r.db).Where("tax_id = ?", taxID))
}

// GetGovByCountry gets the government company of a country
func (r *companyRepository) GetGovByCountry(ctx context.Context, country string) (*domain.Company, error) {
	return r.first(conn(ctx, r.db).Where("country = ? AND company_role = ?", country, domain.CompanyRoleGovernment))
}

// GetByIDs gets companies in request order; missing IDs leave a nil slot
func (r *companyRepository) GetByIDs(ctx context.Context, companyIDs []int64) ([]*domain.Company, error) {
	result := make([]*domain.Company, len(companyIDs))
	if len(companyIDs) == 0 {
		return result, nil
	}

	var rows []models.Company
	if err := conn(ctx, r.db).Where("company_id IN ?", companyIDs).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find companies: %w", err)
	}

	byID := make(map[int64]*models.Company, len(rows))
	for i := range rows {
		byID[rows[i].CompanyID] = &rows[i]
	}
	for i, id := range companyIDs {
		if row, ok := byID[id]; ok {
			result[i] = row.ToDomain()
		}
	}
	return result, nil
}

// Query lists companies matching the filters and the ability condition
func (r *companyRepository) Query(ctx context.Context, params ListParams) ([]*domain.Company, int64, error) {
	ability, err := r.compiler.Compile(params.Ability)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: ability: %v", domain.ErrInvalidQuery, err)
	}

	where, err := r.compiler.Where(params.FilterAnd, params.FilterOr, ability)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrInvalidQuery, err)
	}

	order, hasOrder, err := r.compiler.OrderBy(params.Sort)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrInvalidQuery, err)
	}

	base := conn(ctx, r.db).Model(&models.Company{})
	if where != nil {
		base = base.Where(where)
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count companies: %w", err)
	}

	page := base
	if hasOrder {
		page = page.Order(order)
	} else {
		page = page.Order("company_id")
	}

	var rows []models.Company
	if err := page.Offset(params.Offset).Limit(params.Limit).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("query companies: %w", err)
	}

	companies := make([]*domain.Company, len(rows))
	for i := range rows {
		companies[i] = rows[i].ToDomain()
	}
	return companies, total, nil
}

// FindForTransition locks the company row if it is in the given state and
// satisfies the ability condition. Call it inside a transaction.
func (r *companyRepository) FindForTransition(ctx context.Context, companyID int64, state domain.CompanyState, ability querybuilder.Condition) (*domain.Company, error) {
	abilityExpr, err := r.compiler.Compile(ability)
	if err != nil {
		return nil, fmt.Errorf("%w: ability: %v", domain.ErrInvalidQuery, err)
	}

	q := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("company_id = ? AND state = ?", companyID, state)
	if abilityExpr != nil {
		q = q.Where(abilityExpr)
	}
	return r.first(q)
}

// UpdateState moves a company from one state to another.
// The update only applies while the row is still in the from state.
func (r *companyRepository) UpdateState(ctx context.Context, companyID int64, from, to domain.CompanyState, remarks *string) (int64, error) {
	updates := map[string]interface{}{
		"state": to,
	}
	if remarks != nil {
		updates["remarks"] = *remarks
	}

	result := conn(ctx, r.db).
		Model(&models.Company{}).
		Where("company_id = ? AND state = ?", companyID, from).
		Updates(updates)
	if result.Error != nil {
		return 0, fmt.Errorf("update company state: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *companyRepository) first(q *gorm.DB) (*domain.Company, error) {
	var row models.Company
	if err := q.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return row.ToDomain(), nil
}
