//go:build integration

package repositories_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"carbon-registry/internal/adapters/persistence/models"
	"carbon-registry/internal/adapters/persistence/repositories"
	"carbon-registry/internal/core/domain"
	"carbon-registry/internal/core/services"
	"carbon-registry/internal/pkg/querybuilder"
	"carbon-registry/migrations"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/suite"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type RepositorySuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	companies repositories.CompanyRepository
	events    repositories.LedgerEventRepository
	tx        *repositories.TransactionManager
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("registry"),
		tcpostgres.WithUsername("registry"),
		tcpostgres.WithPassword("registry"),
		tcpostgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err)
	s.container = container

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)
	s.Require().NoError(migrations.Run("postgres", url, "up"))

	db, err := gorm.Open(postgres.Open(url), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	s.Require().NoError(err)

	s.db = db
	s.companies = repositories.NewCompanyRepository(db)
	s.events = repositories.NewLedgerEventRepository(db)
	s.tx = repositories.NewTransactionManager(db)
}

func (s *RepositorySuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *RepositorySuite) SetupTest() {
	s.Require().NoError(s.db.Exec("TRUNCATE companies, ledger_events RESTART IDENTITY").Error)
}

func (s *RepositorySuite) createCompany(role domain.CompanyRole, country string) *domain.Company {
	c := &domain.Company{
		TaxID:       gofakeit.UUID(),
		Name:        gofakeit.Company(),
		Email:       gofakeit.Email(),
		Country:     country,
		CompanyRole: role,
		State:       domain.CompanyStateActive,
	}
	s.Require().NoError(s.companies.Create(context.Background(), c))
	return c
}

func (s *RepositorySuite) TestCreate_DuplicateTaxID() {
	ctx := context.Background()
	first := s.createCompany(domain.CompanyRoleCertifier, "LK")
	s.NotZero(first.CompanyID)

	dup := *first
	dup.CompanyID = 0
	s.ErrorIs(s.companies.Create(ctx, &dup), domain.ErrTaxIDExists)

	var count int64
	s.Require().NoError(s.db.Model(&models.Company{}).Where("tax_id = ?", first.TaxID).Count(&count).Error)
	s.Equal(int64(1), count)
}

func (s *RepositorySuite) TestLookups() {
	ctx := context.Background()
	gov := s.createCompany(domain.CompanyRoleGovernment, "LK")
	dev := s.createCompany(domain.CompanyRoleProgrammeDeveloper, "LK")

	got, err := s.companies.GetByTaxID(ctx, dev.TaxID)
	s.Require().NoError(err)
	s.Equal(dev.CompanyID, got.CompanyID)

	got, err = s.companies.GetGovByCountry(ctx, "LK")
	s.Require().NoError(err)
	s.Equal(gov.CompanyID, got.CompanyID)

	_, err = s.companies.GetGovByCountry(ctx, "KE")
	s.ErrorIs(err, domain.ErrCompanyNotFound)

	_, err = s.companies.GetByID(ctx, 999)
	s.ErrorIs(err, domain.ErrCompanyNotFound)

	list, err := s.companies.GetByIDs(ctx, []int64{dev.CompanyID, 999, gov.CompanyID})
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal(dev.CompanyID, list[0].CompanyID)
	s.Nil(list[1])
	s.Equal(gov.CompanyID, list[2].CompanyID)
}

func (s *RepositorySuite) TestQuery() {
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		s.createCompany(domain.CompanyRoleProgrammeDeveloper, "LK")
	}
	for i := 0; i < 3; i++ {
		s.createCompany(domain.CompanyRoleCertifier, "KE")
	}

	rows, total, err := s.companies.Query(ctx, repositories.ListParams{Offset: 0, Limit: 10})
	s.Require().NoError(err)
	s.Len(rows, 10)
	s.Equal(int64(15), total)

	rows, total, err = s.companies.Query(ctx, repositories.ListParams{
		Ability: querybuilder.Condition{"country": "KE"},
		Sort:    &querybuilder.Sort{Key: "companyId", Order: "DESC"},
		Limit:   10,
	})
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Require().Len(rows, 3)
	s.Greater(rows[0].CompanyID, rows[2].CompanyID)

	for _, filterAnd := range [][]querybuilder.FilterBy{
		nil,
		{{Key: "companyRole", Operation: "=", Value: "Certifier"}},
	} {
		rows, total, err = s.companies.Query(ctx, repositories.ListParams{
			FilterAnd: filterAnd,
			FilterOr:  []querybuilder.FilterBy{{Key: "state", Operation: "=", Value: int(domain.CompanyStateActive)}},
			Ability:   querybuilder.Condition{"country": "KE"},
			Limit:     20,
		})
		s.Require().NoError(err)
		s.Equal(int64(3), total)
		s.Require().Len(rows, 3)
		for _, row := range rows {
			s.Equal("KE", row.Country)
		}
	}

	rows, total, err = s.companies.Query(ctx, repositories.ListParams{
		Ability: querybuilder.Condition{"$or": []any{
			map[string]any{"companyId": int64(1)},
			map[string]any{"country": "KE"},
		}},
		FilterOr: []querybuilder.FilterBy{{Key: "companyRole", Operation: "=", Value: "ProgrammeDeveloper"}},
		Limit:    20,
	})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(rows, 1)
	s.Equal(int64(1), rows[0].CompanyID)

	rows, total, err = s.companies.Query(ctx, repositories.ListParams{
		FilterAnd: []querybuilder.FilterBy{{Key: "companyRole", Operation: "=", Value: "Certifier"}},
		Offset:    50,
		Limit:     10,
	})
	s.Require().NoError(err)
	s.Empty(rows)
	s.Equal(int64(3), total)

	_, _, err = s.companies.Query(ctx, repositories.ListParams{
		FilterAnd: []querybuilder.FilterBy{{Key: "name; DROP TABLE companies", Operation: "=", Value: "x"}},
		Limit:     10,
	})
	s.ErrorIs(err, domain.ErrInvalidQuery)
}

func (s *RepositorySuite) TestTransition_RespectsStateAndAbility() {
	ctx := context.Background()
	c := s.createCompany(domain.CompanyRoleCertifier, "LK")

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		_, err := s.companies.FindForTransition(txCtx, c.CompanyID, domain.CompanyStateActive, querybuilder.Condition{"country": "KE"})
		return err
	})
	s.ErrorIs(err, domain.ErrCompanyNotFound)

	remarks := "expired accreditation"
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.companies.FindForTransition(txCtx, c.CompanyID, domain.CompanyStateActive, querybuilder.Condition{"country": "LK"}); err != nil {
			return err
		}
		n, err := s.companies.UpdateState(txCtx, c.CompanyID, domain.CompanyStateActive, domain.CompanyStateSuspended, &remarks)
		s.Equal(int64(1), n)
		return err
	})
	s.Require().NoError(err)

	got, err := s.companies.GetByID(ctx, c.CompanyID)
	s.Require().NoError(err)
	s.Equal(domain.CompanyStateSuspended, got.State)
	s.Equal(remarks, got.Remarks)

	n, err := s.companies.UpdateState(ctx, c.CompanyID, domain.CompanyStateActive, domain.CompanyStateSuspended, &remarks)
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *RepositorySuite) TestTransaction_RollsBackOnError() {
	ctx := context.Background()
	c := s.createCompany(domain.CompanyRoleCertifier, "LK")
	remarks := "rolled back"

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.companies.UpdateState(txCtx, c.CompanyID, domain.CompanyStateActive, domain.CompanyStateSuspended, &remarks); err != nil {
			return err
		}
		return fmt.Errorf("abort")
	})
	s.Error(err)

	got, err := s.companies.GetByID(ctx, c.CompanyID)
	s.Require().NoError(err)
	s.Equal(domain.CompanyStateActive, got.State)
}

func (s *RepositorySuite) TestLedgerEvents() {
	ctx := context.Background()
	old := &domain.LedgerEvent{ID: gofakeit.UUID(), CompanyID: 1, Type: domain.LedgerEventFreezeCompany, Status: domain.LedgerEventPending}
	failed := &domain.LedgerEvent{ID: gofakeit.UUID(), CompanyID: 2, Type: domain.LedgerEventRevokeCertifications, Status: domain.LedgerEventPending}
	s.Require().NoError(s.events.Create(ctx, old))
	s.Require().NoError(s.events.Create(ctx, failed))
	s.Require().NoError(s.events.MarkFailed(ctx, failed.ID, "broker down"))

	// Only the failed event is due while pending events are still young.
	due, err := s.events.ListRetryable(ctx, time.Now().Add(-time.Hour), 3, 10)
	s.Require().NoError(err)
	s.Require().Len(due, 1)
	s.Equal(failed.ID, due[0].ID)
	s.Equal(1, due[0].Attempts)
	s.Equal("broker down", due[0].LastError)

	due, err = s.events.ListRetryable(ctx, time.Now().Add(time.Minute), 3, 10)
	s.Require().NoError(err)
	s.Len(due, 2)

	s.Require().NoError(s.events.MarkDelivered(ctx, failed.ID, time.Now()))
	due, err = s.events.ListRetryable(ctx, time.Now().Add(time.Minute), 3, 10)
	s.Require().NoError(err)
	s.Require().Len(due, 1)
	s.Equal(old.ID, due[0].ID)

	s.ErrorIs(s.events.MarkFailed(ctx, "missing", "x"), domain.ErrNotFound)
}

// recordingLedger captures ledger calls
type recordingLedger struct {
	mu     sync.Mutex
	frozen []int64
	err    error
}

func (l *recordingLedger) FreezeCompany(_ context.Context, companyID int64, _, _ string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frozen = append(l.frozen, companyID)
	return l.err
}

func (l *recordingLedger) RevokeCompanyCertifications(context.Context, int64, string, string) error {
	return l.err
}

func (s *RepositorySuite) TestSuspend_EndToEnd() {
	ctx := context.Background()
	dev := s.createCompany(domain.CompanyRoleProgrammeDeveloper, "LK")

	ledger := &recordingLedger{err: fmt.Errorf("broker down")}
	dispatcher := services.NewLedgerDispatcher(ledger, s.events, nil)
	svc := services.NewCompanyService(s.companies, s.events, s.tx, dispatcher, nil)

	result, err := svc.Suspend(ctx, dev.CompanyID, "user-1", "misreporting", nil)
	s.Require().NoError(err)
	s.Equal(domain.LedgerStatusFailed, result.LedgerStatus)
	s.Equal([]int64{dev.CompanyID}, ledger.frozen)

	// The suspension stands and the event waits for the sync job.
	got, err := s.companies.GetByID(ctx, dev.CompanyID)
	s.Require().NoError(err)
	s.Equal(domain.CompanyStateSuspended, got.State)

	ledger.err = nil
	job := services.NewLedgerSyncService(s.events, dispatcher, services.LedgerSyncConfig{})
	s.Equal(1, job.RetryPending(ctx))

	var row models.LedgerEvent
	s.Require().NoError(s.db.Where("company_id = ?", dev.CompanyID).First(&row).Error)
	s.Equal(domain.LedgerEventDelivered, row.Status)
	s.Equal(2, row.Attempts)

	_, err = svc.Suspend(ctx, dev.CompanyID, "user-1", "again", nil)
	s.ErrorIs(err, domain.ErrNoActiveCompany)

	_, err = svc.Activate(ctx, dev.CompanyID, nil)
	s.Require().NoError(err)
}
