package config

import (
	"log"

	"carbon-registry/internal/adapters/persistence/models"
	"carbon-registry/internal/core/domain"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db      *gorm.DB
	country string
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, country string) *Seeder {
	return &Seeder{db: db, country: country}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedGovernment(); err != nil {
		log.Printf("⚠️ Government seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedGovernment seeds the government company of the registry country.
// This is for development/testing only.
func (s *Seeder) seedGovernment() error {
	var count int64
	if err := s.db.Model(&models.Company{}).
		Where("company_role = ? AND country = ?", domain.CompanyRoleGovernment, s.country).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil // Government already exists
	}

	gov := &models.Company{
		TaxID:       "GOV-" + s.country,
		Name:        "Government of " + s.country,
		Email:       "registry@gov.example.org",
		Country:     s.country,
		CompanyRole: domain.CompanyRoleGovernment,
		State:       domain.CompanyStateActive,
	}
	if err := s.db.Create(gov).Error; err != nil {
		return err
	}

	log.Printf("✅ Government company created: %s (%d)", gov.Name, gov.CompanyID)
	return nil
}
