package database

import (
	"log"

	"advoga/config"
	"advoga/internal/domain"
	"advoga/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error), // only log errors, not every SQL query
		TranslateError: true,                                 // surface unique violations as gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Lawyer{},
		&models.Plan{},
		&models.Subscription{},
		&models.Case{},
		&models.Referral{},
		&models.Payment{},
		&models.Notification{},
	)
}

// SeedPlans inserts the plan catalog if it is not there yet.
func SeedPlans(db *gorm.DB) {
	plans := []models.Plan{
		{
			Name:           "Pesquisa",
			PriceCents:     4900,
			FeatureSearch:  true,
			SearchesPerDay: 100,
		},
		{
			Name:           "Leads",
			PriceCents:     9900,
			FeatureSearch:  true,
			FeatureLeads:   true,
			LeadsPerMonth:  10,
			SearchesPerDay: 500,
		},
		{
			Name:                      "Redacao",
			PriceCents:                14900,
			FeatureSearch:             true,
			FeatureDocumentGeneration: true,
			DocsPerMonth:              20,
			SearchesPerDay:            1000,
		},
		{
			Name:                      "Pro",
			PriceCents:                24900,
			FeatureSearch:             true,
			FeatureAdvancedSearch:     true,
			FeatureLeads:              true,
			FeatureDocumentGeneration: true,
			LeadsPerMonth:             50,
			DocsPerMonth:              100,
			SearchesPerDay:            domain.QuotaUnlimited,
		},
		{
			Name:                      "Full",
			PriceCents:                49900,
			FeatureSearch:             true,
			FeatureAdvancedSearch:     true,
			FeatureJurimetrics:        true,
			FeatureLeads:              true,
			FeaturePriorityLeads:      true,
			FeatureDocumentGeneration: true,
			FeaturePremiumTemplates:   true,
			LeadsPerMonth:             domain.QuotaUnlimited,
			DocsPerMonth:              domain.QuotaUnlimited,
			SearchesPerDay:            domain.QuotaUnlimited,
		},
	}
	for _, p := range plans {
		var existing models.Plan
		if err := db.Where("name = ?", p.Name).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&p).Error; err != nil {
			log.Printf("[seed] plan %s: %v", p.Name, err)
		}
	}
}
