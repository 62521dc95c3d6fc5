package migrations

import (
	"log"

	"cast_manager/internal/models"
	"cast_manager/internal/repository"

	"gorm.io/gorm"
)

// RunMigrations recreates the schema and seeds default settings
func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Force recreate all tables to ensure proper schema
	log.Println("Dropping existing tables...")
	err := db.Migrator().DropTable(
		&models.Cast{},
		&models.Product{},
		&models.CastBackRate{},
		&models.SalesSettings{},
		&models.TaxRate{},
		&models.Order{},
		&models.OrderItem{},
		&models.Attendance{},
		&models.WageTier{},
		&models.CostumeBonus{},
		&models.SpecialDayWage{},
		&models.ChannelSale{},
		&models.CastDailyItem{},
		&models.CastDailyStats{},
		&models.EventPromotion{},
		&models.PromotionThreshold{},
	)
	if err != nil {
		log.Printf("Warning: Error dropping tables: %v", err)
	}

	// Create tables with proper schema
	log.Println("Creating tables...")
	err = db.AutoMigrate(
		&models.Cast{},
		&models.Product{},
		&models.CastBackRate{},
		&models.SalesSettings{},
		&models.TaxRate{},
		&models.Order{},
		&models.OrderItem{},
		&models.Attendance{},
		&models.WageTier{},
		&models.CostumeBonus{},
		&models.SpecialDayWage{},
		&models.ChannelSale{},
		&models.CastDailyItem{},
		&models.CastDailyStats{},
		&models.EventPromotion{},
		&models.PromotionThreshold{},
	)
	if err != nil {
		return err
	}

	// Create default data
	err = createDefaultData(db)
	if err != nil {
		log.Printf("Warning: Failed to create default data: %v", err)
	}

	log.Println("Database migrations completed successfully!")
	return nil
}

// createDefaultData seeds the default store's aggregation settings and tax
// rate so a fresh install can recalculate immediately.
func createDefaultData(db *gorm.DB) error {
	log.Println("Creating default data...")

	settingsRepo := repository.NewSettingsRepository(db)

	if existing, err := settingsRepo.GetByStoreID(1); err == nil && existing != nil {
		log.Println("Default store settings already exist")
		return nil
	}

	log.Println("Creating default store settings...")
	defaults := models.AggregationSetting{
		MultiCastDistribution:  models.NominationOnly,
		HelpDistributionMethod: models.AllToNomination,
		HelpSalesInclusion:     models.SelfOnly,
		RoundingMethod:         models.RoundFloor,
		RoundingPosition:       100,
		RoundingTiming:         models.PerItemTiming,
	}
	settings := &models.SalesSettings{
		StoreID:              1,
		Item:                 defaults,
		Receipt:              defaults,
		PublishedAggregation: models.PublishItemBased,
	}
	if err := settingsRepo.Upsert(settings); err != nil {
		return err
	}

	return settingsRepo.UpsertTaxRate(&models.TaxRate{
		StoreID:               1,
		ConsumptionTaxPercent: 10,
		ServiceChargePercent:  0,
	})
}
