package main

import (
	"fmt"
	"log"

	"cast_manager/internal/config"
	"cast_manager/internal/database"
	"cast_manager/internal/migrations"
	"cast_manager/internal/models"
	"cast_manager/internal/repository"
)

func main() {
	fmt.Println("Initializing database...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Recreate schema and seed default settings
	if err := migrations.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Seed a sample roster, products and back rates for local development
	fmt.Println("Seeding sample data...")
	castRepo := repository.NewCastRepository(db)
	productRepo := repository.NewProductRepository(db)

	casts := []models.Cast{
		{StoreID: 1, Name: "Aoi", IsActive: true},
		{StoreID: 1, Name: "Beni", IsActive: true},
		{StoreID: 1, Name: "Chika", IsActive: true},
	}
	for i := range casts {
		if err := castRepo.Create(&casts[i]); err != nil {
			log.Printf("Warning: failed to create cast %s: %v", casts[i].Name, err)
		}
	}

	drink := "drink"
	food := "food"
	products := []models.Product{
		{StoreID: 1, Name: "Champagne", Category: &drink, NeedsCast: true},
		{StoreID: 1, Name: "Bottle", Category: &drink, NeedsCast: true},
		{StoreID: 1, Name: "Cocktail", Category: &drink, NeedsCast: true},
		{StoreID: 1, Name: "Snack Plate", Category: &food, NeedsCast: true},
		{StoreID: 1, Name: "Table Charge", NeedsCast: false},
	}
	for i := range products {
		if err := productRepo.Create(&products[i]); err != nil {
			log.Printf("Warning: failed to create product %s: %v", products[i].Name, err)
		}
	}

	champagne := "Champagne"
	selfRate := 50.0
	helpRate := 25.0
	rates := []models.CastBackRate{
		{StoreID: 1, CastID: casts[0].ID, ProductName: &champagne, SelfBackRatio: selfRate, HelpBackRatio: &helpRate},
		{StoreID: 1, CastID: casts[0].ID, Category: &drink, SelfBackRatio: 40, HelpBackRatio: &helpRate},
	}
	for i := range rates {
		if err := productRepo.CreateBackRate(&rates[i]); err != nil {
			log.Printf("Warning: failed to create back rate: %v", err)
		}
	}

	fmt.Println("Database initialization completed!")
}
