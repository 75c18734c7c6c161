package database

import (
	"log"
	"os"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"decor-marketplace-server/models"
	"decor-marketplace-server/utils"
)

// SeedAdmin creates the bootstrap admin from ADMIN_EMAIL and ADMIN_PASSWORD when no admin exists yet
func SeedAdmin(db *gorm.DB) error {
	email := models.NormalizeEmail(os.Getenv("ADMIN_EMAIL"))
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:        email,
		DisplayName:  "Administrator",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("✅ Bootstrap admin %s created", email)
	return nil
}

// SeedCatalog inserts a starter set of decoration packages into an empty catalog
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Service{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("ℹ️ Catalog already has %d packages, skipping seed", count)
		return nil
	}

	packages := []models.Service{
		{
			ServiceName:      "Royal Wedding Stage",
			ServiceCategory:  "Wedding Event",
			Cost:             85000,
			Unit:             "per event",
			ShortDescription: "Full stage, entrance and floral setup for the big day",
			Features:         pq.StringArray{"Stage backdrop", "Entrance gate", "Fresh flowers", "Lighting"},
			Rating:           4.8,
		},
		{
			ServiceName:      "Birthday Balloon Party",
			ServiceCategory:  "Birthday Party",
			Cost:             12000,
			Unit:             "per event",
			ShortDescription: "Balloon arches, cake table and themed props",
			Features:         pq.StringArray{"Balloon arch", "Cake table", "Theme props"},
			Rating:           4.5,
		},
		{
			ServiceName:      "Corporate Gala Night",
			ServiceCategory:  "Corporate Event",
			Cost:             60000,
			Unit:             "per event",
			ShortDescription: "Branded stage, podium and ambient lighting",
			Features:         pq.StringArray{"Branded backdrop", "Podium", "Ambient lighting"},
			Rating:           4.6,
		},
		{
			ServiceName:      "Festive Home Makeover",
			ServiceCategory:  "Home Service",
			Cost:             8000,
			Unit:             "per room",
			ShortDescription: "Living room decoration for festivals and family events",
			Features:         pq.StringArray{"Fairy lights", "Curtain drapes", "Table decor"},
			Rating:           4.3,
		},
	}

	if err := db.Create(&packages).Error; err != nil {
		return err
	}
	log.Printf("✅ Seeded %d decoration packages", len(packages))
	return nil
}
