package database

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	"smarttrash-backend/internal/models"
)

// seedBins is a small fleet around Tunis city centre
var seedBins = []models.TelemetryReading{
	{BinID: "bin-001", Name: "Avenue Habib Bourguiba", Location: models.Location{Latitude: 36.8008, Longitude: 10.1800}, TrashLevel: 85, TrashType: "plastic", Weight: 42},
	{BinID: "bin-002", Name: "Place Barcelone", Location: models.Location{Latitude: 36.7950, Longitude: 10.1805}, TrashLevel: 40, TrashType: "general", Weight: 18},
	{BinID: "bin-003", Name: "Bab El Bhar", Location: models.Location{Latitude: 36.7991, Longitude: 10.1741}, TrashLevel: 92, TrashType: "general", Weight: 55},
	{BinID: "bin-004", Name: "Parc du Belvédère", Location: models.Location{Latitude: 36.8199, Longitude: 10.1745}, TrashLevel: 23, TrashType: "organic", Weight: 9},
	{BinID: "bin-005", Name: "Lafayette", Location: models.Location{Latitude: 36.8102, Longitude: 10.1820}, TrashLevel: 67, TrashType: "paper", Weight: 21},
	{BinID: "bin-006", Name: "Montplaisir", Location: models.Location{Latitude: 36.8168, Longitude: 10.1930}, TrashLevel: 78, TrashType: "plastic", Weight: 30},
	{BinID: "bin-007", Name: "Bab Saadoun", Location: models.Location{Latitude: 36.8065, Longitude: 10.1612}, TrashLevel: 15, TrashType: "general", Weight: 6},
	{BinID: "bin-008", Name: "Cité Olympique", Location: models.Location{Latitude: 36.8330, Longitude: 10.1880}, TrashLevel: 56, TrashType: "glass", Weight: 48},
	{BinID: "bin-009", Name: "Le Passage", Location: models.Location{Latitude: 36.8062, Longitude: 10.1790}, TrashLevel: 97, TrashType: "general", Weight: 60},
	{BinID: "bin-010", Name: "Mutuelleville", Location: models.Location{Latitude: 36.8225, Longitude: 10.1660}, TrashLevel: 34, TrashType: "organic", Weight: 14},
}

func SeedBins(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM bins_current"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Bins already seeded, skipping...")
		return nil
	}

	log.Printf("🌱 Seeding %d bins...", len(seedBins))

	ctx := context.Background()
	now := time.Now()
	for _, reading := range seedBins {
		if _, err := SaveBinReading(ctx, db, reading, now); err != nil {
			return err
		}
	}

	log.Printf("✓ Successfully seeded %d bins", len(seedBins))
	return nil
}

func SeedUsers(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM users"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Users already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding test users...")

	users := []struct {
		email, password, name, role string
	}{
		{"driver@smarttrash.tn", "driver123", "Collection Driver", models.RoleDriver},
		{"admin@smarttrash.tn", "admin123", "Fleet Admin", models.RoleAdmin},
	}

	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		_, err = db.NamedExec(`
			INSERT INTO users (id, email, password, name, role)
			VALUES (:id, :email, :password, :name, :role)
		`, map[string]interface{}{
			"id":       uuid.New().String(),
			"email":    u.email,
			"password": string(hash),
			"name":     u.name,
			"role":     u.role,
		})
		if err != nil {
			return err
		}
		log.Printf("  ✓ Created user: %s (%s) / %s", u.email, u.role, u.password)
	}

	log.Println("✓ Successfully seeded test users")
	return nil
}
