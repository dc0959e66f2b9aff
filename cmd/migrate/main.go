package main

import (
	"fmt"
	"log"

	"smarttrash-backend/internal/config"
	"smarttrash-backend/internal/database"
)

func main() {
	if !config.LoadDotEnv() {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if err := database.SeedUsers(db); err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}
	if err := database.SeedBins(db); err != nil {
		log.Fatalf("Bin seeding failed: %v", err)
	}

	log.Println("Migration completed successfully!")

	var result struct {
		Users         int `db:"users"`
		Bins          int `db:"bins"`
		FullBins      int `db:"full_bins"`
		HistoryRows   int `db:"history_rows"`
		PlannedRoutes int `db:"planned_routes"`
	}
	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS users,
			(SELECT COUNT(*) FROM bins_current) AS bins,
			(SELECT COUNT(*) FROM bins_current WHERE trash_level >= $1) AS full_bins,
			(SELECT COUNT(*) FROM bins_history) AS history_rows,
			(SELECT COUNT(*) FROM routes) AS planned_routes
	`
	if err := db.Get(&result, query, cfg.TrashFullThreshold); err != nil {
		log.Fatalf("Failed to query summary: %v", err)
	}

	fmt.Println("\n============================================================")
	fmt.Println("MIGRATION SUMMARY")
	fmt.Println("============================================================")
	fmt.Printf("Users:                   %d\n", result.Users)
	fmt.Printf("Bins:                    %d\n", result.Bins)
	fmt.Printf("Bins at or above %.0f%%:   %d\n", cfg.TrashFullThreshold, result.FullBins)
	fmt.Printf("History rows:            %d\n", result.HistoryRows)
	fmt.Printf("Planned routes:          %d\n", result.PlannedRoutes)
	fmt.Println("============================================================")
}
