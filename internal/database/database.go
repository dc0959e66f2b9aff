package database

import (
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(dbURL string) (*sqlx.DB, error) {
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Println("🔌 DATABASE CONNECTION ATTEMPT")
	log.Printf("   📍 URL prefix: %s...", dbURL[:min(30, len(dbURL))])
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Printf("❌ sqlx.Connect() failed: %v", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		log.Printf("❌ Ping() failed: %v", err)
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	log.Println("✅ DATABASE CONNECTION SUCCESSFUL")
	return db, nil
}

func Migrate(db *sqlx.DB) error {
	migrations := []string{
		// Create users table
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL CHECK(role IN ('driver', 'admin')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Latest reading per bin, one row per bin updated via UPSERT
		`CREATE TABLE IF NOT EXISTS bins_current (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			trash_level DOUBLE PRECISION NOT NULL CHECK(trash_level >= 0 AND trash_level <= 100),
			trash_type TEXT NOT NULL DEFAULT '',
			gas_level DOUBLE PRECISION NOT NULL DEFAULT 0,
			humidity DOUBLE PRECISION NOT NULL DEFAULT 0,
			temperature DOUBLE PRECISION NOT NULL DEFAULT 0,
			weight DOUBLE PRECISION NOT NULL DEFAULT 0,
			volume DOUBLE PRECISION NOT NULL CHECK(volume >= 0),
			weight_capacity DOUBLE PRECISION NOT NULL CHECK(weight_capacity >= 0),
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Every reading ever received
		`CREATE TABLE IF NOT EXISTS bins_history (
			id TEXT PRIMARY KEY,
			bin_id TEXT NOT NULL,
			trash_level DOUBLE PRECISION NOT NULL,
			gas_level DOUBLE PRECISION NOT NULL DEFAULT 0,
			humidity DOUBLE PRECISION NOT NULL DEFAULT 0,
			temperature DOUBLE PRECISION NOT NULL DEFAULT 0,
			weight DOUBLE PRECISION NOT NULL DEFAULT 0,
			recorded_at BIGINT NOT NULL,
			FOREIGN KEY (bin_id) REFERENCES bins_current(id) ON DELETE CASCADE
		)`,

		// Planned collection rounds
		`CREATE TABLE IF NOT EXISTS routes (
			id TEXT PRIMARY KEY,
			container_name TEXT NOT NULL,
			start_latitude DOUBLE PRECISION NOT NULL,
			start_longitude DOUBLE PRECISION NOT NULL,
			volume_capacity DOUBLE PRECISION NOT NULL,
			weight_capacity DOUBLE PRECISION NOT NULL,
			strategy TEXT NOT NULL,
			total_distance DOUBLE PRECISION NOT NULL,
			total_volume DOUBLE PRECISION NOT NULL,
			total_weight DOUBLE PRECISION NOT NULL,
			stop_count INT NOT NULL,
			created_by_user_id TEXT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (created_by_user_id) REFERENCES users(id) ON DELETE SET NULL
		)`,

		`CREATE TABLE IF NOT EXISTS route_stops (
			id SERIAL PRIMARY KEY,
			route_id TEXT NOT NULL,
			bin_id TEXT NOT NULL,
			sequence_order INT NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			fill_percent DOUBLE PRECISION NOT NULL,
			waste_volume DOUBLE PRECISION NOT NULL,
			waste_weight DOUBLE PRECISION NOT NULL,
			distance DOUBLE PRECISION NOT NULL,
			FOREIGN KEY (route_id) REFERENCES routes(id) ON DELETE CASCADE,
			UNIQUE (route_id, sequence_order),
			UNIQUE (route_id, bin_id)
		)`,

		// Create indexes
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_bins_history_bin_recorded ON bins_history(bin_id, recorded_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_routes_created_at ON routes(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_route_stops_route_seq ON route_stops(route_id, sequence_order)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Printf("✅ Applied %d migrations", len(migrations))
	return nil
}
