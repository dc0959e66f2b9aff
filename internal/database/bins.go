package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"smarttrash-backend/internal/models"
)

// MaxHistoryLimit caps how many readings one history query returns
const MaxHistoryLimit = 500

// SaveBinReading upserts the bin's current state and appends the reading to
// its history in one transaction. Capacities the reading does not carry keep
// their stored value. Returns the resulting state.
func SaveBinReading(ctx context.Context, db *sqlx.DB, reading models.TelemetryReading, now time.Time) (*models.BinState, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	state := reading.ToState(now)

	var saved models.BinState
	err = tx.GetContext(ctx, &saved, `
		INSERT INTO bins_current (
			id, name, latitude, longitude, trash_level, trash_type,
			gas_level, humidity, temperature, weight, volume, weight_capacity, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			trash_level = EXCLUDED.trash_level,
			trash_type = EXCLUDED.trash_type,
			gas_level = EXCLUDED.gas_level,
			humidity = EXCLUDED.humidity,
			temperature = EXCLUDED.temperature,
			weight = EXCLUDED.weight,
			volume = COALESCE($14, bins_current.volume),
			weight_capacity = COALESCE($15, bins_current.weight_capacity),
			updated_at = EXCLUDED.updated_at
		RETURNING *
	`, state.ID, state.Name, state.Latitude, state.Longitude, state.TrashLevel, state.TrashType,
		state.GasLevel, state.Humidity, state.Temperature, state.Weight, state.Volume, state.WeightCapacity,
		state.UpdatedAt, reading.Volume, reading.WeightCapacity)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert bin state: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bins_history (id, bin_id, trash_level, gas_level, humidity, temperature, weight, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, uuid.New().String(), state.ID, state.TrashLevel, state.GasLevel, state.Humidity,
		state.Temperature, state.Weight, state.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert bin history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit bin reading: %w", err)
	}

	return &saved, nil
}

// GetBinStates returns the current state of every bin ordered by id
func GetBinStates(ctx context.Context, db *sqlx.DB) ([]models.BinState, error) {
	bins := []models.BinState{}
	if err := db.SelectContext(ctx, &bins, `SELECT * FROM bins_current ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("failed to get bin states: %w", err)
	}
	return bins, nil
}

// GetBinState returns one bin's state, or sql.ErrNoRows (wrapped)
func GetBinState(ctx context.Context, db *sqlx.DB, id string) (*models.BinState, error) {
	var bin models.BinState
	if err := db.GetContext(ctx, &bin, `SELECT * FROM bins_current WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to get bin %s: %w", id, err)
	}
	return &bin, nil
}

// GetBinHistory returns the most recent readings of a bin, newest first
func GetBinHistory(ctx context.Context, db *sqlx.DB, binID string, limit int) ([]models.BinHistoryEntry, error) {
	if limit <= 0 || limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	entries := []models.BinHistoryEntry{}
	err := db.SelectContext(ctx, &entries, `
		SELECT * FROM bins_history
		WHERE bin_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2
	`, binID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get bin history: %w", err)
	}
	return entries, nil
}
