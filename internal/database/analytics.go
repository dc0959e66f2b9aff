package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"smarttrash-backend/internal/models"
)

// GetReadingCountsByBin counts stored readings per bin
func GetReadingCountsByBin(ctx context.Context, db *sqlx.DB) (map[string]int, error) {
	var rows []struct {
		BinID    string `db:"bin_id"`
		Readings int    `db:"readings"`
	}
	err := db.SelectContext(ctx, &rows, `
		SELECT bin_id, COUNT(*) AS readings
		FROM bins_history
		GROUP BY bin_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count readings: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.BinID] = r.Readings
	}
	return counts, nil
}

// GetFillRatesByBin returns each bin's average fill rate in percent per hour
func GetFillRatesByBin(ctx context.Context, db *sqlx.DB) (map[string]float64, error) {
	samples := []models.LevelSample{}
	err := db.SelectContext(ctx, &samples, `
		SELECT bin_id, trash_level, recorded_at
		FROM bins_history
		ORDER BY bin_id, recorded_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get level samples: %w", err)
	}
	return models.AverageFillRates(samples), nil
}

// GetTrashWeightPoints returns the most recent (trash_level, weight) pairs
func GetTrashWeightPoints(ctx context.Context, db *sqlx.DB, limit int) ([]models.CorrelationPoint, error) {
	points := []models.CorrelationPoint{}
	err := db.SelectContext(ctx, &points, `
		SELECT trash_level AS x, weight AS y
		FROM bins_history
		ORDER BY recorded_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get trash/weight points: %w", err)
	}
	return points, nil
}
