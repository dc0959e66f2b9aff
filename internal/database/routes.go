package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"smarttrash-backend/internal/models"
)

// SavePlannedRoute stores a route and its stops in a transaction
func SavePlannedRoute(ctx context.Context, db *sqlx.DB, route models.PlannedRouteWithStops) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO routes (
			id, container_name, start_latitude, start_longitude, volume_capacity, weight_capacity,
			strategy, total_distance, total_volume, total_weight, stop_count, created_by_user_id, created_at
		)
		VALUES (
			:id, :container_name, :start_latitude, :start_longitude, :volume_capacity, :weight_capacity,
			:strategy, :total_distance, :total_volume, :total_weight, :stop_count, :created_by_user_id, :created_at
		)
	`, route.PlannedRoute)
	if err != nil {
		return fmt.Errorf("failed to insert route: %w", err)
	}

	for _, stop := range route.Stops {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO route_stops (
				route_id, bin_id, sequence_order, latitude, longitude,
				fill_percent, waste_volume, waste_weight, distance
			)
			VALUES (
				:route_id, :bin_id, :sequence_order, :latitude, :longitude,
				:fill_percent, :waste_volume, :waste_weight, :distance
			)
		`, stop)
		if err != nil {
			return fmt.Errorf("failed to insert stop %d: %w", stop.SequenceOrder, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit route: %w", err)
	}
	return nil
}

// ListPlannedRoutes returns the most recent routes without their stops
func ListPlannedRoutes(ctx context.Context, db *sqlx.DB, limit int) ([]models.PlannedRoute, error) {
	if limit <= 0 || limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	routes := []models.PlannedRoute{}
	err := db.SelectContext(ctx, &routes, `
		SELECT * FROM routes
		ORDER BY created_at DESC, id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}
	return routes, nil
}

// GetPlannedRoute returns a route with its stops in visiting order, or
// sql.ErrNoRows (wrapped) when it does not exist
func GetPlannedRoute(ctx context.Context, db *sqlx.DB, id string) (*models.PlannedRouteWithStops, error) {
	var route models.PlannedRouteWithStops
	if err := db.GetContext(ctx, &route.PlannedRoute, `SELECT * FROM routes WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to get route %s: %w", id, err)
	}

	route.Stops = []models.RouteStop{}
	err := db.SelectContext(ctx, &route.Stops, `
		SELECT * FROM route_stops
		WHERE route_id = $1
		ORDER BY sequence_order ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get stops for route %s: %w", id, err)
	}
	return &route, nil
}
