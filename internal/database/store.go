package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"smarttrash-backend/internal/models"
)

// Store binds the query functions to one connection pool so handlers can
// depend on small interfaces instead of *sqlx.DB
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) SaveBinReading(ctx context.Context, reading models.TelemetryReading, now time.Time) (*models.BinState, error) {
	return SaveBinReading(ctx, s.db, reading, now)
}

func (s *Store) GetBinStates(ctx context.Context) ([]models.BinState, error) {
	return GetBinStates(ctx, s.db)
}

func (s *Store) GetBinState(ctx context.Context, id string) (*models.BinState, error) {
	return GetBinState(ctx, s.db, id)
}

func (s *Store) GetBinHistory(ctx context.Context, binID string, limit int) ([]models.BinHistoryEntry, error) {
	return GetBinHistory(ctx, s.db, binID, limit)
}

func (s *Store) SavePlannedRoute(ctx context.Context, route models.PlannedRouteWithStops) error {
	return SavePlannedRoute(ctx, s.db, route)
}

func (s *Store) ListPlannedRoutes(ctx context.Context, limit int) ([]models.PlannedRoute, error) {
	return ListPlannedRoutes(ctx, s.db, limit)
}

func (s *Store) GetPlannedRoute(ctx context.Context, id string) (*models.PlannedRouteWithStops, error) {
	return GetPlannedRoute(ctx, s.db, id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return GetUserByEmail(ctx, s.db, email)
}

func (s *Store) GetReadingCountsByBin(ctx context.Context) (map[string]int, error) {
	return GetReadingCountsByBin(ctx, s.db)
}

func (s *Store) GetFillRatesByBin(ctx context.Context) (map[string]float64, error) {
	return GetFillRatesByBin(ctx, s.db)
}

func (s *Store) GetTrashWeightPoints(ctx context.Context, limit int) ([]models.CorrelationPoint, error) {
	return GetTrashWeightPoints(ctx, s.db, limit)
}
