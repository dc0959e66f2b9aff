package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"smarttrash-backend/internal/models"
)

// BinStore is the bin persistence the handlers need
type BinStore interface {
	SaveBinReading(ctx context.Context, reading models.TelemetryReading, now time.Time) (*models.BinState, error)
	GetBinStates(ctx context.Context) ([]models.BinState, error)
	GetBinState(ctx context.Context, id string) (*models.BinState, error)
	GetBinHistory(ctx context.Context, binID string, limit int) ([]models.BinHistoryEntry, error)
}

// RouteStore persists planned routes and reads the bins they are planned from
type RouteStore interface {
	GetBinStates(ctx context.Context) ([]models.BinState, error)
	SavePlannedRoute(ctx context.Context, route models.PlannedRouteWithStops) error
	ListPlannedRoutes(ctx context.Context, limit int) ([]models.PlannedRoute, error)
	GetPlannedRoute(ctx context.Context, id string) (*models.PlannedRouteWithStops, error)
}

// AnalyticsStore aggregates the stored telemetry history
type AnalyticsStore interface {
	GetReadingCountsByBin(ctx context.Context) (map[string]int, error)
	GetFillRatesByBin(ctx context.Context) (map[string]float64, error)
	GetTrashWeightPoints(ctx context.Context, limit int) ([]models.CorrelationPoint, error)
}

type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Broadcaster pushes events to connected WebSocket clients
type Broadcaster interface {
	BroadcastToRole(role string, data interface{})
	BroadcastAll(data interface{})
}

// BinAlerter sends full-bin and gas push notifications
type BinAlerter interface {
	NotifyBinLevel(ctx context.Context, bin models.BinState) (bool, error)
	NotifyGasLevel(ctx context.Context, bin models.BinState) (bool, error)
}

// RouteAnnouncer tells drivers about new routes
type RouteAnnouncer interface {
	NotifyRoutePlanned(ctx context.Context, route models.PlannedRoute) error
}

// parseLimit reads ?limit=N. Missing means def; anything that is not a
// positive integer is an error.
func parseLimit(r *http.Request, def int) (int, bool) {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return def, true
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		return 0, false
	}
	return limit, true
}

func event(eventType string, data interface{}) map[string]interface{} {
	return map[string]interface{}{
		"type":      eventType,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
}
