package handlers

import (
	"log"
	"net/http"
	"time"

	"smarttrash-backend/internal/metrics"
	"smarttrash-backend/internal/models"
	"smarttrash-backend/internal/routing"
	"smarttrash-backend/pkg/utils"
)

// OptimizeRoute plans a collection round for the bins in the request body
// without storing anything
func OptimizeRoute(optimizer *routing.RouteOptimizer, hub Broadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.OptimizeRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		route, err := runOptimizer(optimizer, req.Container, req.Bins)
		if err != nil {
			writeOptimizeError(w, err)
			return
		}

		hub.BroadcastToRole(models.RoleAdmin, event("route_optimized", map[string]interface{}{
			"container":      req.Container.Name,
			"stops":          len(route.OrderedBins),
			"total_distance": route.TotalDistance,
		}))

		utils.JSON(w, http.StatusOK, route)
	}
}

// runOptimizer wraps Optimize with timing and outcome metrics
func runOptimizer(optimizer *routing.RouteOptimizer, container models.Container, bins []models.Bin) (*models.Route, error) {
	start := time.Now()
	route, err := optimizer.Optimize(container, bins)
	metrics.OptimizeDuration.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		metrics.OptimizeRuns.WithLabelValues("ok").Inc()
		metrics.RoutedBins.Observe(float64(len(route.OrderedBins)))
		metrics.UnroutedBins.Add(float64(len(route.UnroutedBins)))
	case routing.IsValidationError(err):
		metrics.OptimizeRuns.WithLabelValues("invalid").Inc()
	default:
		metrics.OptimizeRuns.WithLabelValues("error").Inc()
	}
	return route, err
}

func writeOptimizeError(w http.ResponseWriter, err error) {
	if routing.IsValidationError(err) {
		log.Printf("⚠️  [OPTIMIZE] Rejected request: %v", err)
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	log.Printf("❌ [OPTIMIZE] %v", err)
	utils.Error(w, http.StatusInternalServerError, "Failed to optimize route")
}
