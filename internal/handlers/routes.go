package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"smarttrash-backend/internal/middleware"
	"smarttrash-backend/internal/models"
	"smarttrash-backend/internal/routing"
	"smarttrash-backend/pkg/utils"
)

const defaultRouteListLimit = 100

// PlanRoute plans a round over the stored bins, saves it and announces it
// to drivers
func PlanRoute(store RouteStore, optimizer *routing.RouteOptimizer, announcer RouteAnnouncer, hub Broadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.PlanRouteRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		states, err := store.GetBinStates(r.Context())
		if err != nil {
			log.Printf("❌ [PLAN] %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch bins")
			return
		}

		bins := make([]models.Bin, len(states))
		for i, s := range states {
			bins[i] = s.ToBin()
		}

		route, err := runOptimizer(optimizer, req.Container, bins)
		if err != nil {
			writeOptimizeError(w, err)
			return
		}

		planned := models.NewPlannedRoute(uuid.New().String(), req.Container, string(optimizer.Strategy()), route, time.Now().Unix())
		if user, ok := middleware.GetUserFromContext(r); ok {
			planned.CreatedByUserID = &user.UserID
		}

		if err := store.SavePlannedRoute(r.Context(), planned); err != nil {
			log.Printf("❌ [PLAN] %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to save route")
			return
		}

		log.Printf("✅ [PLAN] Route %s saved: %d stops, %.2f km", planned.ID, planned.StopCount, planned.TotalDistance)

		if err := announcer.NotifyRoutePlanned(r.Context(), planned.PlannedRoute); err != nil {
			log.Printf("⚠️  [PLAN] Route %s saved but push failed: %v", planned.ID, err)
		}
		hub.BroadcastToRole(models.RoleDriver, event("route_planned", planned.PlannedRoute))

		utils.JSON(w, http.StatusCreated, planned)
	}
}

// GetRoutes returns the most recently planned routes
func GetRoutes(store RouteStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := parseLimit(r, defaultRouteListLimit)
		if !ok {
			utils.Error(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}

		routes, err := store.ListPlannedRoutes(r.Context(), limit)
		if err != nil {
			log.Printf("❌ [ROUTES] %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch routes")
			return
		}
		utils.JSON(w, http.StatusOK, routes)
	}
}

// GetRoute returns a single planned route with its stops
func GetRoute(store RouteStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		route, err := store.GetPlannedRoute(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, sql.ErrNoRows) {
			utils.Error(w, http.StatusNotFound, "Route not found")
			return
		}
		if err != nil {
			log.Printf("❌ [ROUTES] %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch route")
			return
		}
		utils.JSON(w, http.StatusOK, route)
	}
}
