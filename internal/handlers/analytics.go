package handlers

import (
	"log"
	"net/http"

	"smarttrash-backend/pkg/utils"
)

const defaultCorrelationLimit = 1000

// GetPopulationByBin returns how many readings each bin has reported, a
// proxy for how often it is used
func GetPopulationByBin(store AnalyticsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := store.GetReadingCountsByBin(r.Context())
		if err != nil {
			log.Printf("❌ [ANALYTICS] %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to compute bin population")
			return
		}
		utils.JSON(w, http.StatusOK, counts)
	}
}

// GetFillRateByBin returns each bin's average fill rate in percent per hour
func GetFillRateByBin(store AnalyticsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rates, err := store.GetFillRatesByBin(r.Context())
		if err != nil {
			log.Printf("❌ [ANALYTICS] %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to compute fill rates")
			return
		}
		utils.JSON(w, http.StatusOK, rates)
	}
}

// GetTrashWeightCorrelation returns {x: trash_level, y: weight} points for
// a scatter plot, newest readings first
func GetTrashWeightCorrelation(store AnalyticsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := parseLimit(r, defaultCorrelationLimit)
		if !ok {
			utils.Error(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}

		points, err := store.GetTrashWeightPoints(r.Context(), limit)
		if err != nil {
			log.Printf("❌ [ANALYTICS] %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch correlation data")
			return
		}
		utils.JSON(w, http.StatusOK, points)
	}
}
