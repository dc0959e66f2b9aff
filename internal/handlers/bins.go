package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"smarttrash-backend/internal/metrics"
	"smarttrash-backend/internal/models"
	"smarttrash-backend/internal/routing"
	"smarttrash-backend/pkg/utils"
)

const defaultHistoryLimit = 50

// GetBins returns the current state of every bin
func GetBins(store BinStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bins, err := store.GetBinStates(r.Context())
		if err != nil {
			log.Printf("❌ [BINS] %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch bins")
			return
		}
		utils.JSON(w, http.StatusOK, bins)
	}
}

// GetBin returns one bin's current state
func GetBin(store BinStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bin, err := store.GetBinState(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, sql.ErrNoRows) {
			utils.Error(w, http.StatusNotFound, "Bin not found")
			return
		}
		if err != nil {
			log.Printf("❌ [BINS] %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch bin")
			return
		}
		utils.JSON(w, http.StatusOK, bin)
	}
}

// GetBinHistory returns a bin's most recent readings, newest first
func GetBinHistory(store BinStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		binID := chi.URLParam(r, "id")

		limit, ok := parseLimit(r, defaultHistoryLimit)
		if !ok {
			utils.Error(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}

		if _, err := store.GetBinState(r.Context(), binID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				utils.Error(w, http.StatusNotFound, "Bin not found")
				return
			}
			log.Printf("❌ [BINS] %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch bin")
			return
		}

		entries, err := store.GetBinHistory(r.Context(), binID, limit)
		if err != nil {
			log.Printf("❌ [BINS] %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch bin history")
			return
		}

		responses := make([]models.BinHistoryResponse, len(entries))
		for i, e := range entries {
			responses[i] = e.ToResponse()
		}
		utils.JSON(w, http.StatusOK, responses)
	}
}

// IngestTelemetry stores a sensor reading, pushes it to connected clients
// and raises a full-bin alert when needed
func IngestTelemetry(store BinStore, alerter BinAlerter, hub Broadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var reading models.TelemetryReading
		if err := utils.DecodeJSON(r, &reading); err != nil {
			metrics.TelemetryReadings.WithLabelValues("invalid").Inc()
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		if reading.Name == "" {
			reading.Name = reading.BinID
		}
		if err := validateReading(reading); err != nil {
			metrics.TelemetryReadings.WithLabelValues("invalid").Inc()
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		state, err := store.SaveBinReading(r.Context(), reading, time.Now())
		if err != nil {
			metrics.TelemetryReadings.WithLabelValues("error").Inc()
			log.Printf("❌ [TELEMETRY] %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to store reading")
			return
		}
		metrics.TelemetryReadings.WithLabelValues("stored").Inc()

		hub.BroadcastAll(event("bin_update", state))

		alertSent, err := alerter.NotifyBinLevel(r.Context(), *state)
		switch {
		case err != nil:
			metrics.FullBinAlerts.WithLabelValues("failed").Inc()
			log.Printf("⚠️  [TELEMETRY] Full-bin alert for %s failed: %v", state.ID, err)
		case alertSent:
			metrics.FullBinAlerts.WithLabelValues("sent").Inc()
		}

		gasAlertSent, err := alerter.NotifyGasLevel(r.Context(), *state)
		if err != nil {
			metrics.GasAlerts.WithLabelValues("failed").Inc()
			log.Printf("⚠️  [TELEMETRY] Gas alert for %s failed: %v", state.ID, err)
		}
		if gasAlertSent {
			metrics.GasAlerts.WithLabelValues("sent").Inc()
		}

		utils.JSON(w, http.StatusOK, map[string]interface{}{
			"ok":             true,
			"bin":            state,
			"alert_sent":     alertSent,
			"gas_alert_sent": gasAlertSent,
		})
	}
}

var errInvalidReading = errors.New("invalid reading")

func validateReading(r models.TelemetryReading) error {
	switch {
	case r.BinID == "":
		return fmt.Errorf("%w: bin_id is required", errInvalidReading)
	case !(r.TrashLevel >= 0 && r.TrashLevel <= 100):
		return fmt.Errorf("%w: trash_level %v outside 0-100", errInvalidReading, r.TrashLevel)
	case r.Weight < 0 || math.IsNaN(r.Weight):
		return fmt.Errorf("%w: weight must not be negative", errInvalidReading)
	case !(r.GasLevel >= 0):
		return fmt.Errorf("%w: gaz_level must not be negative", errInvalidReading)
	case r.Volume != nil && !(*r.Volume >= 0):
		return fmt.Errorf("%w: volume must not be negative", errInvalidReading)
	case r.WeightCapacity != nil && !(*r.WeightCapacity >= 0):
		return fmt.Errorf("%w: weight_capacity must not be negative", errInvalidReading)
	}
	return routing.ValidateLocation(r.Location)
}
