package handlers

import (
	"log"
	"net/http"
	"sort"
	"time"

	"smarttrash-backend/internal/models"
	"smarttrash-backend/internal/routing"
	"smarttrash-backend/pkg/utils"
)

const (
	highFillPercent   = 60
	staleReadingAfter = 24 * time.Hour
)

// BinWithPriority extends BinState with its collection priority
type BinWithPriority struct {
	models.BinState
	PriorityScore  float64 `json:"priority_score"`
	WasteVolume    float64 `json:"waste_volume"`
	WasteWeight    float64 `json:"waste_weight"`
	HoursSinceSeen int     `json:"hours_since_seen"`
	Stale          bool    `json:"stale"`
}

// GetBinsWithPriority returns bins ranked by the same score the optimizer
// uses to pick bins.
// Query params:
//   - sort: priority (default), fill_percentage, hours_since_seen
//   - filter: all (default), high_fill, stale
//   - limit: max results (default: 100)
func GetBinsWithPriority(store BinStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sortBy := r.URL.Query().Get("sort")
		if sortBy == "" {
			sortBy = "priority"
		}
		filter := r.URL.Query().Get("filter")
		if filter == "" {
			filter = "all"
		}
		limit, ok := parseLimit(r, defaultRouteListLimit)
		if !ok {
			utils.Error(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}

		log.Printf("[GET-BINS-PRIORITY] Fetching bins (sort=%s, filter=%s, limit=%d)", sortBy, filter, limit)

		states, err := store.GetBinStates(r.Context())
		if err != nil {
			log.Printf("❌ [GET-BINS-PRIORITY] %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch bins")
			return
		}

		ranked := rankBins(states, time.Now())

		filtered := ranked[:0]
		for _, b := range ranked {
			switch filter {
			case "high_fill":
				if b.TrashLevel < highFillPercent {
					continue
				}
			case "stale":
				if !b.Stale {
					continue
				}
			}
			filtered = append(filtered, b)
		}

		switch sortBy {
		case "fill_percentage":
			sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].TrashLevel > filtered[j].TrashLevel })
		case "hours_since_seen":
			sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].HoursSinceSeen > filtered[j].HoursSinceSeen })
		}

		if len(filtered) > limit {
			filtered = filtered[:limit]
		}

		log.Printf("✅ [GET-BINS-PRIORITY] Returning %d bins", len(filtered))
		utils.JSON(w, http.StatusOK, filtered)
	}
}

// rankBins scores the bins and returns them by descending priority
func rankBins(states []models.BinState, now time.Time) []BinWithPriority {
	byID := make(map[string]models.BinState, len(states))
	bins := make([]models.Bin, len(states))
	for i, s := range states {
		byID[s.ID] = s
		bins[i] = s.ToBin()
	}

	ranked := make([]BinWithPriority, 0, len(states))
	for _, sb := range routing.ScoreBins(bins) {
		state := byID[sb.Bin.Name]
		age := now.Sub(time.Unix(state.UpdatedAt, 0))
		ranked = append(ranked, BinWithPriority{
			BinState:       state,
			PriorityScore:  sb.Score,
			WasteVolume:    sb.WasteVolume,
			WasteWeight:    sb.WasteWeight,
			HoursSinceSeen: int(age.Hours()),
			Stale:          age >= staleReadingAfter,
		})
	}
	return ranked
}
