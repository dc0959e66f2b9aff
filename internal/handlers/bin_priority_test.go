package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smarttrash-backend/internal/models"
)

func fetchPriority(t *testing.T, api *testAPI, query string) []BinWithPriority {
	t.Helper()
	rec := api.do(t, http.MethodGet, "/api/bins/priority"+query, nil, token(t, "u-1", models.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out []BinWithPriority
	decode(t, rec, &out)
	return out
}

func ids(bins []BinWithPriority) []string {
	out := make([]string, len(bins))
	for i, b := range bins {
		out[i] = b.ID
	}
	return out
}

func TestGetBinsWithPriority(t *testing.T) {
	api := newTestAPI(t)
	seedBin(t, api, "bin-low", 0, 0.1, 30)
	seedBin(t, api, "bin-full", 0, 0.2, 90)
	seedBin(t, api, "bin-mid", 0, 0.3, 70)
	// fresh reading, not stale
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/api/bins/telemetry", reading("bin-new", 10), "").Code)

	all := fetchPriority(t, api, "")
	assert.Equal(t, []string{"bin-full", "bin-mid", "bin-low", "bin-new"}, ids(all))
	assert.Greater(t, all[0].PriorityScore, all[1].PriorityScore)
	assert.InDelta(t, 216.0, all[0].WasteVolume, 1e-9)
	assert.True(t, all[0].Stale)
	assert.False(t, all[3].Stale)

	assert.Equal(t, []string{"bin-full", "bin-mid"}, ids(fetchPriority(t, api, "?filter=high_fill")))
	assert.Equal(t, []string{"bin-full", "bin-mid", "bin-low"}, ids(fetchPriority(t, api, "?filter=stale")))
	assert.Equal(t, []string{"bin-full"}, ids(fetchPriority(t, api, "?limit=1")))

	byAge := fetchPriority(t, api, "?sort=hours_since_seen")
	assert.Equal(t, "bin-new", byAge[3].ID)
}

func TestGetBinsWithPriorityBadLimit(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/api/bins/priority?limit=0", nil, token(t, "u-1", models.RoleAdmin))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/bins/priority", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
