package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smarttrash-backend/internal/models"
)

func reading(binID string, level float64) map[string]interface{} {
	return map[string]interface{}{
		"bin_id":      binID,
		"name":        "Bin " + binID,
		"location":    map[string]float64{"latitude": 36.8065, "longitude": 10.1815},
		"trash_level": level,
		"trash_type":  "plastic",
		"gaz_level":   12.5,
		"humidity":    40,
		"temperature": 22,
		"weight":      8,
		"water_level": 3, // unknown fields are ignored
	}
}

func TestIngestTelemetryStoresAndBroadcasts(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/bins/telemetry", reading("bin-1", 42), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		OK        bool            `json:"ok"`
		Bin       models.BinState `json:"bin"`
		AlertSent bool            `json:"alert_sent"`
	}
	decode(t, rec, &resp)
	assert.True(t, resp.OK)
	assert.False(t, resp.AlertSent)
	assert.Equal(t, "bin-1", resp.Bin.ID)
	assert.Equal(t, 42.0, resp.Bin.TrashLevel)
	assert.Equal(t, 12.5, resp.Bin.GasLevel)
	assert.Equal(t, models.DefaultBinVolume, resp.Bin.Volume)
	assert.Equal(t, models.DefaultBinWeightCapacity, resp.Bin.WeightCapacity)

	assert.Contains(t, api.store.bins, "bin-1")
	assert.Len(t, api.store.history["bin-1"], 1)
	assert.Equal(t, []string{"bin_update"}, api.hub.types())
	assert.Equal(t, "", api.hub.events[0].role)
	assert.Empty(t, api.notifier.alerts)
}

func TestIngestTelemetryDefaultsName(t *testing.T) {
	api := newTestAPI(t)
	body := reading("bin-2", 10)
	delete(body, "name")

	rec := api.do(t, http.MethodPost, "/api/bins/telemetry", body, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bin-2", api.store.bins["bin-2"].Name)
}

func TestIngestTelemetryFullBinAlerts(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/bins/telemetry", reading("bin-1", 85), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	decode(t, rec, &resp)
	assert.Equal(t, true, resp["alert_sent"])
	require.Len(t, api.notifier.alerts, 1)
	assert.Equal(t, "bin-1", api.notifier.alerts[0].ID)
}

func TestIngestTelemetryGasAlerts(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/bins/telemetry", reading("bin-1", 20), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var quiet map[string]interface{}
	decode(t, rec, &quiet)
	assert.Equal(t, false, quiet["gas_alert_sent"])

	body := reading("bin-1", 20)
	body["gaz_level"] = 17.5
	rec = api.do(t, http.MethodPost, "/api/bins/telemetry", body, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	decode(t, rec, &resp)
	assert.Equal(t, true, resp["gas_alert_sent"])
	assert.Equal(t, false, resp["alert_sent"])
	require.Len(t, api.notifier.gasAlerts, 1)
	assert.Equal(t, 17.5, api.notifier.gasAlerts[0].GasLevel)
}

func TestIngestTelemetryGasAlertFailureStillStores(t *testing.T) {
	api := newTestAPI(t)
	api.notifier.gasErr = errors.New("fcm down")
	body := reading("bin-1", 20)
	body["gaz_level"] = 19

	rec := api.do(t, http.MethodPost, "/api/bins/telemetry", body, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	decode(t, rec, &resp)
	assert.Equal(t, false, resp["gas_alert_sent"])
	assert.Equal(t, 19.0, api.store.bins["bin-1"].GasLevel)
}

func TestIngestTelemetryAlertFailureStillStores(t *testing.T) {
	api := newTestAPI(t)
	api.notifier.err = errors.New("fcm down")

	rec := api.do(t, http.MethodPost, "/api/bins/telemetry", reading("bin-1", 95), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	decode(t, rec, &resp)
	assert.Equal(t, false, resp["alert_sent"])
	assert.Contains(t, api.store.bins, "bin-1")
}

func TestIngestTelemetryKeepsReportedCapacities(t *testing.T) {
	api := newTestAPI(t)

	first := reading("bin-1", 10)
	first["volume"] = 360
	first["weight_capacity"] = 150
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/api/bins/telemetry", first, "").Code)
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/api/bins/telemetry", reading("bin-1", 20), "").Code)

	state := api.store.bins["bin-1"]
	assert.Equal(t, 20.0, state.TrashLevel)
	assert.Equal(t, 360.0, state.Volume)
	assert.Equal(t, 150.0, state.WeightCapacity)
}

func TestIngestTelemetryRejectsInvalidReadings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"missing bin id", func(b map[string]interface{}) { delete(b, "bin_id") }},
		{"level above 100", func(b map[string]interface{}) { b["trash_level"] = 150 }},
		{"negative level", func(b map[string]interface{}) { b["trash_level"] = -1 }},
		{"negative weight", func(b map[string]interface{}) { b["weight"] = -2 }},
		{"negative volume", func(b map[string]interface{}) { b["volume"] = -240 }},
		{"negative gas level", func(b map[string]interface{}) { b["gaz_level"] = -1 }},
		{"bad latitude", func(b map[string]interface{}) {
			b["location"] = map[string]float64{"latitude": 91, "longitude": 0}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			body := reading("bin-1", 50)
			tt.mutate(body)

			rec := api.do(t, http.MethodPost, "/api/bins/telemetry", body, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, api.store.bins)
			assert.Empty(t, api.hub.types())
		})
	}
}

func TestIngestTelemetryStoreError(t *testing.T) {
	api := newTestAPI(t)
	api.store.err = errors.New("connection refused")

	rec := api.do(t, http.MethodPost, "/api/bins/telemetry", reading("bin-1", 90), "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, api.hub.types())
	assert.Empty(t, api.notifier.alerts)
}

func TestBinReadEndpointsRequireAuth(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/api/bins", "/api/bins/bin-1", "/api/bins/bin-1/history"} {
		rec := api.do(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)

		rec = api.do(t, http.MethodGet, path, nil, "not-a-token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestGetBins(t *testing.T) {
	api := newTestAPI(t)
	bearer := token(t, "u-1", models.RoleDriver)

	rec := api.do(t, http.MethodGet, "/api/bins", nil, bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	for _, id := range []string{"bin-2", "bin-1"} {
		require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/api/bins/telemetry", reading(id, 30), "").Code)
	}

	rec = api.do(t, http.MethodGet, "/api/bins", nil, bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	var bins []models.BinState
	decode(t, rec, &bins)
	require.Len(t, bins, 2)
	assert.Equal(t, "bin-1", bins[0].ID)
	assert.Equal(t, "bin-2", bins[1].ID)

	rec = api.do(t, http.MethodGet, "/api/bins/bin-2", nil, bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	var bin models.BinState
	decode(t, rec, &bin)
	assert.Equal(t, "Bin bin-2", bin.Name)

	rec = api.do(t, http.MethodGet, "/api/bins/bin-9", nil, bearer)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetBinHistory(t *testing.T) {
	api := newTestAPI(t)
	bearer := token(t, "u-1", models.RoleAdmin)

	for i := 1; i <= 5; i++ {
		rec := api.do(t, http.MethodPost, "/api/bins/telemetry", reading("bin-1", float64(i*10)), "")
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := api.do(t, http.MethodGet, "/api/bins/bin-1/history", nil, bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []map[string]interface{}
	decode(t, rec, &all)
	require.Len(t, all, 5)
	assert.Equal(t, 50.0, all[0]["trash_level"])
	assert.Contains(t, all[0], "recorded_at")

	rec = api.do(t, http.MethodGet, "/api/bins/bin-1/history?limit=2", nil, bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	var limited []map[string]interface{}
	decode(t, rec, &limited)
	require.Len(t, limited, 2)
	assert.Equal(t, 50.0, limited[0]["trash_level"])
	assert.Equal(t, 40.0, limited[1]["trash_level"])

	for _, bad := range []string{"0", "-3", "abc"} {
		rec = api.do(t, http.MethodGet, fmt.Sprintf("/api/bins/bin-1/history?limit=%s", bad), nil, bearer)
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}

	rec = api.do(t, http.MethodGet, "/api/bins/missing/history", nil, bearer)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
