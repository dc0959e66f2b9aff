package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"smarttrash-backend/internal/middleware"
	"smarttrash-backend/internal/models"
	"smarttrash-backend/internal/routing"
)

const testSecret = "handlers-secret"

type fakeStore struct {
	mu      sync.Mutex
	bins    map[string]models.BinState
	history map[string][]models.BinHistoryEntry
	routes  []models.PlannedRouteWithStops
	users   map[string]models.User
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bins:    make(map[string]models.BinState),
		history: make(map[string][]models.BinHistoryEntry),
		users:   make(map[string]models.User),
	}
}

func (s *fakeStore) SaveBinReading(_ context.Context, reading models.TelemetryReading, now time.Time) (*models.BinState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	state := reading.ToState(now)
	if prev, ok := s.bins[state.ID]; ok {
		if reading.Volume == nil {
			state.Volume = prev.Volume
		}
		if reading.WeightCapacity == nil {
			state.WeightCapacity = prev.WeightCapacity
		}
	}
	s.bins[state.ID] = state
	s.history[state.ID] = append([]models.BinHistoryEntry{{
		ID:         fmt.Sprintf("h-%d", len(s.history[state.ID])),
		BinID:      state.ID,
		TrashLevel: state.TrashLevel,
		Weight:     state.Weight,
		RecordedAt: state.UpdatedAt,
	}}, s.history[state.ID]...)
	return &state, nil
}

func (s *fakeStore) GetBinStates(context.Context) ([]models.BinState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.BinState, 0, len(s.bins))
	for _, b := range s.bins {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) GetBinState(_ context.Context, id string) (*models.BinState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	b, ok := s.bins[id]
	if !ok {
		return nil, fmt.Errorf("failed to get bin %s: %w", id, sql.ErrNoRows)
	}
	return &b, nil
}

func (s *fakeStore) GetBinHistory(_ context.Context, binID string, limit int) ([]models.BinHistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.history[binID]
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return append([]models.BinHistoryEntry{}, entries...), nil
}

func (s *fakeStore) SavePlannedRoute(_ context.Context, route models.PlannedRouteWithStops) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	route.UnroutedBins = nil
	s.routes = append(s.routes, route)
	return nil
}

func (s *fakeStore) ListPlannedRoutes(_ context.Context, limit int) ([]models.PlannedRoute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.PlannedRoute{}
	for i := len(s.routes) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.routes[i].PlannedRoute)
	}
	return out, nil
}

func (s *fakeStore) GetPlannedRoute(_ context.Context, id string) (*models.PlannedRouteWithStops, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.routes {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, fmt.Errorf("failed to get route %s: %w", id, sql.ErrNoRows)
}

func (s *fakeStore) GetReadingCountsByBin(context.Context) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	counts := make(map[string]int, len(s.history))
	for id, entries := range s.history {
		counts[id] = len(entries)
	}
	return counts, nil
}

func (s *fakeStore) GetFillRatesByBin(context.Context) (map[string]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var samples []models.LevelSample
	for id, entries := range s.history {
		for _, e := range entries {
			samples = append(samples, models.LevelSample{BinID: id, TrashLevel: e.TrashLevel, RecordedAt: e.RecordedAt})
		}
	}
	return models.AverageFillRates(samples), nil
}

func (s *fakeStore) GetTrashWeightPoints(_ context.Context, limit int) ([]models.CorrelationPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var all []models.BinHistoryEntry
	for _, entries := range s.history {
		all = append(all, entries...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].RecordedAt > all[j].RecordedAt })

	points := []models.CorrelationPoint{}
	for _, e := range all {
		if len(points) == limit {
			break
		}
		points = append(points, models.CorrelationPoint{X: e.TrashLevel, Y: e.Weight})
	}
	return points, nil
}

func (s *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return nil, fmt.Errorf("failed to get user: %w", sql.ErrNoRows)
	}
	return &u, nil
}

func (s *fakeStore) addUser(t *testing.T, id, email, password, role string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	s.users[email] = models.User{ID: id, Email: email, Password: string(hash), Name: id, Role: role}
}

type fakeNotifier struct {
	mu        sync.Mutex
	alerts    []models.BinState
	gasAlerts []models.BinState
	announced []models.PlannedRoute
	threshold float64
	err       error
	gasErr    error
}

func (n *fakeNotifier) NotifyBinLevel(_ context.Context, bin models.BinState) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if bin.TrashLevel < n.threshold {
		return false, nil
	}
	if n.err != nil {
		return false, n.err
	}
	n.alerts = append(n.alerts, bin)
	return true, nil
}

func (n *fakeNotifier) NotifyGasLevel(_ context.Context, bin models.BinState) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if models.GasLevelIndex(bin.GasLevel) < models.GasAlertLevel {
		return false, nil
	}
	if n.gasErr != nil {
		return false, n.gasErr
	}
	n.gasAlerts = append(n.gasAlerts, bin)
	return true, nil
}

func (n *fakeNotifier) NotifyRoutePlanned(_ context.Context, route models.PlannedRoute) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.announced = append(n.announced, route)
	return nil
}

type sentEvent struct {
	role string // empty for everyone
	data map[string]interface{}
}

type fakeHub struct {
	mu     sync.Mutex
	events []sentEvent
}

func (h *fakeHub) BroadcastToRole(role string, data interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, sentEvent{role: role, data: data.(map[string]interface{})})
}

func (h *fakeHub) BroadcastAll(data interface{}) {
	h.BroadcastToRole("", data)
}

func (h *fakeHub) types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.events))
	for i, e := range h.events {
		out[i] = e.data["type"].(string)
	}
	return out
}

type testAPI struct {
	store    *fakeStore
	notifier *fakeNotifier
	hub      *fakeHub
	handler  http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	api := &testAPI{
		store:    newFakeStore(),
		notifier: &fakeNotifier{threshold: 80},
		hub:      &fakeHub{},
	}
	api.handler = NewRouter(RouterConfig{
		Store:               api.store,
		Optimizer:           routing.NewRouteOptimizer(routing.Options{}),
		Notifier:            api.notifier,
		Hub:                 api.hub,
		JWTSecret:           testSecret,
		TelemetryRatePerSec: 1000,
		TelemetryBurst:      1000,
	})
	return api
}

func token(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := middleware.IssueToken(testSecret, middleware.UserClaims{UserID: userID, Email: userID + "@test", Role: role}, time.Now())
	require.NoError(t, err)
	return tok
}

// do sends a request through the router; body may be a string or any value
// to encode as JSON
func (a *testAPI) do(t *testing.T, method, path string, body interface{}, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}
