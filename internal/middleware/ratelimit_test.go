package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ok() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRateLimitRejectsOverBurst(t *testing.T) {
	// one token per minute, so the bucket does not refill during the test
	handler := RateLimit(1.0/60, 3)(ok())

	var codes []int
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bins/telemetry", nil))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{204, 204, 204, 429, 429}, codes)
}

func TestRateLimitDisabled(t *testing.T) {
	handler := RateLimit(0, 0)(ok())
	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}
