package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusBadRequest, "invalid coordinate")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"invalid coordinate"}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"truck","extra":1}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "truck", dst.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	assert.Error(t, DecodeJSON(req, &dst))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"} {"name":"b"}`))
	assert.Error(t, DecodeJSON(req, &dst))
}
