package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smarttrash-backend/internal/middleware"
	"smarttrash-backend/internal/models"
)

func TestLogin(t *testing.T) {
	api := newTestAPI(t)
	api.store.addUser(t, "u-1", "admin@smarttrash.tn", "admin123", models.RoleAdmin)

	rec := api.do(t, http.MethodPost, "/api/auth/login", models.LoginRequest{Email: "admin@smarttrash.tn", Password: "admin123"}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.LoginResponse
	decode(t, rec, &resp)
	assert.True(t, resp.OK)
	require.NotNil(t, resp.User)
	assert.Equal(t, "u-1", resp.User.ID)
	assert.NotContains(t, rec.Body.String(), "password")

	claims, err := middleware.ParseToken(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestLoginRejected(t *testing.T) {
	api := newTestAPI(t)
	api.store.addUser(t, "u-1", "driver@smarttrash.tn", "driver123", models.RoleDriver)

	rec := api.do(t, http.MethodPost, "/api/auth/login", models.LoginRequest{Email: "driver@smarttrash.tn", Password: "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"ok":false}`, rec.Body.String())

	rec = api.do(t, http.MethodPost, "/api/auth/login", models.LoginRequest{Email: "nobody@smarttrash.tn", Password: "x"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/auth/login", "not json", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
