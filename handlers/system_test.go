package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profitpilot/config"
	"profitpilot/logger"
	"profitpilot/services"
)

func testSystemHandlers(t *testing.T) *SystemHandlers {
	t.Helper()

	cfg := &config.Config{Cache: config.CacheConfig{TTL: 300}}
	cache := services.NewCacheService(cfg, logger.NewNop())
	t.Cleanup(cache.Stop)

	return NewSystemHandlers(cache, nil, cfg)
}

func TestGetHealth(t *testing.T) {
	h := testSystemHandlers(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, h.GetHealth(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestGetStatus_WithClientVersion(t *testing.T) {
	h := testSystemHandlers(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("X-Client-Version", "1.1.0")
	rec := httptest.NewRecorder()

	require.NoError(t, h.GetStatus(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Status string `json:"status"`
		Client struct {
			NeedsUpgrade bool   `json:"needs_upgrade"`
			Status       string `json:"status"`
		} `json:"client"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "operational", payload.Status)
	assert.True(t, payload.Client.NeedsUpgrade)
}

func TestCheckVersion(t *testing.T) {
	h := testSystemHandlers(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/version?version=1.4.0", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, h.CheckVersion(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		NeedsUpgrade bool   `json:"needs_upgrade"`
		Status       string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.False(t, payload.NeedsUpgrade)

	// Missing version is a client error.
	req = httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec = httptest.NewRecorder()
	require.NoError(t, h.CheckVersion(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
