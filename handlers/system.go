package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"profitpilot/config"
	"profitpilot/services"
	"profitpilot/utils"
)

// SystemHandlers serves liveness, status and client version endpoints.
type SystemHandlers struct {
	cache     *services.CacheService
	mongo     *services.MongoDBService
	cfg       *config.Config
	startedAt time.Time
}

func NewSystemHandlers(cache *services.CacheService, mongo *services.MongoDBService, cfg *config.Config) *SystemHandlers {
	return &SystemHandlers{
		cache:     cache,
		mongo:     mongo,
		cfg:       cfg,
		startedAt: time.Now(),
	}
}

// GetHealth godoc
// @Summary Liveness probe
// @Tags system
// @Success 200 {string} string "OK"
// @Router /health [get]
func (h *SystemHandlers) GetHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// GetStatus returns service status plus a client version verdict when the
// caller sends X-Client-Version.
func (h *SystemHandlers) GetStatus(c echo.Context) error {
	response := map[string]interface{}{
		"status":         "operational",
		"timestamp":      time.Now().UTC(),
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
		"cache_mode":     string(h.cache.GetCacheMode()),
		"mongodb":        h.mongo.Enabled(),
	}

	if clientVersion := c.Request().Header.Get("X-Client-Version"); clientVersion != "" {
		vc := h.versionConfig()
		status, needsUpgrade, severity := utils.CheckVersionStatus(clientVersion, vc)
		response["client"] = map[string]interface{}{
			"version":       clientVersion,
			"status":        status,
			"needs_upgrade": needsUpgrade,
			"severity":      severity,
			"message":       utils.GetUpgradeMessage(clientVersion, vc),
		}
	}

	return c.JSON(http.StatusOK, response)
}

// versionConfig applies the configured minimum client version on top of
// the built-in defaults.
func (h *SystemHandlers) versionConfig() *utils.VersionConfig {
	vc := utils.DefaultVersionConfig
	if h.cfg.Client.MinVersion != "" {
		vc.MinSupported = h.cfg.Client.MinVersion
	}
	return &vc
}

// CheckVersion reports whether a client version is still supported.
func (h *SystemHandlers) CheckVersion(c echo.Context) error {
	clientVersion := c.QueryParam("version")
	if clientVersion == "" {
		clientVersion = c.Request().Header.Get("X-Client-Version")
	}
	if clientVersion == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "version parameter required"})
	}

	vc := h.versionConfig()
	status, needsUpgrade, severity := utils.CheckVersionStatus(clientVersion, vc)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"version":        clientVersion,
		"status":         status,
		"needs_upgrade":  needsUpgrade,
		"severity":       severity,
		"message":        utils.GetUpgradeMessage(clientVersion, vc),
		"current_stable": vc.CurrentStable,
		"min_supported":  vc.MinSupported,
	})
}
