// handlers_health.go - Health check handlers
package api

import (
	"net/http"

	"github.com/file-analyzer/backend/internal/submission"
	"github.com/labstack/echo/v4"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version  string
	surfaces *submission.Manager
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, surfaces *submission.Manager) HealthHandler {
	return &HealthHandlerImpl{
		version:  version,
		surfaces: surfaces,
	}
}

// HandleHealth returns server health status
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	resp := map[string]interface{}{
		"status":  "ok",
		"version": h.version,
	}
	if h.surfaces != nil {
		resp["surfaces"] = h.surfaces.Len()
	}
	return c.JSON(http.StatusOK, resp)
}
