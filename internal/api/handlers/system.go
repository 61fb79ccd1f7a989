package handlers

import (
	"net/http"

	"github.com/ndewijer/Personal-Hub-Backend/internal/api/response"
	"github.com/ndewijer/Personal-Hub-Backend/internal/apperrors"
	"github.com/ndewijer/Personal-Hub-Backend/internal/service"
)

// SystemHandler serves the health and version endpoints.
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
	}
}

// Health reports database connectivity and whether the cached balance is fresh.
// A stale or missing balance is reported but does not fail the check.
//
// Endpoint: GET /api/system/health
// Response: 200 OK with model.HealthStatus
// Error: 503 Service Unavailable with model.HealthStatus if the database is unreachable
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	status, err := h.systemService.CheckHealth(r.Context())
	if err != nil {
		respondJSON(w, http.StatusServiceUnavailable, status)
		return
	}

	respondJSON(w, http.StatusOK, status)
}

// Version handles GET requests to retrieve version information and feature availability.
// Returns the application version, database schema version, enabled features, and
// whether migrations are pending.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with model.VersionInfo
// Error: 500 Internal Server Error if version check fails
func (h *SystemHandler) Version(w http.ResponseWriter, _ *http.Request) {
	version, err := h.systemService.CheckVersion()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetVersion.Error(), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, version)
}
