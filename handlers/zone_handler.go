// handlers/zone_handler.go
package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/gewnthar/tzimport/models"
)

// HealthHandler pings the store.
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DB().PingContext(r.Context()); err != nil {
		h.logger.Error("health check failed", zap.Error(err))
		h.respondWithJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "message": "database connection error"})
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "tzimport is healthy"})
}

// GetZonesHandler lists TZDB_TIMEZONES.
func (h *Handler) GetZonesHandler(w http.ResponseWriter, r *http.Request) {
	zones, err := h.store.TimeZones(r.Context())
	if err != nil {
		h.respondWithError(w, http.StatusInternalServerError, "Failed to list time zones")
		return
	}
	if zones == nil {
		zones = []models.TimeZone{}
	}
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{"zones": zones})
}

// GetZoneDetailsHandler lists TZDB_ZONE_DETAILS, optionally for one ?zone=.
func (h *Handler) GetZoneDetailsHandler(w http.ResponseWriter, r *http.Request) {
	zone := strings.TrimSpace(r.URL.Query().Get("zone"))
	details, err := h.store.ZoneDetails(r.Context(), zone)
	if err != nil {
		h.respondWithError(w, http.StatusInternalServerError, "Failed to list zone details")
		return
	}
	if zone != "" && len(details) == 0 {
		h.respondWithError(w, http.StatusNotFound, "No details for zone "+zone)
		return
	}
	if details == nil {
		details = []models.ZoneDetail{}
	}
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{"details": details})
}

// GetErrorLogHandler lists TZDB_ERROR_LOG.
func (h *Handler) GetErrorLogHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.ErrorLog(r.Context())
	if err != nil {
		h.respondWithError(w, http.StatusInternalServerError, "Failed to read error log")
		return
	}
	if entries == nil {
		entries = []models.ErrorLogEntry{}
	}
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{"errors": entries})
}
