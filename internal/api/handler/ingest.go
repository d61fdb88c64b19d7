package handler

import (
	"errors"
	"net/http"

	"github.com/albapepper/pitwall-data/internal/api/respond"
	"github.com/albapepper/pitwall-data/internal/db"
	"github.com/albapepper/pitwall-data/internal/ingest"
	"github.com/albapepper/pitwall-data/internal/seed"
)

// IngestDrivers runs a driver synchronization and returns its counters.
//
// Query parameters:
//   - year: season to sync (all meetings of that year)
//   - meeting_key: single meeting, or "latest"; wins over year
//
// With neither, the unfiltered driver list is fetched for the current season.
//
// @Summary Sync drivers from OpenF1
// @Description Fetches drivers, merges duplicates and upserts new or changed rows. Requires the admin bearer token.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param year query string false "Season year, e.g. 2025"
// @Param meeting_key query string false "Meeting key or latest"
// @Success 200 {object} seed.Result
// @Failure 400 {object} respond.ErrorResponse
// @Failure 401 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /api/v1/admin/ingest/drivers [post]
func (h *Handler) IngestDrivers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := seed.Options{
		Year:       q.Get("year"),
		MeetingKey: q.Get("meeting_key"),
	}

	result, err := h.drivers.SyncDrivers(r.Context(), ingest.TriggerAPI, opts)
	switch {
	case errors.Is(err, seed.ErrInvalidYear):
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_YEAR", "year must be a season year", err.Error())
	case errors.Is(err, db.ErrRunInProgress):
		respond.WriteError(w, http.StatusConflict, "RUN_IN_PROGRESS", "A driver sync is already running")
	case err != nil:
		respond.WriteErrorDetail(w, http.StatusBadGateway, "INGEST_FAILED", "Driver sync failed", err.Error())
	default:
		respond.WriteJSONObject(w, http.StatusOK, result)
	}
}
