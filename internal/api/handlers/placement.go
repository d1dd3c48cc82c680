package handlers

import (
	"cargo-fleet-service/internal/api/dto"
	"cargo-fleet-service/internal/placement"
	"cargo-fleet-service/internal/services"
	"errors"
	"net/http"
)

// PlacementHandler exposes the per-vehicle placement session over HTTP.
type PlacementHandler struct {
	Sessions *services.PlacementSessions
}

// Session serves GET (snapshot) and DELETE (reset) /vehicles/{id}/placement.
func (h *PlacementHandler) Session(w http.ResponseWriter, r *http.Request) {
	vehicleID := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		snap, err := h.Sessions.Snapshot(r.Context(), vehicleID)
		if err != nil {
			writeServiceError(w, r, "placement snapshot", err)
			return
		}
		writeJSON(w, r, http.StatusOK, dto.FromSnapshot(snap))

	case http.MethodDelete:
		n, err := h.Sessions.Reset(r.Context(), vehicleID)
		if err != nil {
			writeServiceError(w, r, "placement reset", err)
			return
		}
		writeJSON(w, r, http.StatusOK, dto.ResetResponse{Removed: n})

	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodDelete)
	}
}

// Event serves POST /vehicles/{id}/placement/events.
// Invalid drops are answered with 200 and valid=false.
func (h *PlacementHandler) Event(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req dto.PlacementEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	fb, err := h.Sessions.Apply(r.Context(), r.PathValue("id"), req.Event())
	if err != nil {
		writeServiceError(w, r, "placement event", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromFeedback(fb))
}

// Continue serves POST /vehicles/{id}/placement/continue.
func (h *PlacementHandler) Continue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	summary, err := h.Sessions.Continue(r.Context(), r.PathValue("id"))
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, dto.ContinueResponse{Ready: true, Summary: dto.FromSummary(summary)})
	case errors.Is(err, placement.ErrNoCargo), errors.Is(err, placement.ErrOverweight):
		writeJSON(w, r, http.StatusUnprocessableEntity, dto.ContinueResponse{
			Ready:   false,
			Error:   err.Error(),
			Summary: dto.FromSummary(summary),
		})
	default:
		writeServiceError(w, r, "placement continue", err)
	}
}
