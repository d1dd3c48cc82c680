package handlers

import (
	"cargo-fleet-service/internal/api/dto"
	"cargo-fleet-service/internal/domain"
	"cargo-fleet-service/internal/ports"
	"cargo-fleet-service/internal/services"
	"net/http"
	"strconv"
)

const maxActivityLimit = 100

type ActivityHandler struct {
	Repo ports.ActivityRepository
}

// Collection serves GET /activity-logs (newest first, at most 100) and POST.
func (h *ActivityHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		limit := maxActivityLimit
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > maxActivityLimit {
				writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 100")
				return
			}
			limit = n
		}

		logs, err := h.Repo.ListActivity(r.Context(), limit)
		if err != nil {
			writeServiceError(w, r, "list activity", err)
			return
		}

		res := dto.ListActivityResponse{Logs: make([]dto.ActivityResponse, 0, len(logs))}
		for _, a := range logs {
			res.Logs = append(res.Logs, dto.FromActivity(a))
		}
		writeJSON(w, r, http.StatusOK, res)

	case http.MethodPost:
		var req dto.ActivityRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		entry := &domain.ActivityLog{
			Action:     req.Action,
			EntityType: req.EntityType,
			EntityID:   req.EntityID,
			Details:    req.Details,
		}
		if err := services.AppendActivity(r.Context(), h.Repo, entry); err != nil {
			writeServiceError(w, r, "append activity", err)
			return
		}
		writeJSON(w, r, http.StatusCreated, dto.FromActivity(entry))

	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}
