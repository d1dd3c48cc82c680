package handlers

import (
	"cargo-fleet-service/internal/api/dto"
	"cargo-fleet-service/internal/ports"
	"cargo-fleet-service/internal/services"
	"net/http"
	"strings"
)

type CargoHandler struct {
	Repo    ports.CargoRepository
	Catalog *services.Catalog
}

// Collection serves GET /cargos[?vehicle_id=] and POST /cargos.
func (h *CargoHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (h *CargoHandler) list(w http.ResponseWriter, r *http.Request) {
	vehicleID := strings.TrimSpace(r.URL.Query().Get("vehicle_id"))

	items, err := h.Repo.ListCargo(r.Context(), vehicleID)
	if err != nil {
		writeServiceError(w, r, "list cargo", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ListCargoResponse{Cargos: dto.FromCargoList(items)})
}

func (h *CargoHandler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.CargoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.Catalog.CreateCargo(r.Context(), req.Domain())
	if err != nil {
		writeServiceError(w, r, "create cargo", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.FromCargo(item))
}

// Item serves PATCH and DELETE /cargos/{id}.
func (h *CargoHandler) Item(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodPatch:
		var req dto.CargoPatchRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		item, err := h.Catalog.UpdateCargo(r.Context(), id, req.Patch())
		if err != nil {
			writeServiceError(w, r, "update cargo", err)
			return
		}
		writeJSON(w, r, http.StatusOK, dto.FromCargo(item))

	case http.MethodDelete:
		if err := h.Catalog.DeleteCargo(r.Context(), id); err != nil {
			writeServiceError(w, r, "delete cargo", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, r, http.MethodPatch, http.MethodDelete)
	}
}
