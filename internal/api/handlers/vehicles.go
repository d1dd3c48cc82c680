package handlers

import (
	"cargo-fleet-service/internal/api/dto"
	"cargo-fleet-service/internal/ports"
	"cargo-fleet-service/internal/services"
	"net/http"
)

type VehicleHandler struct {
	Repo    ports.VehicleRepository
	Catalog *services.Catalog
}

// Collection serves GET and POST /vehicles.
func (h *VehicleHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (h *VehicleHandler) list(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.Repo.ListVehicles(r.Context())
	if err != nil {
		writeServiceError(w, r, "list vehicles", err)
		return
	}

	res := dto.ListVehiclesResponse{Vehicles: make([]dto.VehicleResponse, 0, len(vehicles))}
	for _, v := range vehicles {
		res.Vehicles = append(res.Vehicles, dto.FromVehicle(v))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *VehicleHandler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.VehicleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	v, err := h.Catalog.CreateVehicle(r.Context(), req.Domain())
	if err != nil {
		writeServiceError(w, r, "create vehicle", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.FromVehicle(v))
}

// Get serves GET /vehicles/{id}.
func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	v, err := h.Repo.GetVehicle(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get vehicle", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromVehicle(v))
}
