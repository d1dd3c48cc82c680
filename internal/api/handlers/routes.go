package handlers

import (
	"cargo-fleet-service/internal/api/dto"
	"cargo-fleet-service/internal/ports"
	"cargo-fleet-service/internal/services"
	"net/http"
	"strings"
	"time"
)

type RouteHandler struct {
	Repo    ports.RouteRepository
	Planner *services.RoutePlanner
}

// Collection serves GET /routes[?vehicle_id=] and POST /routes.
func (h *RouteHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		routes, err := h.Repo.ListRoutes(r.Context(), strings.TrimSpace(r.URL.Query().Get("vehicle_id")))
		if err != nil {
			writeServiceError(w, r, "list routes", err)
			return
		}

		res := dto.ListRoutesResponse{Routes: make([]dto.RouteResponse, 0, len(routes))}
		for _, rt := range routes {
			res.Routes = append(res.Routes, dto.FromRoute(rt))
		}
		writeJSON(w, r, http.StatusOK, res)

	case http.MethodPost:
		var req dto.RouteRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		route := req.Domain()
		if err := h.Planner.CreateRoute(r.Context(), route); err != nil {
			writeServiceError(w, r, "create route", err)
			return
		}
		writeJSON(w, r, http.StatusCreated, dto.FromRoute(route))

	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

// Plan serves POST /routes/plan. The fleet planner decides the stop order.
func (h *RouteHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req dto.PlanRouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	svcReq := services.PlanRouteRequest{
		VehicleID:   strings.TrimSpace(req.VehicleID),
		Origin:      req.Origin,
		Destination: req.Destination,
	}
	if req.DepartOn != "" {
		day, err := time.Parse(time.DateOnly, req.DepartOn)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "depart_on must be a YYYY-MM-DD date")
			return
		}
		svcReq.DepartOn = day
	}

	res, err := h.Planner.PlanRoute(r.Context(), svcReq)
	if err != nil {
		writeServiceError(w, r, "plan route", err)
		return
	}

	unassigned := res.Unassigned
	if unassigned == nil {
		unassigned = []string{}
	}
	writeJSON(w, r, http.StatusCreated, dto.PlanRouteResponse{
		Route:      dto.FromRoute(res.Route),
		Unassigned: unassigned,
		Summary:    dto.FromSummary(res.Summary),
	})
}

// Directions serves POST /routes/directions.
func (h *RouteHandler) Directions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req dto.DirectionsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.Planner.Directions(r.Context(), req.Origin, req.Destination)
	if err != nil {
		writeServiceError(w, r, "directions", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromDirections(
		res.Origin, res.Destination,
		res.Directions.DistanceMeters, res.Directions.DurationSeconds, res.Directions.Path,
	))
}
