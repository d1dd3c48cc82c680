package api

import (
	"cargo-fleet-service/internal/api/handlers"
	"cargo-fleet-service/internal/ports"
	"cargo-fleet-service/internal/services"
	"database/sql"
	"net/http"

	"github.com/rs/zerolog"
)

// Deps lists what the HTTP layer needs. Handlers stay unaware of concrete adapters.
type Deps struct {
	DB       *sql.DB
	Logger   zerolog.Logger
	Vehicles ports.VehicleRepository
	Cargo    ports.CargoRepository
	Routes   ports.RouteRepository
	Activity ports.ActivityRepository
	Catalog  *services.Catalog
	Sessions *services.PlacementSessions
	Planner  *services.RoutePlanner
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	health := &handlers.HealthHandler{DB: d.DB}
	vehicles := &handlers.VehicleHandler{Repo: d.Vehicles, Catalog: d.Catalog}
	cargos := &handlers.CargoHandler{Repo: d.Cargo, Catalog: d.Catalog}
	place := &handlers.PlacementHandler{Sessions: d.Sessions}
	socket := handlers.NewPlacementSocket(d.Sessions)
	routes := &handlers.RouteHandler{Repo: d.Routes, Planner: d.Planner}
	activity := &handlers.ActivityHandler{Repo: d.Activity}

	mux.HandleFunc("/health", health.Health)

	mux.HandleFunc("/vehicles", vehicles.Collection)
	mux.HandleFunc("/vehicles/{id}", vehicles.Get)
	mux.HandleFunc("/vehicles/{id}/placement", place.Session)
	mux.HandleFunc("/vehicles/{id}/placement/events", place.Event)
	mux.HandleFunc("/vehicles/{id}/placement/continue", place.Continue)
	mux.HandleFunc("/vehicles/{id}/placement/ws", socket.Serve)

	mux.HandleFunc("/cargos", cargos.Collection)
	mux.HandleFunc("/cargos/{id}", cargos.Item)

	mux.HandleFunc("/routes", routes.Collection)
	mux.HandleFunc("/routes/plan", routes.Plan)
	mux.HandleFunc("/routes/directions", routes.Directions)

	mux.HandleFunc("/activity-logs", activity.Collection)

	return loggingMiddleware(d.Logger, recoverMiddleware(mux))
}
