package ports

import (
	"cargo-fleet-service/internal/domain"
	"context"
	"time"
)

// Contract for turning free-form addresses into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}

// Contract for a persistent address -> coordinate cache.
// Keys are normalized by the caller.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}

// Directions between two points as returned by the external routing service.
type Directions struct {
	DistanceMeters  int
	DurationSeconds int
	Path            []domain.Coordinates
}

type DirectionsProvider interface {
	Directions(ctx context.Context, from, to domain.Coordinates) (Directions, error)
}

// FleetJob is a single delivery handed to the external fleet planner.
type FleetJob struct {
	CargoID  string
	WeightKG float64
	Pickup   domain.Coordinates
	Dropoff  domain.Coordinates
}

type FleetVehicle struct {
	VehicleID  string
	CapacityKG float64
	Start      domain.Coordinates
	ShiftStart time.Time
	ShiftEnd   time.Time
}

type FleetPlanRequest struct {
	Vehicle FleetVehicle
	Jobs    []FleetJob
}

// FleetPlan is the optimised result; the order of Stops is decided externally.
type FleetPlan struct {
	DistanceMeters  int
	DurationSeconds int
	Stops           []domain.RouteStop
	Unassigned      []string
}

// Contract for the third-party fleet optimisation service.
type FleetPlanner interface {
	PlanFleet(ctx context.Context, req FleetPlanRequest) (FleetPlan, error)
}
