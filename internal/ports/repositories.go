package ports

import (
	"cargo-fleet-service/internal/domain"
	"context"
)

// Port: persistence boundary for vehicles.
type VehicleRepository interface {
	CreateVehicle(ctx context.Context, v *domain.Vehicle) error
	GetVehicle(ctx context.Context, id string) (*domain.Vehicle, error)
	ListVehicles(ctx context.Context) ([]*domain.Vehicle, error)
}

// CargoPatch carries the fields a PATCH request may change. Nil means unchanged.
// Position and rotation are not patchable; only the placement controller moves items.
type CargoPatch struct {
	Name        *string
	Length      *float64
	Width       *float64
	Height      *float64
	Weight      *float64
	Stackable   *bool
	Rotatable   *bool
	Destination *string
}

// Port: persistence boundary for cargo items.
type CargoRepository interface {
	CreateCargo(ctx context.Context, c *domain.CargoItem) error
	GetCargo(ctx context.Context, id string) (*domain.CargoItem, error)
	// ListCargo returns every item when vehicleID is empty.
	ListCargo(ctx context.Context, vehicleID string) ([]*domain.CargoItem, error)
	UpdateCargo(ctx context.Context, id string, patch CargoPatch) (*domain.CargoItem, error)
	// UpdatePlacement writes back position and rotation only.
	UpdatePlacement(ctx context.Context, id string, pos domain.Position, rotation int) error
	DeleteCargo(ctx context.Context, id string) error
	// DeleteCargoByVehicle removes all items of a vehicle in one statement
	// and returns how many were deleted.
	DeleteCargoByVehicle(ctx context.Context, vehicleID string) (int, error)
}

// Port: persistence boundary for planned routes.
type RouteRepository interface {
	CreateRoute(ctx context.Context, r *domain.Route) error
	ListRoutes(ctx context.Context, vehicleID string) ([]*domain.Route, error)
}

// Port: append-only activity log.
type ActivityRepository interface {
	AppendActivity(ctx context.Context, a *domain.ActivityLog) error
	// ListActivity returns the newest entries first.
	ListActivity(ctx context.Context, limit int) ([]*domain.ActivityLog, error)
}
