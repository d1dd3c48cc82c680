package domain

import "time"

// ActivityLog is an append-only record of user-visible actions.
type ActivityLog struct {
	ID         string
	Action     string
	EntityType string
	EntityID   string
	Details    string
	CreatedAt  time.Time
}

const (
	ActionVehicleCreated = "vehicle.created"
	ActionCargoCreated   = "cargo.created"
	ActionCargoUpdated   = "cargo.updated"
	ActionCargoDeleted   = "cargo.deleted"
	ActionRoutePlanned   = "route.planned"
	ActionRouteCreated   = "route.created"
)
