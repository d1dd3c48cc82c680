package domain

import "time"

// Represents a single stop in a planned route.
// A RouteStop corresponds to arriving at a location at a computed time and
// unloading one or more cargo items there.
type RouteStop struct {
	Location Coordinates
	ArriveAt time.Time
	CargoIDs []string
}

// Represents the planned route for a single vehicle.
// Waypoints is the drawable path; Stops is the delivery sequence returned by the
// external planner. Routes are immutable planning data.
type Route struct {
	ID              string
	VehicleID       string
	Origin          string
	Destination     string
	DistanceMeters  int
	DurationSeconds int
	Waypoints       []Coordinates
	Stops           []RouteStop
	CreatedAt       time.Time
}
