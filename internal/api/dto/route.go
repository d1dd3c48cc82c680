package dto

import (
	"cargo-fleet-service/internal/domain"
	"time"
)

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func FromCoordinates(c domain.Coordinates) LatLng { return LatLng{Lat: c.Lat, Lng: c.Lng} }

func (l LatLng) Domain() domain.Coordinates { return domain.Coordinates{Lat: l.Lat, Lng: l.Lng} }

func fromPath(path []domain.Coordinates) []LatLng {
	out := make([]LatLng, 0, len(path))
	for _, c := range path {
		out = append(out, FromCoordinates(c))
	}
	return out
}

type PlanRouteRequest struct {
	VehicleID   string `json:"vehicle_id"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	// Date of the delivery shift, YYYY-MM-DD. Defaults to today.
	DepartOn string `json:"depart_on"`
}

type DirectionsRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

type RouteStopDTO struct {
	Location LatLng    `json:"location"`
	ArriveAt time.Time `json:"arrive_at"`
	CargoIDs []string  `json:"cargo_ids"`
}

// RouteRequest is a client-built route stored without planning.
type RouteRequest struct {
	VehicleID       string         `json:"vehicle_id"`
	Origin          string         `json:"origin"`
	Destination     string         `json:"destination"`
	DistanceMeters  int            `json:"distance_meters"`
	DurationSeconds int            `json:"duration_seconds"`
	Waypoints       []LatLng       `json:"waypoints"`
	Stops           []RouteStopDTO `json:"stops"`
}

func (r RouteRequest) Domain() *domain.Route {
	route := &domain.Route{
		VehicleID:       r.VehicleID,
		Origin:          r.Origin,
		Destination:     r.Destination,
		DistanceMeters:  r.DistanceMeters,
		DurationSeconds: r.DurationSeconds,
		Waypoints:       make([]domain.Coordinates, 0, len(r.Waypoints)),
		Stops:           make([]domain.RouteStop, 0, len(r.Stops)),
	}
	for _, w := range r.Waypoints {
		route.Waypoints = append(route.Waypoints, w.Domain())
	}
	for _, s := range r.Stops {
		route.Stops = append(route.Stops, domain.RouteStop{
			Location: s.Location.Domain(),
			ArriveAt: s.ArriveAt,
			CargoIDs: s.CargoIDs,
		})
	}
	return route
}

type RouteResponse struct {
	ID              string         `json:"id"`
	VehicleID       string         `json:"vehicle_id"`
	Origin          string         `json:"origin"`
	Destination     string         `json:"destination"`
	DistanceMeters  int            `json:"distance_meters"`
	DurationSeconds int            `json:"duration_seconds"`
	Waypoints       []LatLng       `json:"waypoints"`
	Stops           []RouteStopDTO `json:"stops"`
	CreatedAt       time.Time      `json:"created_at"`
}

func FromRoute(r *domain.Route) RouteResponse {
	stops := make([]RouteStopDTO, 0, len(r.Stops))
	for _, s := range r.Stops {
		ids := s.CargoIDs
		if ids == nil {
			ids = []string{}
		}
		stops = append(stops, RouteStopDTO{
			Location: FromCoordinates(s.Location),
			ArriveAt: s.ArriveAt,
			CargoIDs: ids,
		})
	}

	return RouteResponse{
		ID:              r.ID,
		VehicleID:       r.VehicleID,
		Origin:          r.Origin,
		Destination:     r.Destination,
		DistanceMeters:  r.DistanceMeters,
		DurationSeconds: r.DurationSeconds,
		Waypoints:       fromPath(r.Waypoints),
		Stops:           stops,
		CreatedAt:       r.CreatedAt,
	}
}

type ListRoutesResponse struct {
	Routes []RouteResponse `json:"routes"`
}

type PlanRouteResponse struct {
	Route      RouteResponse       `json:"route"`
	Unassigned []string            `json:"unassigned"`
	Summary    LoadSummaryResponse `json:"summary"`
}

type DirectionsResponse struct {
	Origin          LatLng   `json:"origin"`
	Destination     LatLng   `json:"destination"`
	DistanceMeters  int      `json:"distance_meters"`
	DurationSeconds int      `json:"duration_seconds"`
	Waypoints       []LatLng `json:"waypoints"`
}

func FromDirections(origin, destination domain.Coordinates, meters, seconds int, path []domain.Coordinates) DirectionsResponse {
	return DirectionsResponse{
		Origin:          FromCoordinates(origin),
		Destination:     FromCoordinates(destination),
		DistanceMeters:  meters,
		DurationSeconds: seconds,
		Waypoints:       fromPath(path),
	}
}
