package services

import (
	"cargo-fleet-service/internal/domain"
	"cargo-fleet-service/internal/placement"
	"cargo-fleet-service/internal/platform/obs"
	"cargo-fleet-service/internal/ports"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Delivery shift handed to the fleet planner, in hours of the departure day.
const (
	shiftStartHour = 8
	shiftEndHour   = 18
	// Upper bound on concurrent calls to the maps service.
	mapsConcurrency = 4
)

type PlanRouteRequest struct {
	VehicleID   string
	Origin      string
	Destination string
	// DepartOn selects the day of the delivery shift. Zero means today.
	DepartOn time.Time
}

type PlanRouteResult struct {
	Route      *domain.Route
	Unassigned []string
	Summary    placement.LoadSummary
}

// RoutePlanner turns a loaded vehicle into a delivery route. Ordering is
// decided by the external fleet planner; this service only gathers inputs
// and stores the outcome.
type RoutePlanner struct {
	Vehicles ports.VehicleRepository
	Cargo    ports.CargoRepository
	Routes   ports.RouteRepository
	Activity ports.ActivityRepository
	Geocoder ports.Geocoder
	Planner  ports.FleetPlanner
	Paths    ports.DirectionsProvider
	Now      func() time.Time
}

func (p *RoutePlanner) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// resolveLocation accepts either a "lat,lng" pair or a free-form address.
func resolveLocation(ctx context.Context, g ports.Geocoder, loc string) (domain.Coordinates, error) {
	c, ok, err := domain.ParseLatLng(loc)
	if err != nil {
		return domain.Coordinates{}, err
	}
	if ok {
		return c, nil
	}
	if g == nil {
		return domain.Coordinates{}, fmt.Errorf("resolve %q: no geocoder configured", loc)
	}
	return g.Geocode(ctx, loc)
}

// resolveAll geocodes each distinct location once, concurrently.
func resolveAll(ctx context.Context, g ports.Geocoder, locations []string) (map[string]domain.Coordinates, error) {
	seen := make(map[string]struct{}, len(locations))
	uniq := make([]string, 0, len(locations))
	for _, l := range locations {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		uniq = append(uniq, l)
	}

	var mu sync.Mutex
	out := make(map[string]domain.Coordinates, len(uniq))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(mapsConcurrency)
	for _, l := range uniq {
		eg.Go(func() error {
			c, err := resolveLocation(egCtx, g, l)
			if err != nil {
				return fmt.Errorf("resolve %q: %w", l, err)
			}
			mu.Lock()
			out[l] = c
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// PlanRoute checks the load gate, resolves all locations, asks the fleet
// planner for a delivery order and stores the resulting route.
func (p *RoutePlanner) PlanRoute(ctx context.Context, req PlanRouteRequest) (_ *PlanRouteResult, err error) {
	defer obs.Time(ctx, "routes.PlanRoute")(&err)

	req.Origin = strings.TrimSpace(req.Origin)
	req.Destination = strings.TrimSpace(req.Destination)
	if req.VehicleID == "" || req.Origin == "" || req.Destination == "" {
		return nil, fmt.Errorf("plan route: vehicle, origin and destination are required: %w", domain.ErrInvalid)
	}

	v, err := p.Vehicles.GetVehicle(ctx, req.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}
	items, err := p.Cargo.ListCargo(ctx, v.ID)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	summary := placement.Summarize(v, items)
	if err := placement.CheckContinue(summary); err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	// Items without their own destination go to the route destination.
	dropoffs := make([]string, len(items))
	locations := []string{req.Origin, req.Destination}
	for i, it := range items {
		dropoffs[i] = it.Destination
		if dropoffs[i] == "" {
			dropoffs[i] = req.Destination
		}
		locations = append(locations, dropoffs[i])
	}

	coords, err := resolveAll(ctx, p.Geocoder, locations)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}
	origin := coords[req.Origin]

	day := req.DepartOn
	if day.IsZero() {
		day = p.now()
	}
	y, m, d := day.Date()
	shiftStart := time.Date(y, m, d, shiftStartHour, 0, 0, 0, day.Location())
	shiftEnd := time.Date(y, m, d, shiftEndHour, 0, 0, 0, day.Location())

	fleetReq := ports.FleetPlanRequest{
		Vehicle: ports.FleetVehicle{
			VehicleID:  v.ID,
			CapacityKG: v.MaxWeight,
			Start:      origin,
			ShiftStart: shiftStart,
			ShiftEnd:   shiftEnd,
		},
		Jobs: make([]ports.FleetJob, 0, len(items)),
	}
	for i, it := range items {
		fleetReq.Jobs = append(fleetReq.Jobs, ports.FleetJob{
			CargoID:  it.ID,
			WeightKG: it.Weight,
			Pickup:   origin,
			Dropoff:  coords[dropoffs[i]],
		})
	}

	plan, err := p.Planner.PlanFleet(ctx, fleetReq)
	if err != nil {
		return nil, fmt.Errorf("plan route: fleet planner: %w", err)
	}

	waypoints, err := p.tracePath(ctx, origin, plan.Stops)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	route := &domain.Route{
		VehicleID:       v.ID,
		Origin:          req.Origin,
		Destination:     req.Destination,
		DistanceMeters:  plan.DistanceMeters,
		DurationSeconds: plan.DurationSeconds,
		Waypoints:       waypoints,
		Stops:           plan.Stops,
	}
	if err := p.Routes.CreateRoute(ctx, route); err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	recordActivity(ctx, p.Activity, domain.ActionRoutePlanned, "route", route.ID,
		fmt.Sprintf("vehicle %s: %d stops, %d unassigned, %d m", v.ID, len(plan.Stops), len(plan.Unassigned), plan.DistanceMeters))

	return &PlanRouteResult{Route: route, Unassigned: plan.Unassigned, Summary: summary}, nil
}

// tracePath builds the drawable path origin -> stop1 -> ... -> stopN. Legs
// are fetched concurrently; without a directions provider the path is the
// straight polyline through the stops.
func (p *RoutePlanner) tracePath(
	ctx context.Context,
	origin domain.Coordinates,
	stops []domain.RouteStop,
) ([]domain.Coordinates, error) {
	points := make([]domain.Coordinates, 0, len(stops)+1)
	points = append(points, origin)
	for _, s := range stops {
		points = append(points, s.Location)
	}

	if p.Paths == nil || len(points) < 2 {
		return points, nil
	}

	legs := make([][]domain.Coordinates, len(points)-1)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(mapsConcurrency)
	for i := range legs {
		eg.Go(func() error {
			if points[i] == points[i+1] {
				legs[i] = []domain.Coordinates{points[i]}
				return nil
			}
			d, err := p.Paths.Directions(egCtx, points[i], points[i+1])
			if err != nil {
				return fmt.Errorf("directions leg %d: %w", i+1, err)
			}
			legs[i] = d.Path
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	path := make([]domain.Coordinates, 0, len(points)*8)
	for _, leg := range legs {
		for _, c := range leg {
			// Consecutive legs share their joint point.
			if n := len(path); n > 0 && path[n-1] == c {
				continue
			}
			path = append(path, c)
		}
	}

	return path, nil
}

// CreateRoute stores a route supplied by the client as is.
func (p *RoutePlanner) CreateRoute(ctx context.Context, r *domain.Route) error {
	if strings.TrimSpace(r.Origin) == "" || strings.TrimSpace(r.Destination) == "" {
		return fmt.Errorf("create route: origin and destination are required: %w", domain.ErrInvalid)
	}
	if r.DistanceMeters < 0 || r.DurationSeconds < 0 {
		return fmt.Errorf("create route: distance and duration must not be negative: %w", domain.ErrInvalid)
	}
	if _, err := p.Vehicles.GetVehicle(ctx, r.VehicleID); err != nil {
		return fmt.Errorf("create route: %w", err)
	}

	if err := p.Routes.CreateRoute(ctx, r); err != nil {
		return fmt.Errorf("create route: %w", err)
	}

	recordActivity(ctx, p.Activity, domain.ActionRouteCreated, "route", r.ID,
		fmt.Sprintf("%s -> %s", r.Origin, r.Destination))

	return nil
}
