package services

import (
	"cargo-fleet-service/internal/adapters/maps"
	"cargo-fleet-service/internal/domain"
	"cargo-fleet-service/internal/placement"
	"cargo-fleet-service/internal/ports"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	depot   = domain.Coordinates{Lat: 52.52, Lng: 13.40}
	harbour = domain.Coordinates{Lat: 53.55, Lng: 9.99}
	market  = domain.Coordinates{Lat: 48.14, Lng: 11.58}
)

func testMaps() *maps.MockMaps {
	return maps.NewMockMaps(map[string]domain.Coordinates{
		"Depot":   depot,
		"Harbour": harbour,
		"Market":  market,
	})
}

func TestPlanRoute(t *testing.T) {
	env := newTestEnv(t)
	v := env.addVan(t)
	a := env.addBox(t, v.ID, "a", 0, 0, 100)
	b := env.addBox(t, v.ID, "b", 20, 0, 50)
	dest := "Market"
	_, err := env.cargo.UpdateCargo(context.Background(), b.ID, ports.CargoPatch{Destination: &dest})
	require.NoError(t, err)

	m := testMaps()
	planner := env.planner(m)
	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	res, err := planner.PlanRoute(context.Background(), PlanRouteRequest{
		VehicleID: v.ID, Origin: "Depot", Destination: "Harbour", DepartOn: day,
	})
	require.NoError(t, err)

	fleet := m.LastPlan
	assert.Equal(t, 500.0, fleet.Vehicle.CapacityKG)
	assert.Equal(t, depot, fleet.Vehicle.Start)
	assert.Equal(t, time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC), fleet.Vehicle.ShiftStart)
	assert.Equal(t, time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC), fleet.Vehicle.ShiftEnd)
	require.Len(t, fleet.Jobs, 2)
	assert.Equal(t, ports.FleetJob{CargoID: a.ID, WeightKG: 100, Pickup: depot, Dropoff: harbour}, fleet.Jobs[0])
	assert.Equal(t, market, fleet.Jobs[1].Dropoff)

	route := res.Route
	assert.NotEmpty(t, route.ID)
	require.Len(t, route.Stops, 2)
	assert.Equal(t, []domain.Coordinates{depot, harbour, market}, route.Waypoints)
	assert.Equal(t, 150.0, res.Summary.TotalWeight)
	assert.Equal(t, 3, m.GeocodeCalls, "each distinct address once")

	stored, err := env.routes.ListRoutes(context.Background(), v.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, route.ID, stored[0].ID)

	logs, err := env.activity.ListActivity(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.ActionRoutePlanned, logs[0].Action)
}

func TestPlanRouteLatLngBypassesGeocoder(t *testing.T) {
	env := newTestEnv(t)
	v := env.addVan(t)
	env.addBox(t, v.ID, "a", 0, 0, 100)

	m := testMaps()
	res, err := env.planner(m).PlanRoute(context.Background(), PlanRouteRequest{
		VehicleID: v.ID, Origin: "52.52,13.40", Destination: "53.55, 9.99",
	})
	require.NoError(t, err)
	assert.Zero(t, m.GeocodeCalls)
	assert.Equal(t, harbour, res.Route.Stops[0].Location)
}

func TestPlanRouteGate(t *testing.T) {
	env := newTestEnv(t)
	v := env.addVan(t)
	planner := env.planner(testMaps())
	req := PlanRouteRequest{VehicleID: v.ID, Origin: "Depot", Destination: "Harbour"}

	_, err := planner.PlanRoute(context.Background(), req)
	assert.ErrorIs(t, err, placement.ErrNoCargo)

	env.addBox(t, v.ID, "a", 0, 0, 600)
	_, err = planner.PlanRoute(context.Background(), req)
	assert.ErrorIs(t, err, placement.ErrOverweight)
}

func TestPlanRouteErrors(t *testing.T) {
	env := newTestEnv(t)
	v := env.addVan(t)
	env.addBox(t, v.ID, "a", 0, 0, 10)
	ctx := context.Background()

	_, err := env.planner(testMaps()).PlanRoute(ctx, PlanRouteRequest{VehicleID: v.ID, Origin: "Depot"})
	assert.ErrorIs(t, err, domain.ErrInvalid)

	_, err = env.planner(testMaps()).PlanRoute(ctx, PlanRouteRequest{VehicleID: "nope", Origin: "Depot", Destination: "Harbour"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.planner(testMaps()).PlanRoute(ctx, PlanRouteRequest{VehicleID: v.ID, Origin: "Atlantis", Destination: "Harbour"})
	assert.ErrorIs(t, err, domain.ErrInvalid)

	_, err = env.planner(testMaps()).PlanRoute(ctx, PlanRouteRequest{VehicleID: v.ID, Origin: "91,0", Destination: "Harbour"})
	assert.ErrorIs(t, err, domain.ErrInvalid)

	upstream := errors.New("optimization down")
	m := testMaps().WithPlan(ports.FleetPlan{}, upstream)
	_, err = env.planner(m).PlanRoute(ctx, PlanRouteRequest{VehicleID: v.ID, Origin: "Depot", Destination: "Harbour"})
	assert.ErrorIs(t, err, upstream)

	routes, err := env.routes.ListRoutes(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, routes, "failed plans are not stored")
}

func TestPlanRouteReportsUnassigned(t *testing.T) {
	env := newTestEnv(t)
	v := env.addVan(t)
	c := env.addBox(t, v.ID, "a", 0, 0, 10)

	m := testMaps().WithPlan(ports.FleetPlan{Unassigned: []string{c.ID}}, nil)
	res, err := env.planner(m).PlanRoute(context.Background(), PlanRouteRequest{
		VehicleID: v.ID, Origin: "Depot", Destination: "Harbour",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID}, res.Unassigned)
	assert.Empty(t, res.Route.Stops)
	assert.Equal(t, []domain.Coordinates{depot}, res.Route.Waypoints)
}

func TestDirections(t *testing.T) {
	env := newTestEnv(t)
	planner := env.planner(testMaps())

	res, err := planner.Directions(context.Background(), "Depot", "48.14,11.58")
	require.NoError(t, err)
	assert.Equal(t, depot, res.Origin)
	assert.Equal(t, market, res.Destination)
	assert.Equal(t, []domain.Coordinates{depot, market}, res.Directions.Path)

	_, err = planner.Directions(context.Background(), "", "Depot")
	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestCreateRoute(t *testing.T) {
	env := newTestEnv(t)
	v := env.addVan(t)
	planner := env.planner(testMaps())
	ctx := context.Background()

	r := &domain.Route{VehicleID: v.ID, Origin: "Depot", Destination: "Harbour", DistanceMeters: 100}
	require.NoError(t, planner.CreateRoute(ctx, r))
	assert.NotEmpty(t, r.ID)

	err := planner.CreateRoute(ctx, &domain.Route{VehicleID: "nope", Origin: "a", Destination: "b"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = planner.CreateRoute(ctx, &domain.Route{VehicleID: v.ID, Origin: "a"})
	assert.ErrorIs(t, err, domain.ErrInvalid)
}
