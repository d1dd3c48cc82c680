package services

import (
	"cargo-fleet-service/internal/adapters/maps"
	"cargo-fleet-service/internal/adapters/repositories"
	"cargo-fleet-service/internal/domain"
	"cargo-fleet-service/internal/platform/db"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testEnv struct {
	vehicles *repositories.SQLVehicleRepository
	cargo    *repositories.SQLCargoRepository
	routes   *repositories.SQLRouteRepository
	activity *repositories.SQLActivityRepository
	clock    time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, repositories.InitSchema(conn))

	return &testEnv{
		vehicles: repositories.NewSQLVehicleRepository(conn),
		cargo:    repositories.NewSQLCargoRepository(conn),
		routes:   repositories.NewSQLRouteRepository(conn),
		activity: repositories.NewSQLActivityRepository(conn),
		clock:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// addVan stores a 2m x 3m van (40 x 60 display units) limited to 500 kg.
func (e *testEnv) addVan(t *testing.T) *domain.Vehicle {
	t.Helper()

	v, err := domain.NewVehicle(domain.Vehicle{Name: "Van", Width: 2, Length: 3, Height: 2, MaxWeight: 500})
	require.NoError(t, err)
	require.NoError(t, e.vehicles.CreateVehicle(context.Background(), v))
	return v
}

func (e *testEnv) addBox(t *testing.T, vehicleID, name string, x, y, weight float64) *domain.CargoItem {
	t.Helper()

	// Distinct creation times keep storage order equal to insertion order.
	e.clock = e.clock.Add(time.Second)
	c, err := domain.NewCargoItem(domain.CargoItem{
		CreatedAt: e.clock,
		VehicleID: vehicleID, Name: name,
		Width: 1, Length: 1, Height: 1, Weight: weight,
		Position: domain.Position{X: x, Y: y},
	})
	require.NoError(t, err)
	require.NoError(t, e.cargo.CreateCargo(context.Background(), c))
	return c
}

func (e *testEnv) planner(m *maps.MockMaps) *RoutePlanner {
	return &RoutePlanner{
		Vehicles: e.vehicles,
		Cargo:    e.cargo,
		Routes:   e.routes,
		Activity: e.activity,
		Geocoder: m,
		Planner:  m,
		Paths:    m,
	}
}
