package maps

import (
	"cargo-fleet-service/internal/domain"
	"cargo-fleet-service/internal/ports"
	"context"
	"fmt"
	"sync"
	"time"
)

// MockMaps is an in-memory stand-in for ORSClient. Unknown addresses fail
// with domain.ErrInvalid, like an empty geocoding result.
type MockMaps struct {
	mu        sync.Mutex
	addresses map[string]domain.Coordinates
	plan      ports.FleetPlan
	planErr   error

	GeocodeCalls int
	LastPlan     ports.FleetPlanRequest
}

func NewMockMaps(addresses map[string]domain.Coordinates) *MockMaps {
	m := make(map[string]domain.Coordinates, len(addresses))
	for k, v := range addresses {
		m[normalize(k)] = v
	}
	return &MockMaps{addresses: m}
}

// WithPlan sets the result PlanFleet returns. When unset, PlanFleet
// delivers jobs in request order.
func (m *MockMaps) WithPlan(plan ports.FleetPlan, err error) *MockMaps {
	m.plan = plan
	m.planErr = err
	return m
}

func (m *MockMaps) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GeocodeCalls++
	c, ok := m.addresses[normalize(address)]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: no results: %w", address, domain.ErrInvalid)
	}
	return c, nil
}

// Directions returns a straight two-point path with a fixed speed of 10 m/s.
func (m *MockMaps) Directions(ctx context.Context, from, to domain.Coordinates) (ports.Directions, error) {
	meters := 1000
	return ports.Directions{
		DistanceMeters:  meters,
		DurationSeconds: meters / 10,
		Path:            []domain.Coordinates{from, to},
	}, nil
}

func (m *MockMaps) PlanFleet(ctx context.Context, req ports.FleetPlanRequest) (ports.FleetPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastPlan = req
	if m.planErr != nil {
		return ports.FleetPlan{}, m.planErr
	}
	if m.plan.Stops != nil || m.plan.Unassigned != nil {
		return m.plan, nil
	}

	plan := ports.FleetPlan{DistanceMeters: 1000 * len(req.Jobs), DurationSeconds: 100 * len(req.Jobs)}
	for i, j := range req.Jobs {
		plan.Stops = append(plan.Stops, domain.RouteStop{
			Location: j.Dropoff,
			ArriveAt: req.Vehicle.ShiftStart.Add(time.Duration(i+1) * 10 * time.Minute),
			CargoIDs: []string{j.CargoID},
		})
	}
	return plan, nil
}
