package maps

import (
	"bytes"
	"cargo-fleet-service/internal/domain"
	"cargo-fleet-service/internal/platform/obs"
	"cargo-fleet-service/internal/ports"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"
)

// Request and response shapes of the VROOM-backed /optimization endpoint.
type optimizationStep struct {
	ID       int       `json:"id"`
	Location []float64 `json:"location"`
}

type optimizationShipment struct {
	Amount      []int64          `json:"amount"`
	Pickup      optimizationStep `json:"pickup"`
	Delivery    optimizationStep `json:"delivery"`
	Description string           `json:"description,omitempty"`
}

type optimizationVehicle struct {
	ID          int       `json:"id"`
	Profile     string    `json:"profile"`
	Start       []float64 `json:"start"`
	Capacity    []int64   `json:"capacity"`
	TimeWindow  []int64   `json:"time_window,omitempty"`
	Description string    `json:"description,omitempty"`
}

type optimizationRequest struct {
	Shipments []optimizationShipment `json:"shipments"`
	Vehicles  []optimizationVehicle  `json:"vehicles"`
	Options   struct {
		G bool `json:"g"`
	} `json:"options"`
}

type optimizationResponse struct {
	Code       int    `json:"code"`
	Error      string `json:"error"`
	Unassigned []struct {
		ID   int    `json:"id"`
		Type string `json:"type"`
	} `json:"unassigned"`
	Routes []struct {
		Vehicle  int     `json:"vehicle"`
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Steps    []struct {
			Type     string    `json:"type"`
			ID       int       `json:"id"`
			Location []float64 `json:"location"`
			Arrival  int64     `json:"arrival"`
		} `json:"steps"`
	} `json:"routes"`
}

// PlanFleet submits every job as a pickup/delivery shipment for a single
// vehicle. Weights travel as grams so capacities stay integral.
// grams converts kilograms to the integer units sent as capacity and amounts.
// Both sides use the same rounding so a load at the limit still fits.
func grams(kg float64) int64 {
	return int64(math.Round(kg * 1000))
}

func (o *ORSClient) PlanFleet(
	ctx context.Context,
	req ports.FleetPlanRequest,
) (_ ports.FleetPlan, err error) {
	defer obs.Time(ctx, "ors.PlanFleet")(&err)

	if len(req.Jobs) == 0 {
		return ports.FleetPlan{}, fmt.Errorf("plan fleet: no jobs: %w", domain.ErrInvalid)
	}

	endpoint := o.baseURL + "/optimization"

	body := optimizationRequest{
		Shipments: make([]optimizationShipment, 0, len(req.Jobs)),
		Vehicles: []optimizationVehicle{{
			ID:          1,
			Profile:     o.profile,
			Start:       req.Vehicle.Start.CoordsToList(),
			Capacity:    []int64{grams(req.Vehicle.CapacityKG)},
			Description: req.Vehicle.VehicleID,
		}},
	}
	body.Options.G = true
	if !req.Vehicle.ShiftStart.IsZero() && req.Vehicle.ShiftEnd.After(req.Vehicle.ShiftStart) {
		body.Vehicles[0].TimeWindow = []int64{req.Vehicle.ShiftStart.Unix(), req.Vehicle.ShiftEnd.Unix()}
	}

	// Shipment ids are 1-based indexes into req.Jobs.
	for i, j := range req.Jobs {
		body.Shipments = append(body.Shipments, optimizationShipment{
			Amount:      []int64{grams(j.WeightKG)},
			Pickup:      optimizationStep{ID: i + 1, Location: j.Pickup.CoordsToList()},
			Delivery:    optimizationStep{ID: i + 1, Location: j.Dropoff.CoordsToList()},
			Description: j.CargoID,
		})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return ports.FleetPlan{}, fmt.Errorf("marshal optimization request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return ports.FleetPlan{}, fmt.Errorf("optimization request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded optimizationResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.FleetPlan{}, fmt.Errorf("decode optimization response: %w", err)
	}
	if decoded.Code != 0 {
		return ports.FleetPlan{}, fmt.Errorf("optimization failed with code %d: %s", decoded.Code, decoded.Error)
	}

	jobID := func(id int) (string, bool) {
		if id < 1 || id > len(req.Jobs) {
			return "", false
		}
		return req.Jobs[id-1].CargoID, true
	}

	plan := ports.FleetPlan{}

	seen := make(map[int]struct{}, len(decoded.Unassigned))
	for _, u := range decoded.Unassigned {
		if _, ok := seen[u.ID]; ok {
			continue
		}
		seen[u.ID] = struct{}{}
		if cargoID, ok := jobID(u.ID); ok {
			plan.Unassigned = append(plan.Unassigned, cargoID)
		}
	}

	if len(decoded.Routes) == 0 {
		return plan, nil
	}

	route := decoded.Routes[0]
	plan.DistanceMeters = int(math.Round(route.Distance))
	plan.DurationSeconds = int(math.Round(route.Duration))

	for _, st := range route.Steps {
		if st.Type != "delivery" {
			continue
		}
		cargoID, ok := jobID(st.ID)
		if !ok {
			return ports.FleetPlan{}, fmt.Errorf("optimization returned unknown shipment id %d", st.ID)
		}
		if len(st.Location) != 2 {
			return ports.FleetPlan{}, fmt.Errorf("optimization returned invalid location for shipment %d", st.ID)
		}
		loc := domain.Coordinates{Lng: st.Location[0], Lat: st.Location[1]}

		// Consecutive deliveries to the same place collapse into one stop.
		if n := len(plan.Stops); n > 0 && plan.Stops[n-1].Location == loc {
			plan.Stops[n-1].CargoIDs = append(plan.Stops[n-1].CargoIDs, cargoID)
			continue
		}
		plan.Stops = append(plan.Stops, domain.RouteStop{
			Location: loc,
			ArriveAt: time.Unix(st.Arrival, 0).UTC(),
			CargoIDs: []string{cargoID},
		})
	}

	return plan, nil
}
