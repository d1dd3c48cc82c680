package api

import (
	"bytes"
	"cargo-fleet-service/internal/adapters/maps"
	"cargo-fleet-service/internal/adapters/repositories"
	"cargo-fleet-service/internal/api/dto"
	"cargo-fleet-service/internal/domain"
	"cargo-fleet-service/internal/platform/db"
	"cargo-fleet-service/internal/services"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	handler http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, repositories.InitSchema(conn))

	vehicles := repositories.NewSQLVehicleRepository(conn)
	cargo := repositories.NewSQLCargoRepository(conn)
	routes := repositories.NewSQLRouteRepository(conn)
	activity := repositories.NewSQLActivityRepository(conn)

	m := maps.NewMockMaps(map[string]domain.Coordinates{
		"Depot":   {Lat: 52.52, Lng: 13.40},
		"Harbour": {Lat: 53.55, Lng: 9.99},
	})

	sessions := services.NewPlacementSessions(vehicles, cargo, nil)
	return &testAPI{handler: NewRouter(Deps{
		DB:       conn,
		Logger:   zerolog.Nop(),
		Vehicles: vehicles,
		Cargo:    cargo,
		Routes:   routes,
		Activity: activity,
		Catalog:  &services.Catalog{Vehicles: vehicles, Cargo: cargo, Activity: activity, Sessions: sessions},
		Sessions: sessions,
		Planner: &services.RoutePlanner{
			Vehicles: vehicles, Cargo: cargo, Routes: routes, Activity: activity,
			Geocoder: m, Planner: m, Paths: m,
		},
	})}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (a *testAPI) createVan(t *testing.T) dto.VehicleResponse {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/vehicles", dto.VehicleRequest{
		Name: "Van", Width: 2, Length: 3, Height: 2, MaxWeight: 500,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[dto.VehicleResponse](t, rec)
}

func (a *testAPI) createBox(t *testing.T, vehicleID, name string, x, y, weight float64) dto.CargoResponse {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/cargos", dto.CargoRequest{
		VehicleID: vehicleID, Name: name, Length: 1, Width: 1, Height: 1, Weight: weight,
		Position: &dto.Position{X: x, Y: y},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[dto.CargoResponse](t, rec)
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = a.do(t, http.MethodPost, "/health", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

func TestVehicleEndpoints(t *testing.T) {
	a := newTestAPI(t)
	v := a.createVan(t)
	assert.Equal(t, domain.DefaultTransportMode, v.Mode)

	rec := a.do(t, http.MethodGet, "/vehicles/"+v.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Van", decode[dto.VehicleResponse](t, rec).Name)

	rec = a.do(t, http.MethodGet, "/vehicles", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[dto.ListVehiclesResponse](t, rec).Vehicles, 1)

	rec = a.do(t, http.MethodGet, "/vehicles/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(t, http.MethodPost, "/vehicles", dto.VehicleRequest{Name: "Flat", Width: 0, Length: 1, Height: 1, MaxWeight: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodPost, "/vehicles", `{"name":"x","wings":2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid json body")
}

func TestCargoEndpoints(t *testing.T) {
	a := newTestAPI(t)
	v := a.createVan(t)
	c := a.createBox(t, v.ID, "Crate", 0, 0, 50)
	assert.InDelta(t, 1.0, c.Volume, 1e-9)

	rec := a.do(t, http.MethodGet, "/cargos?vehicle_id="+v.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[dto.ListCargoResponse](t, rec).Cargos, 1)

	rec = a.do(t, http.MethodPatch, "/cargos/"+c.ID, map[string]any{"stackable": true, "destination": "Harbour"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[dto.CargoResponse](t, rec)
	assert.True(t, updated.Stackable)
	assert.Equal(t, "Harbour", updated.Destination)
	assert.Equal(t, "Crate", updated.Name)

	rec = a.do(t, http.MethodPatch, "/cargos/"+c.ID, `{"position":{"x":500,"y":500}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "placement only moves through events")
	rec = a.do(t, http.MethodPatch, "/cargos/"+c.ID, `{"rotation":90}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodGet, "/cargos?vehicle_id="+v.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dto.Position{}, decode[dto.ListCargoResponse](t, rec).Cargos[0].Position)

	rec = a.do(t, http.MethodPost, "/cargos", dto.CargoRequest{VehicleID: "nope", Name: "x", Length: 1, Width: 1, Height: 1, Weight: 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(t, http.MethodDelete, "/cargos/"+c.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = a.do(t, http.MethodDelete, "/cargos/"+c.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(t, http.MethodPut, "/cargos/"+c.ID, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "PATCH, DELETE", rec.Header().Get("Allow"))
}

func TestPlacementEndpoints(t *testing.T) {
	a := newTestAPI(t)
	v := a.createVan(t)
	box := a.createBox(t, v.ID, "a", 0, 0, 100)
	a.createBox(t, v.ID, "b", 20, 0, 100)
	base := "/vehicles/" + v.ID + "/placement"

	rec := a.do(t, http.MethodPost, base+"/events", dto.PlacementEventRequest{Type: "drag_move", CargoID: box.ID, X: 22, Y: 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	fb := decode[dto.FeedbackResponse](t, rec)
	assert.True(t, fb.Conflict)
	assert.Equal(t, "overlap", fb.Reason)
	assert.Equal(t, "dragging", fb.State)

	rec = a.do(t, http.MethodPost, base+"/events", dto.PlacementEventRequest{Type: "drag_end", CargoID: box.ID, X: 22, Y: 1})
	require.Equal(t, http.StatusOK, rec.Code)
	fb = decode[dto.FeedbackResponse](t, rec)
	assert.False(t, fb.Valid)
	assert.Equal(t, dto.Position{}, fb.Committed, "invalid drop reverts")

	rec = a.do(t, http.MethodPost, base+"/events", dto.PlacementEventRequest{Type: "drag_end", CargoID: box.ID, X: 2, Y: 41})
	require.Equal(t, http.StatusOK, rec.Code)
	fb = decode[dto.FeedbackResponse](t, rec)
	assert.True(t, fb.Valid)
	assert.Equal(t, dto.Position{X: 0, Y: 40}, fb.Committed)

	rec = a.do(t, http.MethodPost, base+"/events", dto.PlacementEventRequest{Type: "teleport", CargoID: box.ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decode[dto.SnapshotResponse](t, rec)
	assert.Len(t, snap.Cargos, 2)
	assert.Equal(t, "idle", snap.State)
	assert.Equal(t, 200.0, snap.Summary.TotalWeight)

	rec = a.do(t, http.MethodPost, base+"/continue", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[dto.ContinueResponse](t, rec).Ready)

	a.createBox(t, v.ID, "c", 0, 20, 400)
	rec = a.do(t, http.MethodPost, base+"/continue", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	cont := decode[dto.ContinueResponse](t, rec)
	assert.False(t, cont.Ready)
	assert.True(t, cont.Summary.Overweight)

	rec = a.do(t, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, decode[dto.ResetResponse](t, rec).Removed)

	rec = a.do(t, http.MethodPost, base+"/continue", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = a.do(t, http.MethodGet, "/vehicles/missing/placement", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouteEndpoints(t *testing.T) {
	a := newTestAPI(t)
	v := a.createVan(t)

	rec := a.do(t, http.MethodPost, "/routes/plan", dto.PlanRouteRequest{VehicleID: v.ID, Origin: "Depot", Destination: "Harbour"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "no cargo yet")

	a.createBox(t, v.ID, "a", 0, 0, 100)

	rec = a.do(t, http.MethodPost, "/routes/plan", dto.PlanRouteRequest{
		VehicleID: v.ID, Origin: "Depot", Destination: "Harbour", DepartOn: "2026-07-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	plan := decode[dto.PlanRouteResponse](t, rec)
	require.Len(t, plan.Route.Stops, 1)
	assert.Equal(t, "2026-07-01T08:10:00Z", plan.Route.Stops[0].ArriveAt.Format("2006-01-02T15:04:05Z07:00"))
	assert.Empty(t, plan.Unassigned)

	rec = a.do(t, http.MethodPost, "/routes/plan", dto.PlanRouteRequest{VehicleID: v.ID, Origin: "Depot", Destination: "Harbour", DepartOn: "July"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodPost, "/routes/plan", dto.PlanRouteRequest{VehicleID: v.ID, Origin: "Nowhere", Destination: "Harbour"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodPost, "/routes", dto.RouteRequest{
		VehicleID: v.ID, Origin: "Depot", Destination: "Harbour",
		Waypoints: []dto.LatLng{{Lat: 1, Lng: 2}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodGet, "/routes?vehicle_id="+v.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[dto.ListRoutesResponse](t, rec).Routes, 2)

	rec = a.do(t, http.MethodPost, "/routes/directions", dto.DirectionsRequest{Origin: "Depot", Destination: "53.55,9.99"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	dir := decode[dto.DirectionsResponse](t, rec)
	assert.Equal(t, dto.LatLng{Lat: 53.55, Lng: 9.99}, dir.Destination)
	assert.Len(t, dir.Waypoints, 2)
}

func TestActivityEndpoints(t *testing.T) {
	a := newTestAPI(t)
	a.createVan(t)

	rec := a.do(t, http.MethodPost, "/activity-logs", dto.ActivityRequest{Action: "note", EntityType: "vehicle", Details: "checked tyres"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodGet, "/activity-logs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	logs := decode[dto.ListActivityResponse](t, rec).Logs
	require.Len(t, logs, 2)
	actions := []string{logs[0].Action, logs[1].Action}
	assert.ElementsMatch(t, []string{"note", domain.ActionVehicleCreated}, actions)

	rec = a.do(t, http.MethodGet, "/activity-logs?limit=500", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodPost, "/activity-logs", dto.ActivityRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecoverMiddleware(t *testing.T) {
	h := loggingMiddleware(zerolog.Nop(), recoverMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "internal server error"))
}
