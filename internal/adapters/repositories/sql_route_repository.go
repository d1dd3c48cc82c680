package repositories

import (
	"cargo-fleet-service/internal/domain"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stored shape of a route stop. Kept separate from the domain type so the
// column format does not change when the domain does.
type storedStop struct {
	Lat      float64   `json:"lat"`
	Lng      float64   `json:"lng"`
	ArriveAt time.Time `json:"arrive_at"`
	CargoIDs []string  `json:"cargo_ids"`
}

// SQL-backed implementation of the RouteRepository port.
// Waypoints and stops are stored as JSON text.
type SQLRouteRepository struct{ DB *sql.DB }

func NewSQLRouteRepository(db *sql.DB) *SQLRouteRepository {
	return &SQLRouteRepository{DB: db}
}

func (s *SQLRouteRepository) CreateRoute(ctx context.Context, r *domain.Route) error {
	if s.DB == nil {
		return errors.New("route repository: DB is nil")
	}

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	waypoints := make([][]float64, 0, len(r.Waypoints))
	for _, w := range r.Waypoints {
		waypoints = append(waypoints, w.CoordsToList())
	}
	wpJSON, err := json.Marshal(waypoints)
	if err != nil {
		return fmt.Errorf("create route: encode waypoints: %w", err)
	}

	stops := make([]storedStop, 0, len(r.Stops))
	for _, st := range r.Stops {
		stops = append(stops, storedStop{
			Lat:      st.Location.Lat,
			Lng:      st.Location.Lng,
			ArriveAt: st.ArriveAt.UTC(),
			CargoIDs: st.CargoIDs,
		})
	}
	stopsJSON, err := json.Marshal(stops)
	if err != nil {
		return fmt.Errorf("create route: encode stops: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO routes (
			id, vehicle_id, origin, destination, distance_meters,
			duration_seconds, waypoints, stops, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`,
		r.ID, r.VehicleID, r.Origin, r.Destination, r.DistanceMeters,
		r.DurationSeconds, string(wpJSON), string(stopsJSON), r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create route: insert id=%s: %w", r.ID, err)
	}

	return nil
}

// Return routes newest first, optionally filtered by vehicle.
func (s *SQLRouteRepository) ListRoutes(ctx context.Context, vehicleID string) ([]*domain.Route, error) {
	if s.DB == nil {
		return nil, errors.New("route repository: DB is nil")
	}

	query := `
		SELECT
			id, vehicle_id, origin, destination, distance_meters,
			duration_seconds, waypoints, stops, created_at
		FROM routes`
	args := []any{}
	if vehicleID != "" {
		query += ` WHERE vehicle_id = $1`
		args = append(args, vehicleID)
	}
	query += ` ORDER BY created_at DESC, id;`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list routes: query routes table: %w", err)
	}
	defer rows.Close()

	routes := make([]*domain.Route, 0, 16)
	for rows.Next() {
		var (
			r                 domain.Route
			wpJSON, stopsJSON string
		)
		err := rows.Scan(
			&r.ID, &r.VehicleID, &r.Origin, &r.Destination, &r.DistanceMeters,
			&r.DurationSeconds, &wpJSON, &stopsJSON, &r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("list routes: scan row: %w", err)
		}
		r.CreatedAt = r.CreatedAt.UTC()

		var waypoints [][]float64
		if err := json.Unmarshal([]byte(wpJSON), &waypoints); err != nil {
			return nil, fmt.Errorf("list routes: decode waypoints of %q: %w", r.ID, err)
		}
		r.Waypoints = make([]domain.Coordinates, 0, len(waypoints))
		for _, p := range waypoints {
			if len(p) != 2 {
				return nil, fmt.Errorf("list routes: waypoint of %q has %d values", r.ID, len(p))
			}
			r.Waypoints = append(r.Waypoints, domain.Coordinates{Lng: p[0], Lat: p[1]})
		}

		var stops []storedStop
		if err := json.Unmarshal([]byte(stopsJSON), &stops); err != nil {
			return nil, fmt.Errorf("list routes: decode stops of %q: %w", r.ID, err)
		}
		r.Stops = make([]domain.RouteStop, 0, len(stops))
		for _, st := range stops {
			r.Stops = append(r.Stops, domain.RouteStop{
				Location: domain.Coordinates{Lat: st.Lat, Lng: st.Lng},
				ArriveAt: st.ArriveAt,
				CargoIDs: st.CargoIDs,
			})
		}

		routes = append(routes, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list routes: row iteration: %w", err)
	}

	return routes, nil
}
