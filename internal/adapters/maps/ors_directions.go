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
)

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Features []struct {
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"summary"`
		} `json:"properties"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Directions fetches a drivable path between two points from
// /v2/directions/{profile}/geojson.
func (o *ORSClient) Directions(
	ctx context.Context,
	from, to domain.Coordinates,
) (_ ports.Directions, err error) {
	defer obs.Time(ctx, "ors.Directions")(&err)

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, o.profile)

	payload, err := json.Marshal(directionsRequest{
		Coordinates: [][]float64{from.CoordsToList(), to.CoordsToList()},
	})
	if err != nil {
		return ports.Directions{}, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return ports.Directions{}, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return ports.Directions{}, fmt.Errorf("decode directions response: %w", err)
	}

	if len(dr.Features) == 0 {
		return ports.Directions{}, fmt.Errorf("directions %s -> %s: no route found: %w", from, to, domain.ErrInvalid)
	}

	f := dr.Features[0]
	path := make([]domain.Coordinates, 0, len(f.Geometry.Coordinates))
	for i, p := range f.Geometry.Coordinates {
		if len(p) < 2 {
			return ports.Directions{}, fmt.Errorf("directions: invalid coordinate at index %d", i)
		}
		path = append(path, domain.Coordinates{Lng: p[0], Lat: p[1]})
	}

	// ORS returns float metrics; round to nearest integer for domain consistency.
	return ports.Directions{
		DistanceMeters:  int(math.Round(f.Properties.Summary.Distance)),
		DurationSeconds: int(math.Round(f.Properties.Summary.Duration)),
		Path:            path,
	}, nil
}
