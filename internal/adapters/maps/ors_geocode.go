package maps

import (
	"cargo-fleet-service/internal/domain"
	"cargo-fleet-service/internal/platform/obs"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Geocode resolves a free-form address, consulting the cache first.
// Cache write failures are logged and otherwise ignored.
func (o *ORSClient) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	norm := normalize(address)
	if norm == "" {
		return domain.Coordinates{}, fmt.Errorf("geocode: address is empty: %w", domain.ErrInvalid)
	}

	if o.geocodeCache != nil {
		hits, err := o.geocodeCache.GetMany(ctx, []string{norm})
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("address", norm).Msg("geocode cache read failed")
		} else if c, ok := hits[norm]; ok {
			return c, nil
		}
	}

	coords, err := o.geocodeSearch(ctx, norm)
	if err != nil {
		return domain.Coordinates{}, err
	}

	if o.geocodeCache != nil {
		if err := o.geocodeCache.PutMany(ctx, map[string]domain.Coordinates{norm: coords}); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("address", norm).Msg("geocode cache write failed")
		}
	}

	return coords, nil
}

// geocodeSearch calls /geocode/search and returns the best match.
func (o *ORSClient) geocodeSearch(ctx context.Context, norm string) (domain.Coordinates, error) {
	endpoint := o.baseURL + "/geocode/search"

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", norm)
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) && he.Code == http.StatusBadRequest {
			return domain.Coordinates{}, fmt.Errorf("geocode %q: %v: %w", norm, err, domain.ErrInvalid)
		}
		return domain.Coordinates{}, fmt.Errorf("geocode %q: execute request: %w", norm, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: decode response: %w", norm, err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: no results: %w", norm, domain.ErrInvalid)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: invalid coordinate format", norm)
	}

	return domain.Coordinates{Lng: coords[0], Lat: coords[1]}, nil
}
