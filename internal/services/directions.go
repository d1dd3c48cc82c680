package services

import (
	"cargo-fleet-service/internal/domain"
	"cargo-fleet-service/internal/platform/obs"
	"cargo-fleet-service/internal/ports"
	"context"
	"fmt"
	"strings"
)

type DirectionsResult struct {
	Origin      domain.Coordinates
	Destination domain.Coordinates
	Directions  ports.Directions
}

// Directions resolves both ends and asks the maps service for a path.
func (p *RoutePlanner) Directions(ctx context.Context, origin, destination string) (_ *DirectionsResult, err error) {
	defer obs.Time(ctx, "routes.Directions")(&err)

	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)
	if origin == "" || destination == "" {
		return nil, fmt.Errorf("directions: origin and destination are required: %w", domain.ErrInvalid)
	}
	if p.Paths == nil {
		return nil, fmt.Errorf("directions: no directions provider configured")
	}

	coords, err := resolveAll(ctx, p.Geocoder, []string{origin, destination})
	if err != nil {
		return nil, fmt.Errorf("directions: %w", err)
	}

	d, err := p.Paths.Directions(ctx, coords[origin], coords[destination])
	if err != nil {
		return nil, fmt.Errorf("directions: %w", err)
	}

	return &DirectionsResult{Origin: coords[origin], Destination: coords[destination], Directions: d}, nil
}
