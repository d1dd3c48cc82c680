// Package maps talks to OpenRouteService for geocoding, directions and
// fleet optimisation.
package maps

import (
	"cargo-fleet-service/internal/ports"
	"errors"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.openrouteservice.org"
	DefaultProfile = "driving-hgv"
)

// ORSClient implements the Geocoder, DirectionsProvider and FleetPlanner
// ports on top of the OpenRouteService HTTP API.
//
// Geocoding results are kept in an optional persistent cache. The client
// is safe for concurrent use.
type ORSClient struct {
	session      *http.Client
	apiKey       string
	baseURL      string
	profile      string
	geocodeCache ports.GeocodeCache
	backoff      time.Duration
}

type Options struct {
	APIKey  string
	BaseURL string
	Profile string
	// Cache is consulted before /geocode/search. Nil disables caching.
	Cache ports.GeocodeCache
	// HTTPClient defaults to a client with a 10s timeout.
	HTTPClient *http.Client
}

func NewORSClient(opts Options) (*ORSClient, error) {
	if opts.APIKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	client := &ORSClient{
		session:      opts.HTTPClient,
		apiKey:       opts.APIKey,
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		profile:      opts.Profile,
		geocodeCache: opts.Cache,
		backoff:      200 * time.Millisecond,
	}
	if client.session == nil {
		client.session = &http.Client{Timeout: 10 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = DefaultBaseURL
	}
	if client.profile == "" {
		client.profile = DefaultProfile
	}

	return client, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
