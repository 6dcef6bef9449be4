// Package maps wraps the Google Maps API for reverse geocoding. Only the
// audit enrichment path depends on it; no core logic does.
package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

// Geocoder resolves coordinates into a human-readable address.
type Geocoder struct {
	client *maps.Client
}

// NewGeocoder creates a new Geocoder with the given API key.
func NewGeocoder(apiKey string) (*Geocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}

	return &Geocoder{client: client}, nil
}

// ReverseGeocode returns the formatted address of the first geocoding result
// for the given coordinates.
func (g *Geocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	results, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: lat, Lng: lng},
	})
	if err != nil {
		return "", fmt.Errorf("maps api error: %w", err)
	}

	if len(results) == 0 {
		return "", fmt.Errorf("no geocoding result")
	}

	return results[0].FormattedAddress, nil
}
