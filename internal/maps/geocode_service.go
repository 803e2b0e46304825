package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"fixme/internal/types"
)

// GeocodeService handles interactions with the Google Geocoding API.
type GeocodeService struct {
	client *maps.Client
}

// NewGeocodeService creates a new GeocodeService with the given API Key.
func NewGeocodeService(apiKey string) (*GeocodeService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GeocodeService{client: client}, nil
}

// ReverseGeocode turns a coordinate into a display address. Callers treat a
// failure as "no address", not as a failed operation.
func (s *GeocodeService) ReverseGeocode(ctx context.Context, p types.Point) (string, error) {
	r := &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: p.Lat, Lng: p.Lng},
	}

	results, err := s.client.ReverseGeocode(ctx, r)
	if err != nil {
		return "", fmt.Errorf("geocoding api error: %w", err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("no address found")
	}
	return results[0].FormattedAddress, nil
}
