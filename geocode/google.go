package geocode

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"googlemaps.github.io/maps"

	"geosleuth/types"
)

// Google uses the Google Maps Geocoding API.
type Google struct {
	client *maps.Client
}

// NewGoogle creates a maps client for apiKey. Extra options are applied after the key and HTTP client.
func NewGoogle(apiKey string, client *http.Client, opts ...maps.ClientOption) (*Google, error) {
	if apiKey == "" {
		return nil, errors.New("MAPS_CREDENTIALS not set")
	}

	base := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if client != nil {
		base = append(base, maps.WithHTTPClient(client))
	}
	mapsClient, err := maps.NewClient(append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("creating maps client: %w", err)
	}
	return &Google{client: mapsClient}, nil
}

func (g *Google) Geocode(ctx context.Context, name string, limit int) ([]types.Place, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: name})
	if err != nil {
		if err = classifyMapsError(err); err != nil {
			return nil, err
		}
		return []types.Place{}, nil
	}

	places := make([]types.Place, 0, min(len(results), limit))
	for _, r := range results {
		if len(places) == limit {
			break
		}
		places = append(places, types.Place{
			Address: r.FormattedAddress,
			Lat:     r.Geometry.Location.Lat,
			Lon:     r.Geometry.Location.Lng,
		})
	}
	return places, nil
}

// classifyMapsError maps API status strings onto ErrUnavailable.
// ZERO_RESULTS is turned into an empty answer by returning nil.
func classifyMapsError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "ZERO_RESULTS"):
		return nil
	case strings.Contains(msg, "OVER_QUERY_LIMIT"), strings.Contains(msg, "UNKNOWN_ERROR"):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return fmt.Errorf("maps geocode: %w", err)
}
