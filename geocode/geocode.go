// Package geocode resolves place names to coordinates.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"geosleuth/config"
	"geosleuth/types"
)

// DefaultLimit is the number of candidates returned when the caller does not ask for a count.
const DefaultLimit = 3

// ErrUnavailable is returned when the upstream service timed out, refused the request or is overloaded.
var ErrUnavailable = errors.New("geocoding service unavailable")

type Geocoder interface {
	// Geocode returns at most limit candidates for name, best first.
	Geocode(ctx context.Context, name string, limit int) ([]types.Place, error)
}

// Lookup normalises the query, calls g and truncates the answer.
// It never returns a nil slice on success.
func Lookup(ctx context.Context, g Geocoder, name string, limit int) ([]types.Place, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return []types.Place{}, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	places, err := g.Geocode(ctx, name, limit)
	if err != nil {
		return nil, err
	}
	if len(places) > limit {
		places = places[:limit]
	}
	if places == nil {
		places = []types.Place{}
	}
	return places, nil
}

// New builds the configured geocoder, wrapped in a cache when GeocodeCacheTTL is set.
// client carries the timeout and debug transport shared by outbound calls.
func New(cfg *config.Config, client *http.Client) (Geocoder, error) {
	var g Geocoder
	switch cfg.GeocoderProvider {
	case config.GeocoderNominatim:
		g = NewNominatim(cfg.NominatimURL, cfg.NominatimUserAgent, cfg.NominatimRate, client)
	case config.GeocoderGoogle:
		mg, err := NewGoogle(cfg.MapsCredentials, client)
		if err != nil {
			return nil, err
		}
		g = mg
	default:
		return nil, fmt.Errorf("unknown geocoder provider %q", cfg.GeocoderProvider)
	}

	if cfg.GeocodeCacheTTL > 0 {
		g = NewCached(g, cfg.GeocodeCacheTTL)
	}
	return g, nil
}
