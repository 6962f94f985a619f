package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"

	"geosleuth/types"
)

func newMapsServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/maps/api/geocode/json" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "AIza-test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestGoogle(t *testing.T, srv *httptest.Server) *Google {
	t.Helper()
	g, err := NewGoogle("AIza-test-key", srv.Client(), maps.WithBaseURL(srv.URL))
	require.NoError(t, err)
	return g
}

func TestGoogleGeocode(t *testing.T) {
	srv := newMapsServer(t, `{
		"status": "OK",
		"results": [
			{"formatted_address": "Springfield, IL, USA", "geometry": {"location": {"lat": 39.7817213, "lng": -89.6501481}}},
			{"formatted_address": "Springfield, MO, USA", "geometry": {"location": {"lat": 37.2089572, "lng": -93.2922989}}},
			{"formatted_address": "Springfield, MA, USA", "geometry": {"location": {"lat": 42.1014831, "lng": -72.589811}}},
			{"formatted_address": "Springfield, OR, USA", "geometry": {"location": {"lat": 44.0462362, "lng": -123.0220289}}}
		]
	}`)

	got, err := newTestGoogle(t, srv).Geocode(context.Background(), "Springfield", 2)
	require.NoError(t, err)
	assert.Equal(t, []types.Place{
		{Address: "Springfield, IL, USA", Lat: 39.7817213, Lon: -89.6501481},
		{Address: "Springfield, MO, USA", Lat: 37.2089572, Lon: -93.2922989},
	}, got)
}

func TestGoogleZeroResults(t *testing.T) {
	srv := newMapsServer(t, `{"status": "ZERO_RESULTS", "results": []}`)

	got, err := newTestGoogle(t, srv).Geocode(context.Background(), "Xyzzyville", 3)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGoogleErrors(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		unavailable bool
	}{
		{name: "over query limit", body: `{"status": "OVER_QUERY_LIMIT", "error_message": "quota", "results": []}`, unavailable: true},
		{name: "unknown error", body: `{"status": "UNKNOWN_ERROR", "results": []}`, unavailable: true},
		{name: "request denied", body: `{"status": "REQUEST_DENIED", "error_message": "bad key", "results": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newMapsServer(t, tt.body)

			_, err := newTestGoogle(t, srv).Geocode(context.Background(), "Paris", 3)
			require.Error(t, err)
			assert.Equal(t, tt.unavailable, errors.Is(err, ErrUnavailable))
		})
	}
}

func TestGoogleUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	g, err := NewGoogle("AIza-test-key", http.DefaultClient, maps.WithBaseURL(url))
	require.NoError(t, err)

	_, err = g.Geocode(context.Background(), "Paris", 3)
	assert.ErrorIs(t, err, ErrUnavailable)
}
