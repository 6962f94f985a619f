package routes

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"geosleuth/cronjobs"
	"geosleuth/logger"
	"geosleuth/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubNER struct{}

func (stubNER) ExtractLocations(context.Context, string) ([]string, error) {
	return []string{"Paris"}, nil
}

type stubExif struct{}

func (stubExif) ExtractGPS(context.Context, string) (*types.GPS, error) {
	return &types.GPS{Lat: 1, Lon: 2}, nil
}

type stubGeocoder struct{}

func (stubGeocoder) Geocode(context.Context, string, int) ([]types.Place, error) {
	return []types.Place{{Address: "Paris, France", Lat: 48.85, Lon: 2.35}}, nil
}

type stubHealth struct{}

func (stubHealth) Status() cronjobs.Status { return cronjobs.Status{Provider: "nominatim"} }

func newRouter() *gin.Engine {
	return SetupRouter(Deps{
		NER:          stubNER{},
		Exif:         stubExif{},
		Geocoder:     stubGeocoder{},
		GeocodeLimit: 3,
		Health:       stubHealth{},
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestAgentRoutes(t *testing.T) {
	r := newRouter()

	tests := []struct {
		path string
		body string
		want string
	}{
		{path: "/ner", body: `{"text": "Paris"}`, want: `{"locations":["Paris"]}`},
		{path: "/exif", body: `{"image_url": "http://example.com/a.jpg"}`, want: `{"gps":{"lat":1,"lon":2}}`},
		{path: "/gis", body: `{"location_name": "Paris"}`, want: `{"results":[{"address":"Paris, France","lat":48.85,"lon":2.35}]}`},
	}

	for _, prefix := range []string{"", "/api/agents"} {
		for _, tt := range tests {
			t.Run(prefix+tt.path, func(t *testing.T) {
				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodPost, prefix+tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
				r.ServeHTTP(w, req)

				assert.Equal(t, http.StatusOK, w.Code)
				assert.JSONEq(t, tt.want, w.Body.String())
				assert.NotEmpty(t, w.Header().Get(logger.RequestIDHeader))
			})
		}
	}
}

func TestServiceRoutes(t *testing.T) {
	r := newRouter()

	tests := []struct {
		path     string
		contains string
	}{
		{path: "/", contains: "welcome"},
		{path: "/health", contains: `"provider":"nominatim"`},
		{path: "/metrics", contains: "geosleuth_http_requests_total"},
	}

	// one request first so the request counter has a sample to expose
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
