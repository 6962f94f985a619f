package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveUpstream(t *testing.T) {
	ok := testutil.ToFloat64(upstreamCalls.WithLabelValues("gis", "ok"))
	failed := testutil.ToFloat64(upstreamCalls.WithLabelValues("gis", "error"))

	ObserveUpstream("gis", nil)
	ObserveUpstream("gis", errors.New("timeout"))
	ObserveUpstream("gis", errors.New("timeout"))

	assert.Equal(t, ok+1, testutil.ToFloat64(upstreamCalls.WithLabelValues("gis", "ok")))
	assert.Equal(t, failed+2, testutil.ToFloat64(upstreamCalls.WithLabelValues("gis", "error")))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(requestsTotal.WithLabelValues("/items/:id", "GET", "204"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/43", nil))
	assert.Equal(t, before+2, testutil.ToFloat64(requestsTotal.WithLabelValues("/items/:id", "GET", "204")))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(requestsTotal.WithLabelValues("unmatched", "GET", "404")))
}
