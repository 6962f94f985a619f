package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"geosleuth/geocode"
	"geosleuth/logger"
	"geosleuth/metrics"
	"geosleuth/types"
)

// Geocode answers POST /gis with up to limit candidate places for location_name.
func Geocode(c *gin.Context, g geocode.Geocoder, limit int, log *slog.Logger) {
	var req types.GISRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.LocationName == nil {
		missingField(c, "location_name")
		return
	}

	results, err := geocode.Lookup(c.Request.Context(), g, *req.LocationName, limit)
	metrics.ObserveUpstream("gis", err)
	if err != nil {
		log.Error("geocoding failed", "location", *req.LocationName, "error", err, "request_id", logger.RequestID(c))
		if errors.Is(err, geocode.ErrUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Geocoding service unavailable: " + detail(err, geocode.ErrUnavailable)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Geocoding failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, types.GISResponse{Results: results})
}
