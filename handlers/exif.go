package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"geosleuth/exif"
	"geosleuth/logger"
	"geosleuth/metrics"
	"geosleuth/types"
)

type GPSExtractor interface {
	ExtractGPS(ctx context.Context, url string) (*types.GPS, error)
}

// ExtractGPS answers POST /exif with the GPS position embedded in the image at image_url.
func ExtractGPS(c *gin.Context, extractor GPSExtractor, log *slog.Logger) {
	var req types.ExifRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ImageURL == nil {
		missingField(c, "image_url")
		return
	}
	if !isHTTPURL(*req.ImageURL) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'image_url': must be an absolute http(s) URL"})
		return
	}

	gps, err := extractor.ExtractGPS(c.Request.Context(), *req.ImageURL)
	metrics.ObserveUpstream("exif", err)
	if err != nil {
		reqID := logger.RequestID(c)
		switch {
		case errors.Is(err, exif.ErrInvalidDMS):
			log.Warn("unparseable gps tags", "url", *req.ImageURL, "error", err, "request_id", reqID)
			c.JSON(http.StatusOK, types.ExifResponse{Error: "Failed to parse DMS GPS data"})
		case errors.Is(err, exif.ErrDownload):
			log.Error("image download failed", "url", *req.ImageURL, "error", err, "request_id", reqID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to download image: " + detail(err, exif.ErrDownload)})
		default:
			log.Error("exif processing failed", "url", *req.ImageURL, "error", err, "request_id", reqID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing EXIF: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, types.ExifResponse{GPS: gps})
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
