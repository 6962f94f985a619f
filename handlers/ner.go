package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"geosleuth/logger"
	"geosleuth/metrics"
	"geosleuth/nlp"
	"geosleuth/types"
)

// ExtractLocations answers POST /ner with the place names found in the text.
func ExtractLocations(c *gin.Context, extractor nlp.Extractor, log *slog.Logger) {
	var req types.NERRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == nil {
		missingField(c, "text")
		return
	}

	locations, err := extractor.ExtractLocations(c.Request.Context(), *req.Text)
	metrics.ObserveUpstream("ner", err)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, nlp.ErrUnavailable) {
			status = http.StatusServiceUnavailable
		}
		log.Error("entity extraction failed", "error", err, "request_id", logger.RequestID(c))
		c.JSON(status, gin.H{"error": "Entity extraction failed: " + err.Error()})
		return
	}
	if locations == nil {
		locations = []string{}
	}

	c.JSON(http.StatusOK, types.NERResponse{Locations: locations})
}
