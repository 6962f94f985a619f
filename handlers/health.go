package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"geosleuth/cronjobs"
)

type StatusReporter interface {
	Status() cronjobs.Status
}

// Health reports the latest upstream probe. It is 503 only after a failed probe.
func Health(c *gin.Context, r StatusReporter) {
	st := r.Status()
	code := http.StatusOK
	if !st.Healthy() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, st)
}
