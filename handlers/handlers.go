// Package handlers holds the gin handlers for the agent endpoints.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func missingField(c *gin.Context, field string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Missing '" + field + "' in JSON body"})
}

// detail drops the sentinel's own text so messages do not repeat it.
func detail(err, sentinel error) string {
	return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
}
