package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health handles GET / with the service status envelope.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "Push relay server is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// NotFoundRoute answers unmatched routes with the error envelope.
func NotFoundRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"status":  "error",
		"message": "Endpoint not found",
	})
}
