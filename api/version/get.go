package version

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Set at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
)

// Get handles version requests
func Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        "Arktic API",
			"version":     Version,
			"commit":      Commit,
			"description": "Crowd transcription workflow API",
			"status":      "running",
		})
	}
}
