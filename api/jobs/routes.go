package jobs

import (
	"github.com/gin-gonic/gin"

	"github.com/NicholasPiano/arktic/api/types"
)

// RegisterRoutes registers job allocation routes on the v1 group
func RegisterRoutes(v1 *gin.RouterGroup, deps *types.Dependencies) {
	v1.POST("/projects/:id/jobs", Allocate(deps))
	v1.GET("/jobs/:id/units", GetUnits(deps))
}
