package actions

import (
	"github.com/gin-gonic/gin"

	"github.com/NicholasPiano/arktic/api/types"
)

// RegisterRoutes registers action telemetry routes on the v1 group
func RegisterRoutes(v1 *gin.RouterGroup, deps *types.Dependencies) {
	v1.POST("/jobs/:id/actions", Record(deps))
}
