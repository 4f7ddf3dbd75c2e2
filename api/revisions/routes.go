package revisions

import (
	"github.com/gin-gonic/gin"

	"github.com/NicholasPiano/arktic/api/types"
)

// RegisterRoutes registers revision submission routes on the v1 group
func RegisterRoutes(v1 *gin.RouterGroup, deps *types.Dependencies) {
	v1.POST("/jobs/:id/revisions", Submit(deps))
}
