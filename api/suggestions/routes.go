package suggestions

import (
	"github.com/gin-gonic/gin"

	"github.com/NicholasPiano/arktic/api/types"
)

// RegisterRoutes registers suggestion routes on the v1 group
func RegisterRoutes(v1 *gin.RouterGroup, deps *types.Dependencies) {
	v1.GET("/projects/:id/suggestions", Get(deps))
}
