package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/NicholasPiano/arktic/api/types"
)

// RegisterRoutes registers administrative routes on the v1 group
func RegisterRoutes(v1 *gin.RouterGroup, deps *types.Dependencies) {
	v1.POST("/projects/:id/grammars", IngestGrammar(deps))
	v1.GET("/clients", ListClients(deps))
	v1.DELETE("/clients/:id", DeleteClient(deps))
	v1.DELETE("/clients", DeleteClients(deps))
}
