package admin

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/NicholasPiano/arktic/api/types"
	"github.com/NicholasPiano/arktic/internal/models"
	"github.com/NicholasPiano/arktic/internal/services/clients"
	"github.com/NicholasPiano/arktic/internal/services/ingest"
)

// IngestRequest carries one relfile bundle for a project
type IngestRequest struct {
	Name     string `json:"name" binding:"required"`
	Language string `json:"language"`
	Relfile  string `json:"relfile" binding:"required"`
}

// IngestGrammar handles POST /api/v1/projects/:id/grammars
func IngestGrammar(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		var req IngestRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		grammar, err := deps.Ingest.IngestBundle(c.Request.Context(), ingest.GrammarBundle{
			ProjectID: projectID,
			Name:      req.Name,
			Language:  models.Language(req.Language),
			Relfile:   strings.NewReader(req.Relfile),
		})
		switch {
		case errors.Is(err, ingest.ErrProjectNotFound):
			types.SendNotFound(c, "Project not found")
			return
		case errors.Is(err, ingest.ErrGrammarExists):
			c.JSON(http.StatusConflict, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Grammar name already taken in project",
			})
			return
		case err != nil:
			types.SendBadRequest(c, "Failed to ingest grammar: "+err.Error())
			return
		}

		types.SendCreated(c, types.GrammarResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			GrammarID:    grammar.ID,
			IDToken:      grammar.IDToken,
			Name:         grammar.Name,
			UnitCount:    len(grammar.Transcriptions),
		})
	}
}

// ListClients handles GET /api/v1/clients
func ListClients(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		all, err := deps.Clients.ListClients(c.Request.Context())
		if err != nil {
			types.SendInternalError(c, "Failed to list clients")
			return
		}
		types.SendSuccess(c, types.ClientsResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Clients:      types.ClientsFromModels(all),
			Count:        len(all),
		})
	}
}

// DeleteClient handles DELETE /api/v1/clients/:id
func DeleteClient(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}
		if err := deps.Clients.DeleteClient(c.Request.Context(), clientID); err != nil {
			if errors.Is(err, clients.ErrClientNotFound) {
				types.SendNotFound(c, "Client not found")
				return
			}
			types.SendInternalError(c, "Failed to delete client")
			return
		}
		types.SendSuccess(c, types.BaseResponse{Status: types.StatusOK, Message: "Client deleted"})
	}
}

// DeleteClientsRequest names the clients to remove
type DeleteClientsRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// DeleteClients handles DELETE /api/v1/clients
func DeleteClients(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DeleteClientsRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}
		deleted, err := deps.Clients.DeleteMany(c.Request.Context(), req.IDs)
		if err != nil {
			if errors.Is(err, clients.ErrClientNotFound) {
				c.JSON(http.StatusNotFound, types.ErrorResponse{
					Status:  types.StatusError,
					Message: "Client not found",
					Details: gin.H{"deleted": deleted},
				})
				return
			}
			types.SendInternalError(c, "Failed to delete clients")
			return
		}
		types.SendSuccess(c, types.BaseResponse{Status: types.StatusOK, Message: "Clients deleted"})
	}
}
