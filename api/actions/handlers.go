package actions

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NicholasPiano/arktic/api/types"
	"github.com/NicholasPiano/arktic/internal/models"
	actionsvc "github.com/NicholasPiano/arktic/internal/services/actions"
)

// RecordRequest carries one telemetry event from a worker session
type RecordRequest struct {
	UnitID    uint     `json:"unitId" binding:"required"`
	UserID    uint     `json:"userId" binding:"required"`
	Kind      string   `json:"kind" binding:"required"`
	AudioTime *float64 `json:"audioTime"`
}

// Record handles POST /api/v1/jobs/:id/actions
func Record(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		var req RecordRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		action, err := deps.Actions.Record(c.Request.Context(), actionsvc.RecordParams{
			JobID:     jobID,
			UserID:    req.UserID,
			UnitID:    req.UnitID,
			Kind:      models.ActionKind(req.Kind),
			AudioTime: req.AudioTime,
		})
		switch {
		case errors.Is(err, actionsvc.ErrInvalidKind):
			types.SendBadRequest(c, "Unknown action kind")
		case errors.Is(err, actionsvc.ErrUnitNotInJob):
			types.SendBadRequest(c, "Transcription is not part of the job")
		case errors.Is(err, actionsvc.ErrJobNotFound):
			types.SendNotFound(c, "Job not found")
		case errors.Is(err, actionsvc.ErrUnitNotFound):
			types.SendNotFound(c, "Transcription not found")
		case errors.Is(err, actionsvc.ErrUnauthorizedJob):
			c.JSON(http.StatusForbidden, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Job belongs to a different user",
			})
		case err != nil:
			types.SendInternalError(c, "Failed to record action")
		default:
			types.SendCreated(c, types.ActionResponse{
				BaseResponse: types.BaseResponse{Status: types.StatusOK},
				Action:       types.ActionFromModel(action),
			})
		}
	}
}
