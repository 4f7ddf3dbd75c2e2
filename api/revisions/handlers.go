package revisions

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NicholasPiano/arktic/api/types"
	"github.com/NicholasPiano/arktic/internal/services/ledger"
)

// SubmitRequest carries one worker edit of a unit
type SubmitRequest struct {
	UnitID    uint     `json:"unitId" binding:"required"`
	UserID    uint     `json:"userId" binding:"required"`
	Utterance string   `json:"utterance"`
	AudioTime *float64 `json:"audioTime"`
}

// Submit handles POST /api/v1/jobs/:id/revisions
func Submit(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		var req SubmitRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		revision, err := deps.Ledger.Submit(c.Request.Context(), ledger.SubmitParams{
			UnitID:    req.UnitID,
			JobID:     jobID,
			UserID:    req.UserID,
			Utterance: req.Utterance,
			AudioTime: req.AudioTime,
		})
		switch {
		case errors.Is(err, ledger.ErrUnitNotFound):
			types.SendNotFound(c, "Transcription not found")
			return
		case errors.Is(err, ledger.ErrJobNotFound):
			types.SendNotFound(c, "Job not found")
			return
		case errors.Is(err, ledger.ErrUnauthorizedJob):
			c.JSON(http.StatusForbidden, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Job belongs to a different user",
			})
			return
		case errors.Is(err, ledger.ErrGrammarClosed):
			c.JSON(http.StatusConflict, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Grammar is closed; no further edits are accepted",
			})
			return
		case err != nil:
			types.SendInternalError(c, "Failed to store revision")
			return
		}

		accepted, err := deps.Ledger.IsAccepted(c.Request.Context(), req.UnitID)
		if err != nil {
			types.SendInternalError(c, "Failed to evaluate unit state")
			return
		}

		types.SendCreated(c, types.RevisionResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Revision:     types.RevisionFromModel(revision),
			UnitAccepted: accepted,
		})
	}
}
