package jobs

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/NicholasPiano/arktic/api/types"
	"github.com/NicholasPiano/arktic/internal/services/allocator"
)

// AllocateRequest identifies the worker asking for a batch
type AllocateRequest struct {
	UserID uint `json:"userId" binding:"required"`
}

// Allocate handles POST /api/v1/projects/:id/jobs
func Allocate(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		var req AllocateRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		job, err := deps.Allocator.Allocate(c.Request.Context(), projectID, req.UserID)
		switch {
		case errors.Is(err, allocator.ErrNoWorkAvailable):
			// a drained project is a normal outcome, not a failure
			types.SendSuccess(c, types.JobResponse{
				BaseResponse: types.BaseResponse{Status: types.StatusNoWork, Message: "No transcriptions available"},
			})
		case errors.Is(err, allocator.ErrProjectNotFound):
			types.SendNotFound(c, "Project not found")
		case err != nil:
			types.SendInternalError(c, "Failed to allocate job")
		default:
			types.SendCreated(c, types.JobResponse{
				BaseResponse: types.BaseResponse{Status: types.StatusOK},
				Job:          types.JobFromModel(job),
			})
		}
	}
}

// GetUnits handles GET /api/v1/jobs/:id/units
func GetUnits(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		if _, err := deps.Allocator.GetJob(c.Request.Context(), jobID); err != nil {
			if errors.Is(err, allocator.ErrJobNotFound) {
				types.SendNotFound(c, "Job not found")
				return
			}
			types.SendInternalError(c, "Failed to load job")
			return
		}

		units, err := deps.Allocator.GetJobUnits(c.Request.Context(), jobID)
		if err != nil {
			types.SendInternalError(c, "Failed to load job units")
			return
		}

		types.SendSuccess(c, types.UnitsResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Units:        types.UnitsFromModels(units),
			Count:        len(units),
		})
	}
}
