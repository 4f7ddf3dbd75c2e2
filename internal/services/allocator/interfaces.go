package allocator

import (
	"context"

	"github.com/NicholasPiano/arktic/internal/models"
)

// Service defines the business logic interface for job allocation
type Service interface {
	// Allocate claims up to the configured batch size of available
	// transcriptions for a worker and wraps them in a new Job.
	// Returns ErrNoWorkAvailable when the project has nothing to hand
	// out; callers must treat that as a normal outcome, not a failure.
	Allocate(ctx context.Context, projectID, userID uint) (*models.Job, error)

	// GetJob retrieves a job by ID.
	GetJob(ctx context.Context, jobID uint) (*models.Job, error)

	// GetJobUnits returns the job's transcriptions in source-document
	// order (grammar import order, then line number).
	GetJobUnits(ctx context.Context, jobID uint) ([]models.Transcription, error)
}
