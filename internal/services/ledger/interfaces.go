package ledger

import (
	"context"

	"github.com/NicholasPiano/arktic/internal/models"
)

// SubmitParams carries one worker edit of a transcription
type SubmitParams struct {
	UnitID    uint
	JobID     uint
	UserID    uint
	Utterance string
	AudioTime *float64
}

// Service defines the business logic interface for the revision ledger
type Service interface {
	// Submit stores a worker's edit. The utterance is whitespace
	// normalized before storage; one revision exists per
	// (unit, job, user) and is updated in place on resubmission, so
	// retried deliveries are idempotent. A successful submit
	// re-evaluates the unit's acceptance and propagates completion
	// bottom-up before returning.
	Submit(ctx context.Context, params SubmitParams) (*models.Revision, error)

	// IsAccepted reports whether the unit has at least one revision
	// with a non-empty normalized utterance.
	IsAccepted(ctx context.Context, unitID uint) (bool, error)
}
