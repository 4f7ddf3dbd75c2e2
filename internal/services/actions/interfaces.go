package actions

import (
	"context"

	"github.com/NicholasPiano/arktic/internal/models"
)

// RecordParams carries one telemetry event from a worker's session
type RecordParams struct {
	JobID     uint
	UserID    uint
	UnitID    uint
	Kind      models.ActionKind
	AudioTime *float64
}

// Service defines the business logic interface for action telemetry
type Service interface {
	// Record validates and appends one action, then re-derives the
	// aggregates (number of plays, time to complete) on the worker's
	// revision of the unit when one exists. Actions recorded before
	// the first revision are kept and linked once the revision lands.
	Record(ctx context.Context, params RecordParams) (*models.Action, error)

	// ListForUnit returns the job's actions against one unit in the
	// order they were recorded.
	ListForUnit(ctx context.Context, unitID, jobID uint) ([]models.Action, error)
}
