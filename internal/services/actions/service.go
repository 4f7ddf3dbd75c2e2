package actions

import (
	"context"
	"errors"
	"time"

	"github.com/NicholasPiano/arktic/internal/models"
	"github.com/NicholasPiano/arktic/pkg/token"
)

// Service errors
var (
	ErrInvalidKind = errors.New("unknown action kind")
	// ErrUnauthorizedJob signals an action against a job owned by a
	// different user.
	ErrUnauthorizedJob = errors.New("job belongs to a different user")
	// ErrUnitNotInJob signals an action against a unit the job never
	// contained.
	ErrUnitNotInJob = errors.New("transcription is not part of the job")
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repository Repository
}

// NewService creates a new actions service
func NewService(repository Repository) Service {
	return &ServiceImpl{repository: repository}
}

// Record validates and appends one telemetry action
func (s *ServiceImpl) Record(ctx context.Context, params RecordParams) (*models.Action, error) {
	if !params.Kind.Valid() {
		return nil, ErrInvalidKind
	}

	job, err := s.repository.GetJob(ctx, params.JobID)
	if err != nil {
		return nil, err
	}
	if job.UserID != params.UserID {
		return nil, ErrUnauthorizedJob
	}

	unit, err := s.repository.GetUnit(ctx, params.UnitID)
	if err != nil {
		return nil, err
	}
	if unit.JobID == nil || *unit.JobID != params.JobID {
		return nil, ErrUnitNotInJob
	}

	revision, err := s.repository.GetRevision(ctx, params.UnitID, params.JobID, params.UserID)
	if err != nil {
		return nil, err
	}

	action := &models.Action{
		JobID:           params.JobID,
		UserID:          params.UserID,
		TranscriptionID: params.UnitID,
		IDToken:         token.New(),
		Kind:            params.Kind,
		AudioTime:       params.AudioTime,
	}
	if revision != nil {
		action.RevisionID = &revision.ID
	}
	if err := s.repository.CreateAction(ctx, action); err != nil {
		return nil, err
	}

	if revision != nil {
		if err := s.refreshRevisionStats(ctx, revision, action.CreatedAt); err != nil {
			return nil, err
		}
	}
	return action, nil
}

func (s *ServiceImpl) ListForUnit(ctx context.Context, unitID, jobID uint) ([]models.Action, error) {
	return s.repository.ListForUnit(ctx, unitID, jobID)
}

// refreshRevisionStats re-derives the revision aggregates from the
// action sequence: plays from playback actions, time to complete as
// the span from the first action to the one just recorded.
func (s *ServiceImpl) refreshRevisionStats(ctx context.Context, revision *models.Revision, latest time.Time) error {
	plays, err := s.repository.CountPlays(ctx, revision.TranscriptionID, revision.JobID, revision.UserID)
	if err != nil {
		return err
	}

	first, err := s.repository.FirstActionAt(ctx, revision.TranscriptionID, revision.JobID, revision.UserID)
	if err != nil {
		return err
	}
	elapsed := 0.0
	if first != nil {
		elapsed = latest.Sub(*first).Seconds()
	}

	return s.repository.UpdateRevisionStats(ctx, revision.ID, int(plays), elapsed)
}
