package allocator

import (
	"context"
	"errors"

	"github.com/NicholasPiano/arktic/internal/models"
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repository   Repository
	batchSize    int
	claimRetries int
}

// NewService creates a new allocation service. batchSize bounds the
// number of units per job; claimRetries bounds the retry loop when an
// allocation race is lost.
func NewService(repository Repository, batchSize, claimRetries int) Service {
	if batchSize <= 0 {
		batchSize = 50
	}
	if claimRetries <= 0 {
		claimRetries = 3
	}
	return &ServiceImpl{
		repository:   repository,
		batchSize:    batchSize,
		claimRetries: claimRetries,
	}
}

// Allocate claims a batch of units for a worker
func (s *ServiceImpl) Allocate(ctx context.Context, projectID, userID uint) (*models.Job, error) {
	project, err := s.repository.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	active, err := s.repository.CountActiveGrammars(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	if active == 0 {
		return nil, ErrNoWorkAvailable
	}

	var lastErr error
	for attempt := 0; attempt < s.claimRetries; attempt++ {
		job, err := s.repository.ClaimBatch(ctx, project, userID, s.batchSize)
		if err == nil {
			return job, nil
		}
		if !errors.Is(err, ErrClaimConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// GetJob retrieves a job by ID
func (s *ServiceImpl) GetJob(ctx context.Context, jobID uint) (*models.Job, error) {
	return s.repository.GetJob(ctx, jobID)
}

// GetJobUnits returns the job's units in source-document order
func (s *ServiceImpl) GetJobUnits(ctx context.Context, jobID uint) ([]models.Transcription, error) {
	if _, err := s.repository.GetJob(ctx, jobID); err != nil {
		return nil, err
	}
	return s.repository.GetJobUnits(ctx, jobID)
}
