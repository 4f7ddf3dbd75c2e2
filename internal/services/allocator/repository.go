package allocator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NicholasPiano/arktic/internal/models"
	"github.com/NicholasPiano/arktic/pkg/token"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository errors
var (
	ErrProjectNotFound = errors.New("project not found")
	ErrJobNotFound     = errors.New("job not found")
	ErrNoWorkAvailable = errors.New("no work available")
	// ErrClaimConflict signals a lost allocation race: another request
	// claimed one of the selected units first. Callers retry.
	ErrClaimConflict = errors.New("allocation conflict, units claimed concurrently")
)

// Repository defines the interface for allocation persistence
type Repository interface {
	GetProject(ctx context.Context, id uint) (*models.Project, error)
	CountActiveGrammars(ctx context.Context, projectID uint) (int64, error)

	// ClaimBatch atomically selects up to batchSize available units,
	// marks them claimed, and creates the owning Job. All-or-nothing:
	// a lost race rolls the whole claim back with ErrClaimConflict.
	ClaimBatch(ctx context.Context, project *models.Project, userID uint, batchSize int) (*models.Job, error)

	GetJob(ctx context.Context, id uint) (*models.Job, error)
	GetJobUnits(ctx context.Context, jobID uint) ([]models.Transcription, error)
}

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new allocation repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// GetProject retrieves a project by ID
func (r *RepositoryImpl) GetProject(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return &project, nil
}

// CountActiveGrammars counts grammars still open under a project
func (r *RepositoryImpl) CountActiveGrammars(ctx context.Context, projectID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Grammar{}).
		Where("project_id = ? AND is_active = ?", projectID, true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting active grammars: %w", err)
	}
	return count, nil
}

// ClaimBatch claims up to batchSize units for a new job in one transaction.
//
// Selection order is (grammar import order, line number, id) ascending,
// preserving source-document order for the worker. Exclusivity is
// enforced by the conditional update on is_available: if another
// allocation claimed any selected unit between the select and the
// update, the affected-row count comes up short and the transaction
// rolls back.
func (r *RepositoryImpl) ClaimBatch(ctx context.Context, project *models.Project, userID uint, batchSize int) (*models.Job, error) {
	var job *models.Job

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var units []models.Transcription
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("project_id = ? AND is_active = ? AND is_available = ?", project.ID, true, true).
			Order("grammar_id ASC, line_number ASC, id ASC").
			Limit(batchSize).
			Find(&units).Error
		if err != nil {
			return fmt.Errorf("selecting claimable units: %w", err)
		}
		if len(units) == 0 {
			return ErrNoWorkAvailable
		}

		job = &models.Job{
			ClientID:        project.ClientID,
			ProjectID:       project.ID,
			UserID:          userID,
			IDToken:         token.New(),
			IsActive:        true,
			ActiveUnitCount: len(units),
		}
		for _, u := range units {
			if u.AudioTime != nil {
				job.TotalTranscriptionTime += *u.AudioTime
			}
		}
		if err := tx.Create(job).Error; err != nil {
			return fmt.Errorf("creating job: %w", err)
		}

		ids := make([]uint, len(units))
		for i, u := range units {
			ids[i] = u.ID
		}

		now := time.Now().UTC()
		res := tx.Model(&models.Transcription{}).
			Where("id IN ? AND is_available = ?", ids, true).
			Updates(map[string]interface{}{
				"job_id":            job.ID,
				"is_available":      false,
				"request_count":     gorm.Expr("request_count + 1"),
				"last_requested_at": &now,
			})
		if res.Error != nil {
			return fmt.Errorf("claiming units: %w", res.Error)
		}
		if res.RowsAffected != int64(len(units)) {
			// Lost the race for at least one unit; roll everything back
			return ErrClaimConflict
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return job, nil
}

// GetJob retrieves a job by ID
func (r *RepositoryImpl) GetJob(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("getting job: %w", err)
	}
	return &job, nil
}

// GetJobUnits returns a job's transcriptions in source-document order
func (r *RepositoryImpl) GetJobUnits(ctx context.Context, jobID uint) ([]models.Transcription, error) {
	var units []models.Transcription
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("grammar_id ASC, line_number ASC, id ASC").
		Find(&units).Error
	if err != nil {
		return nil, fmt.Errorf("getting job units: %w", err)
	}
	return units, nil
}
