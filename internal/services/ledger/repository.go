package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/NicholasPiano/arktic/internal/models"
	"gorm.io/gorm"
)

// Repository errors
var (
	ErrUnitNotFound    = errors.New("transcription not found")
	ErrJobNotFound     = errors.New("job not found")
	ErrGrammarNotFound = errors.New("grammar not found")
	// ErrUnauthorizedJob signals a submission against a job owned by a
	// different user.
	ErrUnauthorizedJob = errors.New("job belongs to a different user")
	// ErrGrammarClosed signals a submission against a unit whose
	// grammar already completed; there is no reopen path.
	ErrGrammarClosed = errors.New("grammar is closed")
)

// Repository defines the interface for revision persistence
type Repository interface {
	GetUnit(ctx context.Context, id uint) (*models.Transcription, error)
	GetJob(ctx context.Context, id uint) (*models.Job, error)
	GetGrammar(ctx context.Context, id uint) (*models.Grammar, error)

	// GetRevision returns the revision for the (unit, job, user)
	// attempt, or nil when none exists yet.
	GetRevision(ctx context.Context, unitID, jobID, userID uint) (*models.Revision, error)
	CreateRevision(ctx context.Context, revision *models.Revision) error
	SaveRevision(ctx context.Context, revision *models.Revision) error

	// GetLatestRevision returns the most recently written revision of
	// the unit across all users and jobs, or nil when none exists.
	GetLatestRevision(ctx context.Context, unitID uint) (*models.Revision, error)
	HasNonEmptyRevision(ctx context.Context, unitID uint) (bool, error)

	// UpdateUnitState stores the unit's current value and activity flag
	UpdateUnitState(ctx context.Context, unitID uint, value string, active bool) error
}

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new ledger repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) GetUnit(ctx context.Context, id uint) (*models.Transcription, error) {
	var unit models.Transcription
	if err := r.db.WithContext(ctx).First(&unit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, fmt.Errorf("getting transcription: %w", err)
	}
	return &unit, nil
}

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

func (r *RepositoryImpl) GetGrammar(ctx context.Context, id uint) (*models.Grammar, error) {
	var grammar models.Grammar
	if err := r.db.WithContext(ctx).First(&grammar, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGrammarNotFound
		}
		return nil, fmt.Errorf("getting grammar: %w", err)
	}
	return &grammar, nil
}

func (r *RepositoryImpl) GetRevision(ctx context.Context, unitID, jobID, userID uint) (*models.Revision, error) {
	var revision models.Revision
	err := r.db.WithContext(ctx).
		Where("transcription_id = ? AND job_id = ? AND user_id = ?", unitID, jobID, userID).
		First(&revision).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting revision: %w", err)
	}
	return &revision, nil
}

func (r *RepositoryImpl) CreateRevision(ctx context.Context, revision *models.Revision) error {
	if err := r.db.WithContext(ctx).Create(revision).Error; err != nil {
		return fmt.Errorf("creating revision: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) SaveRevision(ctx context.Context, revision *models.Revision) error {
	if err := r.db.WithContext(ctx).Save(revision).Error; err != nil {
		return fmt.Errorf("saving revision: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) GetLatestRevision(ctx context.Context, unitID uint) (*models.Revision, error) {
	var revision models.Revision
	err := r.db.WithContext(ctx).
		Where("transcription_id = ?", unitID).
		Order("updated_at DESC, id DESC").
		First(&revision).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting latest revision: %w", err)
	}
	return &revision, nil
}

func (r *RepositoryImpl) HasNonEmptyRevision(ctx context.Context, unitID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Revision{}).
		Where("transcription_id = ? AND TRIM(utterance) != ''", unitID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("counting non-empty revisions: %w", err)
	}
	return count > 0, nil
}

func (r *RepositoryImpl) UpdateUnitState(ctx context.Context, unitID uint, value string, active bool) error {
	err := r.db.WithContext(ctx).Model(&models.Transcription{}).
		Where("id = ?", unitID).
		Updates(map[string]interface{}{
			"current_value": value,
			"is_active":     active,
		}).Error
	if err != nil {
		return fmt.Errorf("updating unit state: %w", err)
	}
	return nil
}
