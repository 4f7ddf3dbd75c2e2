package actions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NicholasPiano/arktic/internal/models"
	"gorm.io/gorm"
)

// Repository errors
var (
	ErrJobNotFound  = errors.New("job not found")
	ErrUnitNotFound = errors.New("transcription not found")
)

// Repository defines the interface for action persistence
type Repository interface {
	GetJob(ctx context.Context, id uint) (*models.Job, error)
	GetUnit(ctx context.Context, id uint) (*models.Transcription, error)

	CreateAction(ctx context.Context, action *models.Action) error
	ListForUnit(ctx context.Context, unitID, jobID uint) ([]models.Action, error)

	// GetRevision returns the (unit, job, user) revision, or nil when
	// the worker has not submitted one yet.
	GetRevision(ctx context.Context, unitID, jobID, userID uint) (*models.Revision, error)

	// CountPlays counts the playback actions (replay, ended_audio) the
	// user has recorded against the unit within the job.
	CountPlays(ctx context.Context, unitID, jobID, userID uint) (int64, error)

	// FirstActionAt returns the creation time of the user's earliest
	// action against the unit within the job, or nil when none exists.
	FirstActionAt(ctx context.Context, unitID, jobID, userID uint) (*time.Time, error)

	UpdateRevisionStats(ctx context.Context, revisionID uint, numberOfPlays int, timeToComplete float64) error
}

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new actions repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
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

func (r *RepositoryImpl) CreateAction(ctx context.Context, action *models.Action) error {
	if err := r.db.WithContext(ctx).Create(action).Error; err != nil {
		return fmt.Errorf("creating action: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) ListForUnit(ctx context.Context, unitID, jobID uint) ([]models.Action, error) {
	var actions []models.Action
	err := r.db.WithContext(ctx).
		Where("transcription_id = ? AND job_id = ?", unitID, jobID).
		Order("id ASC").
		Find(&actions).Error
	if err != nil {
		return nil, fmt.Errorf("listing actions: %w", err)
	}
	return actions, nil
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

func (r *RepositoryImpl) CountPlays(ctx context.Context, unitID, jobID, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Action{}).
		Where("transcription_id = ? AND job_id = ? AND user_id = ? AND kind IN ?",
			unitID, jobID, userID,
			[]models.ActionKind{models.ActionReplay, models.ActionEndedAudio}).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting plays: %w", err)
	}
	return count, nil
}

func (r *RepositoryImpl) FirstActionAt(ctx context.Context, unitID, jobID, userID uint) (*time.Time, error) {
	var action models.Action
	err := r.db.WithContext(ctx).
		Where("transcription_id = ? AND job_id = ? AND user_id = ?", unitID, jobID, userID).
		Order("id ASC").
		First(&action).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting first action: %w", err)
	}
	return &action.CreatedAt, nil
}

func (r *RepositoryImpl) UpdateRevisionStats(ctx context.Context, revisionID uint, numberOfPlays int, timeToComplete float64) error {
	err := r.db.WithContext(ctx).Model(&models.Revision{}).
		Where("id = ?", revisionID).
		Updates(map[string]interface{}{
			"number_of_plays":  numberOfPlays,
			"time_to_complete": timeToComplete,
		}).Error
	if err != nil {
		return fmt.Errorf("updating revision stats: %w", err)
	}
	return nil
}
