package propagation

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
	ErrUnitNotFound    = errors.New("transcription not found")
	ErrGrammarNotFound = errors.New("grammar not found")
	ErrJobNotFound     = errors.New("job not found")
	ErrProjectNotFound = errors.New("project not found")
)

// Repository defines the interface for completion-state persistence.
// Each recompute reads only direct children, keeping propagation local
// and idempotent.
type Repository interface {
	GetUnit(ctx context.Context, id uint) (*models.Transcription, error)
	GetGrammar(ctx context.Context, id uint) (*models.Grammar, error)
	GetJob(ctx context.Context, id uint) (*models.Job, error)
	GetProject(ctx context.Context, id uint) (*models.Project, error)

	CountActiveUnits(ctx context.Context, grammarID uint) (int64, error)
	CountActiveUnitsInJob(ctx context.Context, jobID uint) (int64, error)
	CountActiveGrammars(ctx context.Context, projectID uint) (int64, error)
	CountActiveProjects(ctx context.Context, clientID uint) (int64, error)

	SetGrammarActive(ctx context.Context, grammarID uint, active bool) error
	UpdateJobCompletion(ctx context.Context, job *models.Job, activeUnits int) error
	SetProjectActive(ctx context.Context, projectID uint, active bool) error

	// MarkExported stamps completed_at and the output path, guarded on
	// completed_at still being null. Returns false when another pass
	// already exported the grammar.
	MarkExported(ctx context.Context, grammarID uint, outputPath string) (bool, error)

	// GrammarsAwaitingExport lists closed grammars whose relfile has
	// not been written yet.
	GrammarsAwaitingExport(ctx context.Context) ([]models.Grammar, error)
}

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new propagation repository
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

func (r *RepositoryImpl) CountActiveUnits(ctx context.Context, grammarID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Transcription{}).
		Where("grammar_id = ? AND is_active = ?", grammarID, true).
		Count(&count).Error
	return count, err
}

func (r *RepositoryImpl) CountActiveUnitsInJob(ctx context.Context, jobID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Transcription{}).
		Where("job_id = ? AND is_active = ?", jobID, true).
		Count(&count).Error
	return count, err
}

func (r *RepositoryImpl) CountActiveGrammars(ctx context.Context, projectID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Grammar{}).
		Where("project_id = ? AND is_active = ?", projectID, true).
		Count(&count).Error
	return count, err
}

func (r *RepositoryImpl) CountActiveProjects(ctx context.Context, clientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("client_id = ? AND is_active = ?", clientID, true).
		Count(&count).Error
	return count, err
}

func (r *RepositoryImpl) SetGrammarActive(ctx context.Context, grammarID uint, active bool) error {
	err := r.db.WithContext(ctx).Model(&models.Grammar{}).
		Where("id = ?", grammarID).
		Update("is_active", active).Error
	if err != nil {
		return fmt.Errorf("updating grammar activity: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) UpdateJobCompletion(ctx context.Context, job *models.Job, activeUnits int) error {
	updates := map[string]interface{}{
		"active_unit_count": activeUnits,
	}
	if activeUnits == 0 && job.IsActive {
		now := time.Now().UTC()
		updates["is_active"] = false
		updates["completed_at"] = &now
		updates["time_taken"] = now.Sub(job.CreatedAt).Seconds()
	}
	err := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", job.ID).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("updating job completion: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) SetProjectActive(ctx context.Context, projectID uint, active bool) error {
	err := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", projectID).
		Update("is_active", active).Error
	if err != nil {
		return fmt.Errorf("updating project activity: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) MarkExported(ctx context.Context, grammarID uint, outputPath string) (bool, error) {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&models.Grammar{}).
		Where("id = ? AND completed_at IS NULL", grammarID).
		Updates(map[string]interface{}{
			"completed_at":       &now,
			"completed_rel_path": outputPath,
		})
	if res.Error != nil {
		return false, fmt.Errorf("marking grammar exported: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *RepositoryImpl) GrammarsAwaitingExport(ctx context.Context) ([]models.Grammar, error) {
	var grammars []models.Grammar
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND is_processed = ? AND completed_at IS NULL", false, true).
		Find(&grammars).Error
	if err != nil {
		return nil, fmt.Errorf("listing grammars awaiting export: %w", err)
	}
	return grammars, nil
}
