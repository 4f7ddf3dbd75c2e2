package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/NicholasPiano/arktic/internal/models"
	"gorm.io/gorm"
)

// Repository errors
var (
	ErrProjectNotFound = errors.New("project not found")
	// ErrGrammarExists signals a bundle whose name is already taken
	// within the project.
	ErrGrammarExists = errors.New("grammar already exists in project")
)

// Repository defines the interface for ingestion persistence
type Repository interface {
	GetProject(ctx context.Context, id uint) (*models.Project, error)
	GrammarNameTaken(ctx context.Context, projectID uint, name string) (bool, error)

	// CreateGrammarWithUnits stores the grammar and all its
	// transcriptions in one transaction. Nothing is visible to
	// allocation until the whole bundle lands.
	CreateGrammarWithUnits(ctx context.Context, grammar *models.Grammar, units []models.Transcription) error
}

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new ingestion repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
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

func (r *RepositoryImpl) GrammarNameTaken(ctx context.Context, projectID uint, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Grammar{}).
		Where("project_id = ? AND name = ?", projectID, name).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking grammar name: %w", err)
	}
	return count > 0, nil
}

func (r *RepositoryImpl) CreateGrammarWithUnits(ctx context.Context, grammar *models.Grammar, units []models.Transcription) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(grammar).Error; err != nil {
			return fmt.Errorf("creating grammar: %w", err)
		}
		for i := range units {
			units[i].GrammarID = grammar.ID
			if err := tx.Create(&units[i]).Error; err != nil {
				return fmt.Errorf("creating transcription %d: %w", units[i].LineNumber, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ingesting grammar %s: %w", grammar.Name, err)
	}
	return nil
}
