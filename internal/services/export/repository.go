package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/NicholasPiano/arktic/internal/models"
	"gorm.io/gorm"
)

// ErrGrammarNotFound is returned when the grammar id does not resolve
var ErrGrammarNotFound = errors.New("grammar not found")

// Repository defines the interface for export reads
type Repository interface {
	GetGrammar(ctx context.Context, id uint) (*models.Grammar, error)

	// GetUnitsInLineOrder returns the grammar's units sorted by their
	// original relfile line number.
	GetUnitsInLineOrder(ctx context.Context, grammarID uint) ([]models.Transcription, error)

	// GetLatestRevision returns the most recently written revision of a
	// unit across all users and jobs, or nil when none exists.
	GetLatestRevision(ctx context.Context, unitID uint) (*models.Revision, error)
}

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new export repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
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

func (r *RepositoryImpl) GetUnitsInLineOrder(ctx context.Context, grammarID uint) ([]models.Transcription, error) {
	var units []models.Transcription
	err := r.db.WithContext(ctx).
		Where("grammar_id = ?", grammarID).
		Order("line_number ASC").
		Find(&units).Error
	if err != nil {
		return nil, fmt.Errorf("getting grammar units: %w", err)
	}
	return units, nil
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
