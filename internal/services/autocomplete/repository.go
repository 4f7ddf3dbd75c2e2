package autocomplete

import (
	"context"
	"fmt"

	"github.com/NicholasPiano/arktic/internal/models"
	"gorm.io/gorm"
)

// Repository defines the interface for word index persistence
type Repository interface {
	WordExists(ctx context.Context, clientID, projectID uint, content string) (bool, error)
	CreateWord(ctx context.Context, word *models.Word) error
	DeleteByRevision(ctx context.Context, revisionID uint) error
	UniqueWords(ctx context.Context, projectID uint) ([]string, error)
	UniqueTags(ctx context.Context, projectID uint) ([]string, error)
}

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new word index repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// WordExists reports whether content was already recorded for the client/project pair
func (r *RepositoryImpl) WordExists(ctx context.Context, clientID, projectID uint, content string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Word{}).
		Where("client_id = ? AND project_id = ? AND content = ?", clientID, projectID, content).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking word existence: %w", err)
	}
	return count > 0, nil
}

// CreateWord records one word occurrence
func (r *RepositoryImpl) CreateWord(ctx context.Context, word *models.Word) error {
	if err := r.db.WithContext(ctx).Create(word).Error; err != nil {
		return fmt.Errorf("creating word: %w", err)
	}
	return nil
}

// DeleteByRevision removes every word derived from a revision
func (r *RepositoryImpl) DeleteByRevision(ctx context.Context, revisionID uint) error {
	err := r.db.WithContext(ctx).
		Where("revision_id = ?", revisionID).
		Delete(&models.Word{}).Error
	if err != nil {
		return fmt.Errorf("deleting revision words: %w", err)
	}
	return nil
}

// UniqueWords returns distinct unique words for a project, shortest first
func (r *RepositoryImpl) UniqueWords(ctx context.Context, projectID uint) ([]string, error) {
	var words []string
	err := r.db.WithContext(ctx).Model(&models.Word{}).
		Distinct("content").
		Where("project_id = ? AND is_unique = ?", projectID, true).
		Order("LENGTH(content) ASC, content ASC").
		Pluck("content", &words).Error
	if err != nil {
		return nil, fmt.Errorf("listing unique words: %w", err)
	}
	return words, nil
}

// UniqueTags returns distinct unique tag words for a project
func (r *RepositoryImpl) UniqueTags(ctx context.Context, projectID uint) ([]string, error) {
	var words []string
	err := r.db.WithContext(ctx).Model(&models.Word{}).
		Distinct("content").
		Where("project_id = ? AND is_unique = ? AND is_tag = ?", projectID, true, true).
		Pluck("content", &words).Error
	if err != nil {
		return nil, fmt.Errorf("listing unique tags: %w", err)
	}
	return words, nil
}
