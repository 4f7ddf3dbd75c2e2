package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/NicholasPiano/arktic/internal/models"
	"gorm.io/gorm"
)

// Repository errors
var (
	ErrClientNotFound = errors.New("client not found")
)

// Repository defines the interface for client persistence
type Repository interface {
	GetClient(ctx context.Context, id uint) (*models.Client, error)
	ListClients(ctx context.Context) ([]models.Client, error)

	// DeleteTree permanently removes a client and all dependent rows
	// in one transaction, children first.
	DeleteTree(ctx context.Context, clientID uint) error
}

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new clients repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) GetClient(ctx context.Context, id uint) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("getting client: %w", err)
	}
	return &client, nil
}

func (r *RepositoryImpl) ListClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	return clients, nil
}

func (r *RepositoryImpl) DeleteTree(ctx context.Context, clientID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		unitIDs := tx.Table("transcriptions").Select("id").Where("client_id = ?", clientID)
		jobIDs := tx.Table("jobs").Select("id").Where("client_id = ?", clientID)

		// leaves first so no delete orphans a row another step expects
		steps := []struct {
			name string
			del  func() *gorm.DB
		}{
			{"words", func() *gorm.DB {
				return tx.Unscoped().Where("client_id = ?", clientID).Delete(&models.Word{})
			}},
			{"actions", func() *gorm.DB {
				return tx.Unscoped().Where("job_id IN (?)", jobIDs).Delete(&models.Action{})
			}},
			{"revisions", func() *gorm.DB {
				return tx.Unscoped().Where("transcription_id IN (?)", unitIDs).Delete(&models.Revision{})
			}},
			{"transcriptions", func() *gorm.DB {
				return tx.Unscoped().Where("client_id = ?", clientID).Delete(&models.Transcription{})
			}},
			{"grammars", func() *gorm.DB {
				return tx.Unscoped().Where("client_id = ?", clientID).Delete(&models.Grammar{})
			}},
			{"jobs", func() *gorm.DB {
				return tx.Unscoped().Where("client_id = ?", clientID).Delete(&models.Job{})
			}},
			{"projects", func() *gorm.DB {
				return tx.Unscoped().Where("client_id = ?", clientID).Delete(&models.Project{})
			}},
		}
		for _, step := range steps {
			if err := step.del().Error; err != nil {
				return fmt.Errorf("deleting %s: %w", step.name, err)
			}
		}
		return tx.Unscoped().Delete(&models.Client{}, clientID).Error
	})
	if err != nil {
		return fmt.Errorf("deleting client %d: %w", clientID, err)
	}
	return nil
}
