package clients

import (
	"context"
	"log"

	"github.com/NicholasPiano/arktic/internal/models"
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repository Repository
}

// NewService creates a new clients service
func NewService(repository Repository) Service {
	return &ServiceImpl{repository: repository}
}

func (s *ServiceImpl) GetClient(ctx context.Context, id uint) (*models.Client, error) {
	return s.repository.GetClient(ctx, id)
}

func (s *ServiceImpl) ListClients(ctx context.Context) ([]models.Client, error) {
	return s.repository.ListClients(ctx)
}

// DeleteClient removes the client and its whole tree
func (s *ServiceImpl) DeleteClient(ctx context.Context, id uint) error {
	client, err := s.repository.GetClient(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repository.DeleteTree(ctx, id); err != nil {
		return err
	}
	log.Printf("deleted client %d (%s) and all dependent records", id, client.Name)
	return nil
}

// DeleteMany deletes clients one by one, returning how many were
// removed before the first failure.
func (s *ServiceImpl) DeleteMany(ctx context.Context, ids []uint) (int, error) {
	deleted := 0
	for _, id := range ids {
		if err := s.DeleteClient(ctx, id); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}
