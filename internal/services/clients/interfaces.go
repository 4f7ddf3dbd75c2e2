package clients

import (
	"context"

	"github.com/NicholasPiano/arktic/internal/models"
)

// Service defines the business logic interface for client administration
type Service interface {
	GetClient(ctx context.Context, id uint) (*models.Client, error)
	ListClients(ctx context.Context) ([]models.Client, error)

	// DeleteClient removes a client and everything beneath it: words,
	// actions, revisions, transcriptions, grammars, jobs, projects,
	// then the client row itself, in one transaction.
	DeleteClient(ctx context.Context, id uint) error

	// DeleteMany deletes several clients, stopping at the first failure.
	DeleteMany(ctx context.Context, ids []uint) (int, error)
}
