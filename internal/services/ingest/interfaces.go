package ingest

import (
	"context"
	"io"

	"github.com/NicholasPiano/arktic/internal/models"
)

// AudioProcessor prepares the audio referenced by a bundle before its
// units go live. Implementations live outside this module (transcoding
// pipelines, storage movers); ingestion only needs the contract.
type AudioProcessor interface {
	// Process makes the referenced audio playable and returns its
	// duration in seconds.
	Process(ctx context.Context, audioRef string) (float64, error)
}

// TaskRunner hands long-running ingestion work to a background
// executor.
type TaskRunner interface {
	Run(ctx context.Context, name string, task func(context.Context) error) error
}

// GrammarBundle is one grammar's worth of import material: a name,
// a language, and the relfile rows describing its transcriptions.
type GrammarBundle struct {
	ClientID  uint
	ProjectID uint
	Name      string
	Language  models.Language
	Relfile   io.Reader
}

// Service defines the business logic interface for grammar ingestion
type Service interface {
	// IngestBundle parses the bundle's relfile, creates the grammar and
	// its transcriptions in one transaction, and indexes the reference
	// utterances. Rows repeating an audio file keep the first
	// occurrence; later duplicates are dropped. The grammar comes out
	// processed and active.
	IngestBundle(ctx context.Context, bundle GrammarBundle) (*models.Grammar, error)

	// IngestBundleAsync schedules IngestBundle on the task runner.
	IngestBundleAsync(ctx context.Context, bundle GrammarBundle) error
}
