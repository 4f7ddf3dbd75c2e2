package propagation

import (
	"context"
)

// Exporter serializes a completed grammar back into its original
// reference-file format. Implementations must reproduce the source
// line order and delimiter structure, substituting only the utterance
// field with the latest accepted revision text.
type Exporter interface {
	ExportGrammar(ctx context.Context, grammarID uint) (outputPath string, err error)
}

// Service rolls unit-level completion up through grammar, job, project
// and client after every committed revision.
type Service interface {
	// OnRevisionCommitted re-evaluates completion bottom-up for the
	// hierarchy containing the unit. Export failures are logged and
	// left for retry; they never fail the revision that triggered them.
	OnRevisionCommitted(ctx context.Context, unitID uint) error

	// RetryPendingExports re-attempts export for every closed grammar
	// whose completed relfile has not been written yet. Returns the
	// number of grammars exported.
	RetryPendingExports(ctx context.Context) (int, error)
}
