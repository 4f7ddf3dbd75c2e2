package autocomplete

import (
	"context"
)

// SuggestionMode selects which slice of the word index a query returns
type SuggestionMode string

const (
	// ModeFull returns every unique word, shortest first.
	ModeFull SuggestionMode = "full"
	// ModeTags returns only unique tag words, in insertion order.
	ModeTags SuggestionMode = "tags"
)

// Valid reports whether m is a known suggestion mode.
func (m SuggestionMode) Valid() bool {
	return m == ModeFull || m == ModeTags
}

// Scope identifies where indexed words came from. Uniqueness is
// evaluated per (client, project).
type Scope struct {
	ClientID        uint
	ProjectID       uint
	GrammarID       uint
	TranscriptionID *uint
}

// Service defines the business logic interface for the word index
type Service interface {
	// IndexUtterance splits an utterance on whitespace and records each
	// token not already present for the (client, project) pair. Used at
	// import time for reference utterances.
	IndexUtterance(ctx context.Context, scope Scope, utterance string) error

	// ReindexRevision drops the word rows previously derived from a
	// revision and rebuilds them from the new utterance.
	ReindexRevision(ctx context.Context, scope Scope, revisionID uint, utterance string) error

	// Suggestions returns the unique words of a project. ModeFull sorts
	// ascending by character length; ModeTags returns tag words only.
	Suggestions(ctx context.Context, projectID uint, mode SuggestionMode) ([]string, error)
}
