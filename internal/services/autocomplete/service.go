package autocomplete

import (
	"context"
	"fmt"
	"strings"

	"github.com/NicholasPiano/arktic/internal/models"
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repository Repository
}

// NewService creates a new word index service
func NewService(repository Repository) Service {
	return &ServiceImpl{repository: repository}
}

// IndexUtterance records the distinct tokens of a reference utterance.
// Tokens already present for the (client, project) pair are not
// re-inserted; the index only grows.
func (s *ServiceImpl) IndexUtterance(ctx context.Context, scope Scope, utterance string) error {
	for _, content := range tokenize(utterance) {
		exists, err := s.repository.WordExists(ctx, scope.ClientID, scope.ProjectID, content)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		word := &models.Word{
			ClientID:        scope.ClientID,
			ProjectID:       scope.ProjectID,
			GrammarID:       scope.GrammarID,
			TranscriptionID: scope.TranscriptionID,
			Content:         content,
			IsUnique:        true,
			IsTag:           isTag(content),
		}
		if err := s.repository.CreateWord(ctx, word); err != nil {
			return err
		}
	}
	return nil
}

// ReindexRevision rebuilds the word rows derived from a revision.
// Every token gets a row tied to the revision so a later rebuild can
// drop them; IsUnique is decided once at insertion time and duplicate
// occurrences simply carry IsUnique=false.
func (s *ServiceImpl) ReindexRevision(ctx context.Context, scope Scope, revisionID uint, utterance string) error {
	if err := s.repository.DeleteByRevision(ctx, revisionID); err != nil {
		return err
	}

	for _, content := range tokenize(utterance) {
		exists, err := s.repository.WordExists(ctx, scope.ClientID, scope.ProjectID, content)
		if err != nil {
			return err
		}
		revID := revisionID
		word := &models.Word{
			ClientID:        scope.ClientID,
			ProjectID:       scope.ProjectID,
			GrammarID:       scope.GrammarID,
			TranscriptionID: scope.TranscriptionID,
			RevisionID:      &revID,
			Content:         content,
			IsUnique:        !exists,
			IsTag:           isTag(content),
		}
		if err := s.repository.CreateWord(ctx, word); err != nil {
			return err
		}
	}
	return nil
}

// Suggestions returns the project's unique words for the given mode
func (s *ServiceImpl) Suggestions(ctx context.Context, projectID uint, mode SuggestionMode) ([]string, error) {
	switch mode {
	case ModeFull:
		return s.repository.UniqueWords(ctx, projectID)
	case ModeTags:
		return s.repository.UniqueTags(ctx, projectID)
	default:
		return nil, fmt.Errorf("unknown suggestion mode %q", mode)
	}
}

// tokenize splits on whitespace and drops duplicate tokens, keeping
// first-occurrence order.
func tokenize(utterance string) []string {
	fields := strings.Fields(utterance)
	seen := make(map[string]bool, len(fields))
	tokens := fields[:0]
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		tokens = append(tokens, f)
	}
	return tokens
}

// isTag reports whether a token is a markup tag. Tokens come from
// whitespace splitting so they never contain internal spaces; any
// bracket marks them.
func isTag(content string) bool {
	return strings.ContainsAny(content, "[]")
}
