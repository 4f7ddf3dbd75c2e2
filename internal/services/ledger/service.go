package ledger

import (
	"context"
	"strings"

	"github.com/NicholasPiano/arktic/internal/models"
	"github.com/NicholasPiano/arktic/internal/services/autocomplete"
	"github.com/NicholasPiano/arktic/internal/services/propagation"
	"github.com/NicholasPiano/arktic/pkg/token"
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repository Repository
	words      autocomplete.Service
	propagator propagation.Service
}

// NewService creates a new ledger service
func NewService(repository Repository, words autocomplete.Service, propagator propagation.Service) Service {
	return &ServiceImpl{
		repository: repository,
		words:      words,
		propagator: propagator,
	}
}

// Submit stores a worker's edit of a transcription
func (s *ServiceImpl) Submit(ctx context.Context, params SubmitParams) (*models.Revision, error) {
	unit, err := s.repository.GetUnit(ctx, params.UnitID)
	if err != nil {
		return nil, err
	}

	job, err := s.repository.GetJob(ctx, params.JobID)
	if err != nil {
		return nil, err
	}
	if job.UserID != params.UserID {
		return nil, ErrUnauthorizedJob
	}

	grammar, err := s.repository.GetGrammar(ctx, unit.GrammarID)
	if err != nil {
		return nil, err
	}
	if grammar.IsClosed() {
		return nil, ErrGrammarClosed
	}

	normalized := Normalize(params.Utterance)

	revision, err := s.repository.GetRevision(ctx, params.UnitID, params.JobID, params.UserID)
	if err != nil {
		return nil, err
	}

	if revision != nil && revision.Utterance == normalized && audioTimeEqual(revision.AudioTime, params.AudioTime) {
		// retried delivery of an identical edit: nothing to do
		return revision, nil
	}

	if revision == nil {
		revision = &models.Revision{
			TranscriptionID: params.UnitID,
			JobID:           params.JobID,
			UserID:          params.UserID,
			IDToken:         token.New(),
			Utterance:       normalized,
			AudioTime:       params.AudioTime,
		}
		if err := s.repository.CreateRevision(ctx, revision); err != nil {
			return nil, err
		}
	} else {
		revision.Utterance = normalized
		revision.AudioTime = params.AudioTime
		if err := s.repository.SaveRevision(ctx, revision); err != nil {
			return nil, err
		}
	}

	scope := autocomplete.Scope{
		ClientID:        unit.ClientID,
		ProjectID:       unit.ProjectID,
		GrammarID:       unit.GrammarID,
		TranscriptionID: &unit.ID,
	}
	if err := s.words.ReindexRevision(ctx, scope, revision.ID, normalized); err != nil {
		return nil, err
	}

	if err := s.refreshUnit(ctx, unit); err != nil {
		return nil, err
	}

	if err := s.propagator.OnRevisionCommitted(ctx, unit.ID); err != nil {
		return nil, err
	}

	return revision, nil
}

// IsAccepted reports whether the unit has a non-empty revision
func (s *ServiceImpl) IsAccepted(ctx context.Context, unitID uint) (bool, error) {
	if _, err := s.repository.GetUnit(ctx, unitID); err != nil {
		return false, err
	}
	return s.repository.HasNonEmptyRevision(ctx, unitID)
}

// refreshUnit restores the unit's derived state: current value from
// the latest revision, activity from acceptance.
func (s *ServiceImpl) refreshUnit(ctx context.Context, unit *models.Transcription) error {
	accepted, err := s.repository.HasNonEmptyRevision(ctx, unit.ID)
	if err != nil {
		return err
	}

	value := unit.CurrentValue
	latest, err := s.repository.GetLatestRevision(ctx, unit.ID)
	if err != nil {
		return err
	}
	if latest != nil {
		value = latest.Utterance
	}

	return s.repository.UpdateUnitState(ctx, unit.ID, value, !accepted)
}

// Normalize collapses internal whitespace runs to single spaces and
// trims the ends.
func Normalize(utterance string) string {
	return strings.Join(strings.Fields(utterance), " ")
}

func audioTimeEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
