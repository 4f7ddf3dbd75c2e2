package ingest

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/NicholasPiano/arktic/internal/models"
	"github.com/NicholasPiano/arktic/internal/services/autocomplete"
	"github.com/NicholasPiano/arktic/pkg/relfile"
	"github.com/NicholasPiano/arktic/pkg/token"
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repository Repository
	words      autocomplete.Service
	audio      AudioProcessor
	runner     TaskRunner
}

// NewService creates a new ingestion service. The audio processor may
// be nil when durations are unknown at import time.
func NewService(repository Repository, words autocomplete.Service, audio AudioProcessor, runner TaskRunner) Service {
	if runner == nil {
		runner = SyncRunner{}
	}
	return &ServiceImpl{
		repository: repository,
		words:      words,
		audio:      audio,
		runner:     runner,
	}
}

// IngestBundle turns one relfile into a live grammar
func (s *ServiceImpl) IngestBundle(ctx context.Context, bundle GrammarBundle) (*models.Grammar, error) {
	project, err := s.repository.GetProject(ctx, bundle.ProjectID)
	if err != nil {
		return nil, err
	}
	if bundle.ClientID == 0 {
		bundle.ClientID = project.ClientID
	}

	taken, err := s.repository.GrammarNameTaken(ctx, bundle.ProjectID, bundle.Name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrGrammarExists
	}

	lines, err := relfile.Parse(bundle.Relfile)
	if err != nil {
		return nil, fmt.Errorf("parsing relfile for %s: %w", bundle.Name, err)
	}
	lines = dedupeByAudio(lines)
	if len(lines) == 0 {
		return nil, fmt.Errorf("relfile for %s has no records", bundle.Name)
	}

	language := bundle.Language
	if language == "" {
		language = models.LanguageEnglish
	}

	grammar := &models.Grammar{
		ClientID:    bundle.ClientID,
		ProjectID:   bundle.ProjectID,
		Name:        bundle.Name,
		IDToken:     token.New(),
		IsActive:    true,
		IsProcessed: true,
		Language:    language,
	}

	units := make([]models.Transcription, 0, len(lines))
	for i, line := range lines {
		utterance := strings.Join(strings.Fields(line.Utterance), " ")
		unit := models.Transcription{
			ClientID:        bundle.ClientID,
			ProjectID:       bundle.ProjectID,
			IDToken:         token.New(),
			LineNumber:      i,
			AudioRef:        line.AudioFileName,
			Utterance:       utterance,
			Value:           line.Value,
			CurrentValue:    line.Value,
			Confidence:      line.Confidence,
			ConfidenceValue: line.ConfidenceDecimal(),
			IsActive:        true,
			IsAvailable:     true,
		}
		if s.audio != nil {
			duration, err := s.audio.Process(ctx, line.AudioFileName)
			if err != nil {
				return nil, fmt.Errorf("processing audio %s: %w", line.AudioFileName, err)
			}
			unit.AudioTime = &duration
		}
		units = append(units, unit)
	}

	if err := s.repository.CreateGrammarWithUnits(ctx, grammar, units); err != nil {
		return nil, err
	}
	grammar.Transcriptions = units

	for i := range units {
		scope := autocomplete.Scope{
			ClientID:        units[i].ClientID,
			ProjectID:       units[i].ProjectID,
			GrammarID:       grammar.ID,
			TranscriptionID: &units[i].ID,
		}
		if err := s.words.IndexUtterance(ctx, scope, units[i].Utterance); err != nil {
			return nil, fmt.Errorf("indexing utterance for line %d: %w", units[i].LineNumber, err)
		}
	}

	log.Printf("ingested grammar %s (%d units) into project %d", grammar.Name, len(units), bundle.ProjectID)
	return grammar, nil
}

// IngestBundleAsync schedules the bundle on the task runner
func (s *ServiceImpl) IngestBundleAsync(ctx context.Context, bundle GrammarBundle) error {
	return s.runner.Run(ctx, fmt.Sprintf("ingest:%s", bundle.Name), func(taskCtx context.Context) error {
		_, err := s.IngestBundle(taskCtx, bundle)
		return err
	})
}

// SyncRunner runs tasks inline on the calling goroutine.
type SyncRunner struct{}

func (SyncRunner) Run(ctx context.Context, name string, task func(context.Context) error) error {
	if err := task(ctx); err != nil {
		return fmt.Errorf("task %s: %w", name, err)
	}
	return nil
}

// dedupeByAudio drops records repeating an audio file, keeping the
// first occurrence.
func dedupeByAudio(lines []relfile.Line) []relfile.Line {
	seen := make(map[string]bool, len(lines))
	kept := lines[:0]
	for _, line := range lines {
		name := line.AudioBaseName()
		if seen[name] {
			continue
		}
		seen[name] = true
		kept = append(kept, line)
	}
	return kept
}
