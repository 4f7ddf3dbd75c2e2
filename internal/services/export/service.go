package export

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/NicholasPiano/arktic/internal/models"
	"github.com/NicholasPiano/arktic/pkg/relfile"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// ServiceImpl writes a completed grammar back into its original
// relfile format. It implements propagation.Exporter.
type ServiceImpl struct {
	repository Repository
	outputDir  string
}

// NewService creates a new export service writing into outputDir
func NewService(repository Repository, outputDir string) *ServiceImpl {
	return &ServiceImpl{
		repository: repository,
		outputDir:  outputDir,
	}
}

// ExportGrammar serializes the grammar's units in original line order,
// substituting each utterance with the latest revision text. Units
// that never received a non-empty revision keep their reference
// utterance. The write goes through a uuid-named temp file renamed
// into place, under an advisory lock on the output directory, so
// concurrent retry passes cannot interleave writes to the same file.
func (s *ServiceImpl) ExportGrammar(ctx context.Context, grammarID uint) (string, error) {
	grammar, err := s.repository.GetGrammar(ctx, grammarID)
	if err != nil {
		return "", err
	}

	units, err := s.repository.GetUnitsInLineOrder(ctx, grammarID)
	if err != nil {
		return "", err
	}

	lines := make([]relfile.Line, 0, len(units))
	for i := range units {
		line, err := s.lineFor(ctx, grammar, &units[i])
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
	}

	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	lock := flock.New(filepath.Join(s.outputDir, ".export.lock"))
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("locking export directory: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	finalPath := filepath.Join(s.outputDir, grammar.Name+".rel")
	tmpPath := filepath.Join(s.outputDir, fmt.Sprintf(".%s.%s.tmp", grammar.Name, uuid.New().String()))

	f, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}
	if err := relfile.Write(f, lines); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("closing export file: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("publishing export file: %w", err)
	}

	return finalPath, nil
}

func (s *ServiceImpl) lineFor(ctx context.Context, grammar *models.Grammar, unit *models.Transcription) (relfile.Line, error) {
	utterance := unit.Utterance
	revision, err := s.repository.GetLatestRevision(ctx, unit.ID)
	if err != nil {
		return relfile.Line{}, err
	}
	if revision != nil && !revision.IsEmpty() {
		utterance = revision.Utterance
	}

	return relfile.Line{
		AudioFileName:   unit.AudioRef,
		GrammarName:     grammar.Name,
		Confidence:      unit.Confidence,
		Utterance:       utterance,
		Value:           unit.Value,
		ConfidenceValue: int(math.Round(unit.ConfidenceValue * relfile.ConfidenceScale)),
	}, nil
}
