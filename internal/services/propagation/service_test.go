package propagation_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/NicholasPiano/arktic/internal/models"
	"github.com/NicholasPiano/arktic/internal/services/allocator"
	"github.com/NicholasPiano/arktic/internal/services/autocomplete"
	"github.com/NicholasPiano/arktic/internal/services/ledger"
	"github.com/NicholasPiano/arktic/internal/services/propagation"
	"github.com/NicholasPiano/arktic/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingExporter counts ExportGrammar calls and can be told to fail.
type recordingExporter struct {
	mu    sync.Mutex
	calls []uint
	fail  bool
}

func (e *recordingExporter) ExportGrammar(ctx context.Context, grammarID uint) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fail {
		return "", errors.New("disk full")
	}
	e.calls = append(e.calls, grammarID)
	return "/tmp/out.rel", nil
}

func (e *recordingExporter) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

func (e *recordingExporter) setFail(fail bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fail = fail
}

type stack struct {
	db        *gorm.DB
	exporter  *recordingExporter
	allocator allocator.Service
	ledger    ledger.Service
	prop      propagation.Service
}

func newStack(t *testing.T, batchSize int) *stack {
	t.Helper()
	db := testutil.NewDB(t)
	exporter := &recordingExporter{}
	prop := propagation.NewService(propagation.NewRepository(db), exporter)
	words := autocomplete.NewService(autocomplete.NewRepository(db))
	return &stack{
		db:        db,
		exporter:  exporter,
		allocator: allocator.NewService(allocator.NewRepository(db), batchSize, 3),
		ledger:    ledger.NewService(ledger.NewRepository(db), words, prop),
		prop:      prop,
	}
}

func (s *stack) submit(t *testing.T, unitID, jobID, userID uint, utterance string) {
	t.Helper()
	_, err := s.ledger.Submit(context.Background(), ledger.SubmitParams{
		UnitID: unitID, JobID: jobID, UserID: userID, Utterance: utterance,
	})
	require.NoError(t, err)
}

func (s *stack) grammar(t *testing.T, id uint) models.Grammar {
	t.Helper()
	var g models.Grammar
	require.NoError(t, s.db.First(&g, id).Error)
	return g
}

func TestCompletionPropagation(t *testing.T) {
	ctx := context.Background()

	t.Run("walks grammar, job and project as units complete", func(t *testing.T) {
		s := newStack(t, 2)
		f := testutil.SeedGrammar(t, s.db, 3)

		job1, err := s.allocator.Allocate(ctx, f.Project.ID, 1)
		require.NoError(t, err)
		units1, err := s.allocator.GetJobUnits(ctx, job1.ID)
		require.NoError(t, err)
		require.Len(t, units1, 2)

		s.submit(t, units1[0].ID, job1.ID, 1, "first")

		g := s.grammar(t, f.Grammar.ID)
		assert.True(t, g.IsActive, "grammar stays open while units remain")
		assert.Equal(t, 0, s.exporter.callCount())

		job2, err := s.allocator.Allocate(ctx, f.Project.ID, 2)
		require.NoError(t, err)
		units2, err := s.allocator.GetJobUnits(ctx, job2.ID)
		require.NoError(t, err)
		require.Len(t, units2, 1)

		s.submit(t, units1[1].ID, job1.ID, 1, "second")

		var j1 models.Job
		require.NoError(t, s.db.First(&j1, job1.ID).Error)
		assert.True(t, j1.IsComplete(), "job with no active units completes")
		assert.NotNil(t, j1.CompletedAt)

		s.submit(t, units2[0].ID, job2.ID, 2, "third")

		g = s.grammar(t, f.Grammar.ID)
		assert.False(t, g.IsActive)
		assert.True(t, g.IsClosed())
		assert.True(t, g.IsExported())
		assert.Equal(t, 1, s.exporter.callCount())

		var p models.Project
		require.NoError(t, s.db.First(&p, f.Project.ID).Error)
		assert.False(t, p.IsActive, "last grammar closing deactivates the project")
	})

	t.Run("project stays active while sibling grammars remain", func(t *testing.T) {
		s := newStack(t, 10)
		f := testutil.SeedGrammar(t, s.db, 1)
		testutil.AddGrammar(t, s.db, f, "second-grammar", 1)

		job, err := s.allocator.Allocate(ctx, f.Project.ID, 1)
		require.NoError(t, err)
		units, err := s.allocator.GetJobUnits(ctx, job.ID)
		require.NoError(t, err)
		require.Len(t, units, 2)

		s.submit(t, units[0].ID, job.ID, 1, "done")

		var p models.Project
		require.NoError(t, s.db.First(&p, f.Project.ID).Error)
		assert.True(t, p.IsActive)
	})

	t.Run("grammar exports at most once", func(t *testing.T) {
		s := newStack(t, 10)
		f := testutil.SeedGrammar(t, s.db, 1)

		job, err := s.allocator.Allocate(ctx, f.Project.ID, 1)
		require.NoError(t, err)
		units, err := s.allocator.GetJobUnits(ctx, job.ID)
		require.NoError(t, err)

		s.submit(t, units[0].ID, job.ID, 1, "only unit")
		require.Equal(t, 1, s.exporter.callCount())

		// further passes over the hierarchy must not export again
		require.NoError(t, s.prop.OnRevisionCommitted(ctx, units[0].ID))
		n, err := s.prop.RetryPendingExports(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, 1, s.exporter.callCount())
	})

	t.Run("failed export keeps the grammar pending and retries", func(t *testing.T) {
		s := newStack(t, 10)
		f := testutil.SeedGrammar(t, s.db, 1)
		s.exporter.setFail(true)

		job, err := s.allocator.Allocate(ctx, f.Project.ID, 1)
		require.NoError(t, err)
		units, err := s.allocator.GetJobUnits(ctx, job.ID)
		require.NoError(t, err)

		// submit succeeds even though the export behind it fails
		s.submit(t, units[0].ID, job.ID, 1, "only unit")

		g := s.grammar(t, f.Grammar.ID)
		assert.True(t, g.IsClosed())
		assert.False(t, g.IsExported())

		s.exporter.setFail(false)
		n, err := s.prop.RetryPendingExports(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		g = s.grammar(t, f.Grammar.ID)
		assert.True(t, g.IsExported())
		assert.Equal(t, "/tmp/out.rel", g.CompletedRelPath)
	})
}
