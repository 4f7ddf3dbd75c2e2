package ledger

import (
	"context"
	"testing"

	"github.com/NicholasPiano/arktic/internal/models"
	"github.com/NicholasPiano/arktic/internal/services/autocomplete"
	"github.com/NicholasPiano/arktic/internal/services/propagation"
	"github.com/NicholasPiano/arktic/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// nopExporter satisfies propagation.Exporter for tests that do not
// care about export side effects.
type nopExporter struct{}

func (nopExporter) ExportGrammar(ctx context.Context, grammarID uint) (string, error) {
	return "/dev/null", nil
}

func newService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	words := autocomplete.NewService(autocomplete.NewRepository(db))
	propagator := propagation.NewService(propagation.NewRepository(db), nopExporter{})
	return NewService(NewRepository(db), words, propagator)
}

// seedJob attaches every unit of the fixture grammar to a job owned by userID
func seedJob(t *testing.T, db *gorm.DB, f *testutil.Fixture, userID uint) models.Job {
	t.Helper()
	job := models.Job{
		ClientID:        f.Client.ID,
		ProjectID:       f.Project.ID,
		UserID:          userID,
		IDToken:         "JOBTOKEN",
		IsActive:        true,
		ActiveUnitCount: len(f.Units),
	}
	require.NoError(t, db.Create(&job).Error)
	require.NoError(t, db.Model(&models.Transcription{}).
		Where("grammar_id = ?", f.Grammar.ID).
		Updates(map[string]interface{}{"job_id": job.ID, "is_available": false}).Error)
	return job
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes whitespace before storing", func(t *testing.T) {
		db := testutil.NewDB(t)
		f := testutil.SeedGrammar(t, db, 1)
		job := seedJob(t, db, f, 1)
		service := newService(t, db)

		rev, err := service.Submit(ctx, SubmitParams{
			UnitID: f.Units[0].ID, JobID: job.ID, UserID: 1,
			Utterance: "  hello   there\tworld  ",
		})
		require.NoError(t, err)
		assert.Equal(t, "hello there world", rev.Utterance)
		assert.Len(t, rev.IDToken, 8)
	})

	t.Run("identical resubmission is idempotent", func(t *testing.T) {
		db := testutil.NewDB(t)
		f := testutil.SeedGrammar(t, db, 2)
		job := seedJob(t, db, f, 1)
		service := newService(t, db)

		params := SubmitParams{UnitID: f.Units[0].ID, JobID: job.ID, UserID: 1, Utterance: "same text"}
		first, err := service.Submit(ctx, params)
		require.NoError(t, err)
		second, err := service.Submit(ctx, params)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)

		var count int64
		require.NoError(t, db.Model(&models.Revision{}).
			Where("transcription_id = ?", f.Units[0].ID).
			Count(&count).Error)
		assert.Equal(t, int64(1), count)

		var unit models.Transcription
		require.NoError(t, db.First(&unit, f.Units[0].ID).Error)
		assert.False(t, unit.IsActive)
		assert.Equal(t, "same text", unit.CurrentValue)
		// the imported value column never changes
		assert.Equal(t, "value 0", unit.Value)
	})

	t.Run("changed utterance updates the revision in place", func(t *testing.T) {
		db := testutil.NewDB(t)
		f := testutil.SeedGrammar(t, db, 2)
		job := seedJob(t, db, f, 1)
		service := newService(t, db)

		first, err := service.Submit(ctx, SubmitParams{UnitID: f.Units[0].ID, JobID: job.ID, UserID: 1, Utterance: "first pass"})
		require.NoError(t, err)
		second, err := service.Submit(ctx, SubmitParams{UnitID: f.Units[0].ID, JobID: job.ID, UserID: 1, Utterance: "second pass"})
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "second pass", second.Utterance)

		var count int64
		require.NoError(t, db.Model(&models.Revision{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("empty utterance stores a revision without accepting the unit", func(t *testing.T) {
		db := testutil.NewDB(t)
		f := testutil.SeedGrammar(t, db, 1)
		job := seedJob(t, db, f, 1)
		service := newService(t, db)

		_, err := service.Submit(ctx, SubmitParams{UnitID: f.Units[0].ID, JobID: job.ID, UserID: 1, Utterance: "   "})
		require.NoError(t, err)

		var unit models.Transcription
		require.NoError(t, db.First(&unit, f.Units[0].ID).Error)
		assert.True(t, unit.IsActive, "empty revision must not accept the unit")

		accepted, err := service.IsAccepted(ctx, f.Units[0].ID)
		require.NoError(t, err)
		assert.False(t, accepted)
	})

	t.Run("rebuilds the revision word index", func(t *testing.T) {
		db := testutil.NewDB(t)
		f := testutil.SeedGrammar(t, db, 2)
		job := seedJob(t, db, f, 1)
		service := newService(t, db)

		_, err := service.Submit(ctx, SubmitParams{UnitID: f.Units[0].ID, JobID: job.ID, UserID: 1, Utterance: "alpha beta"})
		require.NoError(t, err)
		rev, err := service.Submit(ctx, SubmitParams{UnitID: f.Units[0].ID, JobID: job.ID, UserID: 1, Utterance: "gamma delta"})
		require.NoError(t, err)

		var contents []string
		require.NoError(t, db.Model(&models.Word{}).
			Where("revision_id = ?", rev.ID).
			Pluck("content", &contents).Error)
		assert.ElementsMatch(t, []string{"gamma", "delta"}, contents)
	})

	t.Run("rejects submission against another user's job", func(t *testing.T) {
		db := testutil.NewDB(t)
		f := testutil.SeedGrammar(t, db, 1)
		job := seedJob(t, db, f, 1)
		service := newService(t, db)

		_, err := service.Submit(ctx, SubmitParams{UnitID: f.Units[0].ID, JobID: job.ID, UserID: 99, Utterance: "x"})
		assert.ErrorIs(t, err, ErrUnauthorizedJob)
	})

	t.Run("rejects unknown unit and job", func(t *testing.T) {
		db := testutil.NewDB(t)
		f := testutil.SeedGrammar(t, db, 1)
		job := seedJob(t, db, f, 1)
		service := newService(t, db)

		_, err := service.Submit(ctx, SubmitParams{UnitID: 9999, JobID: job.ID, UserID: 1, Utterance: "x"})
		assert.ErrorIs(t, err, ErrUnitNotFound)

		_, err = service.Submit(ctx, SubmitParams{UnitID: f.Units[0].ID, JobID: 9999, UserID: 1, Utterance: "x"})
		assert.ErrorIs(t, err, ErrJobNotFound)
	})

	t.Run("rejects submission against a closed grammar", func(t *testing.T) {
		db := testutil.NewDB(t)
		f := testutil.SeedGrammar(t, db, 1)
		job := seedJob(t, db, f, 1)
		service := newService(t, db)

		_, err := service.Submit(ctx, SubmitParams{UnitID: f.Units[0].ID, JobID: job.ID, UserID: 1, Utterance: "done"})
		require.NoError(t, err)

		// the grammar closed with that submit; further edits are conflicts
		_, err = service.Submit(ctx, SubmitParams{UnitID: f.Units[0].ID, JobID: job.ID, UserID: 1, Utterance: "too late"})
		assert.ErrorIs(t, err, ErrGrammarClosed)
	})
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello world", "hello world"},
		{"  hello   world  ", "hello world"},
		{"one\ttwo\nthree", "one two three"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in))
	}
}
