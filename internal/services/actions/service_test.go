package actions

import (
	"context"
	"testing"

	"github.com/NicholasPiano/arktic/internal/models"
	"github.com/NicholasPiano/arktic/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

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

func seedRevision(t *testing.T, db *gorm.DB, unitID, jobID, userID uint) models.Revision {
	t.Helper()
	rev := models.Revision{
		TranscriptionID: unitID,
		JobID:           jobID,
		UserID:          userID,
		IDToken:         "REVTOKEN",
		Utterance:       "some text",
	}
	require.NoError(t, db.Create(&rev).Error)
	return rev
}

func TestRecord(t *testing.T) {
	ctx := context.Background()
	audioTime := 1.5

	t.Run("appends an action with a fresh token", func(t *testing.T) {
		db := testutil.NewDB(t)
		f := testutil.SeedGrammar(t, db, 1)
		job := seedJob(t, db, f, 1)
		service := NewService(NewRepository(db))

		action, err := service.Record(ctx, RecordParams{
			JobID: job.ID, UserID: 1, UnitID: f.Units[0].ID,
			Kind: models.ActionPlayPause, AudioTime: &audioTime,
		})
		require.NoError(t, err)
		assert.Len(t, action.IDToken, 8)
		assert.Nil(t, action.RevisionID, "no revision exists yet")
		assert.Equal(t, models.ActionPlayPause, action.Kind)
	})

	t.Run("links the action to the worker's revision", func(t *testing.T) {
		db := testutil.NewDB(t)
		f := testutil.SeedGrammar(t, db, 1)
		job := seedJob(t, db, f, 1)
		rev := seedRevision(t, db, f.Units[0].ID, job.ID, 1)
		service := NewService(NewRepository(db))

		action, err := service.Record(ctx, RecordParams{
			JobID: job.ID, UserID: 1, UnitID: f.Units[0].ID, Kind: models.ActionTick,
		})
		require.NoError(t, err)
		require.NotNil(t, action.RevisionID)
		assert.Equal(t, rev.ID, *action.RevisionID)
	})

	t.Run("derives plays from playback actions only", func(t *testing.T) {
		db := testutil.NewDB(t)
		f := testutil.SeedGrammar(t, db, 1)
		job := seedJob(t, db, f, 1)
		rev := seedRevision(t, db, f.Units[0].ID, job.ID, 1)
		service := NewService(NewRepository(db))

		for _, kind := range []models.ActionKind{
			models.ActionEndedAudio,
			models.ActionReplay,
			models.ActionPlayPause,
			models.ActionReplay,
			models.ActionAddWord,
		} {
			_, err := service.Record(ctx, RecordParams{
				JobID: job.ID, UserID: 1, UnitID: f.Units[0].ID, Kind: kind,
			})
			require.NoError(t, err)
		}

		var got models.Revision
		require.NoError(t, db.First(&got, rev.ID).Error)
		assert.Equal(t, 3, got.NumberOfPlays)
		require.NotNil(t, got.TimeToComplete)
		assert.GreaterOrEqual(t, *got.TimeToComplete, 0.0)
	})

	t.Run("rejects unknown kinds", func(t *testing.T) {
		db := testutil.NewDB(t)
		f := testutil.SeedGrammar(t, db, 1)
		job := seedJob(t, db, f, 1)
		service := NewService(NewRepository(db))

		_, err := service.Record(ctx, RecordParams{
			JobID: job.ID, UserID: 1, UnitID: f.Units[0].ID, Kind: "fast_forward",
		})
		assert.ErrorIs(t, err, ErrInvalidKind)
	})

	t.Run("rejects another user's job", func(t *testing.T) {
		db := testutil.NewDB(t)
		f := testutil.SeedGrammar(t, db, 1)
		job := seedJob(t, db, f, 1)
		service := NewService(NewRepository(db))

		_, err := service.Record(ctx, RecordParams{
			JobID: job.ID, UserID: 2, UnitID: f.Units[0].ID, Kind: models.ActionTick,
		})
		assert.ErrorIs(t, err, ErrUnauthorizedJob)
	})

	t.Run("rejects a unit outside the job", func(t *testing.T) {
		db := testutil.NewDB(t)
		f := testutil.SeedGrammar(t, db, 1)
		job := seedJob(t, db, f, 1)
		other := testutil.AddGrammar(t, db, f, "other-grammar", 1)
		var outside models.Transcription
		require.NoError(t, db.Where("grammar_id = ?", other.ID).First(&outside).Error)
		service := NewService(NewRepository(db))

		_, err := service.Record(ctx, RecordParams{
			JobID: job.ID, UserID: 1, UnitID: outside.ID, Kind: models.ActionTick,
		})
		assert.ErrorIs(t, err, ErrUnitNotInJob)
	})

	t.Run("rejects unknown job and unit", func(t *testing.T) {
		db := testutil.NewDB(t)
		f := testutil.SeedGrammar(t, db, 1)
		job := seedJob(t, db, f, 1)
		service := NewService(NewRepository(db))

		_, err := service.Record(ctx, RecordParams{JobID: 999, UserID: 1, UnitID: f.Units[0].ID, Kind: models.ActionTick})
		assert.ErrorIs(t, err, ErrJobNotFound)

		_, err = service.Record(ctx, RecordParams{JobID: job.ID, UserID: 1, UnitID: 999, Kind: models.ActionTick})
		assert.ErrorIs(t, err, ErrUnitNotFound)
	})
}

func TestListForUnit(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	f := testutil.SeedGrammar(t, db, 1)
	job := seedJob(t, db, f, 1)
	service := NewService(NewRepository(db))

	kinds := []models.ActionKind{models.ActionPlayPause, models.ActionReplay, models.ActionEndedAudio}
	for _, kind := range kinds {
		_, err := service.Record(ctx, RecordParams{JobID: job.ID, UserID: 1, UnitID: f.Units[0].ID, Kind: kind})
		require.NoError(t, err)
	}

	actions, err := service.ListForUnit(ctx, f.Units[0].ID, job.ID)
	require.NoError(t, err)
	require.Len(t, actions, 3)
	for i, kind := range kinds {
		assert.Equal(t, kind, actions[i].Kind)
	}
}
