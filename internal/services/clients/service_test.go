package clients

import (
	"context"
	"testing"

	"github.com/NicholasPiano/arktic/internal/models"
	"github.com/NicholasPiano/arktic/internal/testutil"
	"github.com/NicholasPiano/arktic/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedTree builds a client with one of every dependent record kind
func seedTree(t *testing.T, db *gorm.DB) *testutil.Fixture {
	t.Helper()
	f := testutil.SeedGrammar(t, db, 2)

	job := models.Job{
		ClientID: f.Client.ID, ProjectID: f.Project.ID, UserID: 1,
		IDToken: token.New(), IsActive: true, ActiveUnitCount: 2,
	}
	require.NoError(t, db.Create(&job).Error)

	rev := models.Revision{
		TranscriptionID: f.Units[0].ID, JobID: job.ID, UserID: 1,
		IDToken: "REVTOKEN", Utterance: "fixed text",
	}
	require.NoError(t, db.Create(&rev).Error)

	require.NoError(t, db.Create(&models.Action{
		JobID: job.ID, UserID: 1, TranscriptionID: f.Units[0].ID,
		RevisionID: &rev.ID, IDToken: "ACTTOKEN", Kind: models.ActionReplay,
	}).Error)

	require.NoError(t, db.Create(&models.Word{
		ClientID: f.Client.ID, ProjectID: f.Project.ID, GrammarID: f.Grammar.ID,
		RevisionID: &rev.ID, Content: "fixed", IsUnique: true,
	}).Error)

	return f
}

func countAll(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Unscoped().Model(model).Count(&count).Error)
	return count
}

func TestDeleteClient(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the whole tree", func(t *testing.T) {
		db := testutil.NewDB(t)
		f := seedTree(t, db)
		service := NewService(NewRepository(db))

		require.NoError(t, service.DeleteClient(ctx, f.Client.ID))

		for _, model := range []interface{}{
			&models.Word{}, &models.Action{}, &models.Revision{},
			&models.Transcription{}, &models.Grammar{}, &models.Job{},
			&models.Project{}, &models.Client{},
		} {
			assert.Zero(t, countAll(t, db, model))
		}
	})

	t.Run("leaves other clients untouched", func(t *testing.T) {
		db := testutil.NewDB(t)
		doomed := seedTree(t, db)
		survivor := seedTree(t, db)
		service := NewService(NewRepository(db))

		require.NoError(t, service.DeleteClient(ctx, doomed.Client.ID))

		_, err := service.GetClient(ctx, survivor.Client.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), countAll(t, db, &models.Client{}))
		assert.Equal(t, int64(2), countAll(t, db, &models.Transcription{}))
		assert.Equal(t, int64(1), countAll(t, db, &models.Revision{}))
		assert.Equal(t, int64(1), countAll(t, db, &models.Action{}))
		assert.Equal(t, int64(1), countAll(t, db, &models.Word{}))
	})

	t.Run("unknown client", func(t *testing.T) {
		db := testutil.NewDB(t)
		service := NewService(NewRepository(db))
		assert.ErrorIs(t, service.DeleteClient(ctx, 42), ErrClientNotFound)
	})
}

func TestDeleteMany(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	a := seedTree(t, db)
	b := seedTree(t, db)
	service := NewService(NewRepository(db))

	deleted, err := service.DeleteMany(ctx, []uint{a.Client.ID, 999, b.Client.ID})
	assert.ErrorIs(t, err, ErrClientNotFound)
	assert.Equal(t, 1, deleted)

	// the failure stops the walk; the client after it survives
	_, err = service.GetClient(ctx, b.Client.ID)
	assert.NoError(t, err)
}

func TestListClients(t *testing.T) {
	db := testutil.NewDB(t)
	seedTree(t, db)
	seedTree(t, db)
	service := NewService(NewRepository(db))

	clients, err := service.ListClients(context.Background())
	require.NoError(t, err)
	assert.Len(t, clients, 2)
}
