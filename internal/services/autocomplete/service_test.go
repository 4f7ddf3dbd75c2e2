package autocomplete

import (
	"context"
	"testing"

	"github.com/NicholasPiano/arktic/internal/models"
	"github.com/NicholasPiano/arktic/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scopeFor(f *testutil.Fixture) Scope {
	return Scope{ClientID: f.Client.ID, ProjectID: f.Project.ID, GrammarID: f.Grammar.ID}
}

func TestIndexUtterance(t *testing.T) {
	ctx := context.Background()

	t.Run("inserting the same token twice leaves one unique row", func(t *testing.T) {
		db := testutil.NewDB(t)
		f := testutil.SeedGrammar(t, db, 0)
		service := NewService(NewRepository(db))

		require.NoError(t, service.IndexUtterance(ctx, scopeFor(f), "hello world"))
		require.NoError(t, service.IndexUtterance(ctx, scopeFor(f), "hello again"))

		var count int64
		require.NoError(t, db.Model(&models.Word{}).
			Where("project_id = ? AND content = ? AND is_unique = ?", f.Project.ID, "hello", true).
			Count(&count).Error)
		assert.Equal(t, int64(1), count)

		words, err := service.Suggestions(ctx, f.Project.ID, ModeFull)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"hello", "world", "again"}, words)
	})

	t.Run("duplicate tokens within one utterance collapse", func(t *testing.T) {
		db := testutil.NewDB(t)
		f := testutil.SeedGrammar(t, db, 0)
		service := NewService(NewRepository(db))

		require.NoError(t, service.IndexUtterance(ctx, scopeFor(f), "yes yes yes"))

		var count int64
		require.NoError(t, db.Model(&models.Word{}).
			Where("project_id = ? AND content = ?", f.Project.ID, "yes").
			Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("detects bracketed tokens as tags", func(t *testing.T) {
		db := testutil.NewDB(t)
		f := testutil.SeedGrammar(t, db, 0)
		service := NewService(NewRepository(db))

		require.NoError(t, service.IndexUtterance(ctx, scopeFor(f), "[noise] hello [cough]"))

		tags, err := service.Suggestions(ctx, f.Project.ID, ModeTags)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"[noise]", "[cough]"}, tags)
	})
}

func TestReindexRevision(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the words derived from a revision", func(t *testing.T) {
		db := testutil.NewDB(t)
		f := testutil.SeedGrammar(t, db, 1)
		service := NewService(NewRepository(db))
		scope := scopeFor(f)
		scope.TranscriptionID = &f.Units[0].ID

		require.NoError(t, service.ReindexRevision(ctx, scope, 11, "first attempt"))
		require.NoError(t, service.ReindexRevision(ctx, scope, 11, "second attempt"))

		var contents []string
		require.NoError(t, db.Model(&models.Word{}).
			Where("revision_id = ?", 11).
			Pluck("content", &contents).Error)
		assert.ElementsMatch(t, []string{"second", "attempt"}, contents)
	})

	t.Run("repeated occurrences are not unique", func(t *testing.T) {
		db := testutil.NewDB(t)
		f := testutil.SeedGrammar(t, db, 0)
		service := NewService(NewRepository(db))

		require.NoError(t, service.IndexUtterance(ctx, scopeFor(f), "hello"))
		require.NoError(t, service.ReindexRevision(ctx, scopeFor(f), 12, "hello world"))

		var word models.Word
		require.NoError(t, db.
			Where("revision_id = ? AND content = ?", 12, "hello").
			First(&word).Error)
		assert.False(t, word.IsUnique)

		// suggestion list still carries a single "hello"
		words, err := service.Suggestions(ctx, f.Project.ID, ModeFull)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"hello", "world"}, words)
	})
}

func TestSuggestions(t *testing.T) {
	ctx := context.Background()

	t.Run("full mode sorts by character length", func(t *testing.T) {
		db := testutil.NewDB(t)
		f := testutil.SeedGrammar(t, db, 0)
		service := NewService(NewRepository(db))

		require.NoError(t, service.IndexUtterance(ctx, scopeFor(f), "somewhere over the rainbow"))

		words, err := service.Suggestions(ctx, f.Project.ID, ModeFull)
		require.NoError(t, err)
		require.Len(t, words, 4)
		for i := 1; i < len(words); i++ {
			assert.GreaterOrEqual(t, len(words[i]), len(words[i-1]))
		}
	})

	t.Run("rejects unknown mode", func(t *testing.T) {
		db := testutil.NewDB(t)
		service := NewService(NewRepository(db))

		_, err := service.Suggestions(ctx, 1, SuggestionMode("partial"))
		assert.Error(t, err)
	})
}
