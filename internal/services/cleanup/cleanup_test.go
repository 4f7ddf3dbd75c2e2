package cleanup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, modTime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
	return path
}

func TestSweep(t *testing.T) {
	t.Run("removes only stale temp files", func(t *testing.T) {
		dir := t.TempDir()
		old := time.Now().Add(-2 * time.Hour)

		stale := writeFile(t, dir, ".numbers.abc123.tmp", old)
		fresh := writeFile(t, dir, ".numbers.def456.tmp", time.Now())
		published := writeFile(t, dir, "numbers.rel", old)

		s := NewService(dir, time.Hour, time.Minute)
		assert.Equal(t, 1, s.Sweep())

		assert.NoFileExists(t, stale)
		assert.FileExists(t, fresh)
		assert.FileExists(t, published)
	})

	t.Run("missing directory is not an error", func(t *testing.T) {
		s := NewService(filepath.Join(t.TempDir(), "absent"), time.Hour, time.Minute)
		assert.Zero(t, s.Sweep())
	})
}
