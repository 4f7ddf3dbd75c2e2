package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NicholasPiano/arktic/api/types"
	"github.com/NicholasPiano/arktic/internal/database"
)

func openDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Initialize(filepath.Join(t.TempDir(), "health.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestGet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("healthy with database", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		Get(&types.Dependencies{DB: openDB(t)})(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "ok", response["status"])
		db := response["database"].(map[string]interface{})
		assert.Equal(t, "healthy", db["status"])
	})

	t.Run("no database configured", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		Get(&types.Dependencies{})(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		db := response["database"].(map[string]interface{})
		assert.Equal(t, "not configured", db["status"])
	})
}

func TestGetDatabaseStatus(t *testing.T) {
	assert.Equal(t, gin.H{"status": "not configured"}, getDatabaseStatus(&types.Dependencies{}))

	status := getDatabaseStatus(&types.Dependencies{DB: openDB(t)})
	assert.Equal(t, gin.H{"status": "healthy"}, status)
}
