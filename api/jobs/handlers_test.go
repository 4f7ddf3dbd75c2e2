package jobs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/NicholasPiano/arktic/api/types"
	"github.com/NicholasPiano/arktic/internal/services/allocator"
	"github.com/NicholasPiano/arktic/internal/testutil"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	deps := &types.Dependencies{
		Allocator: allocator.NewService(allocator.NewRepository(db), 2, 3),
	}

	engine := gin.New()
	RegisterRoutes(engine.Group("/api/v1"), deps)
	return engine, db
}

func postJSON(t *testing.T, engine *gin.Engine, url string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAllocate(t *testing.T) {
	t.Run("claims a batch", func(t *testing.T) {
		engine, db := setupRouter(t)
		f := testutil.SeedGrammar(t, db, 3)

		w := postJSON(t, engine, fmt.Sprintf("/api/v1/projects/%d/jobs", f.Project.ID), AllocateRequest{UserID: 7})
		assert.Equal(t, http.StatusCreated, w.Code)

		var response types.JobResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.NotNil(t, response.Job)
		assert.Equal(t, uint(7), response.Job.UserID)
		assert.Equal(t, 2, response.Job.ActiveUnitCount)
		assert.Len(t, response.Job.IDToken, 8)
	})

	t.Run("drained project reports no work", func(t *testing.T) {
		engine, db := setupRouter(t)
		f := testutil.SeedGrammar(t, db, 0)

		w := postJSON(t, engine, fmt.Sprintf("/api/v1/projects/%d/jobs", f.Project.ID), AllocateRequest{UserID: 7})
		assert.Equal(t, http.StatusOK, w.Code)

		var response types.JobResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, types.StatusNoWork, response.Status)
		assert.Nil(t, response.Job)
	})

	t.Run("unknown project", func(t *testing.T) {
		engine, _ := setupRouter(t)
		w := postJSON(t, engine, "/api/v1/projects/999/jobs", AllocateRequest{UserID: 7})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("rejects a malformed project id and body", func(t *testing.T) {
		engine, _ := setupRouter(t)

		w := postJSON(t, engine, "/api/v1/projects/abc/jobs", AllocateRequest{UserID: 7})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = postJSON(t, engine, "/api/v1/projects/1/jobs", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetUnits(t *testing.T) {
	t.Run("returns the job's units in order", func(t *testing.T) {
		engine, db := setupRouter(t)
		f := testutil.SeedGrammar(t, db, 2)

		w := postJSON(t, engine, fmt.Sprintf("/api/v1/projects/%d/jobs", f.Project.ID), AllocateRequest{UserID: 7})
		require.Equal(t, http.StatusCreated, w.Code)
		var created types.JobResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/jobs/%d/units", created.Job.ID), nil)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		var response types.UnitsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		require.Equal(t, 2, response.Count)
		assert.Equal(t, 0, response.Units[0].LineNumber)
		assert.Equal(t, 1, response.Units[1].LineNumber)
	})

	t.Run("unknown job", func(t *testing.T) {
		engine, _ := setupRouter(t)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/999/units", nil)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
