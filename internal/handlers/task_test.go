package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoapp/internal/models"
)

func TestTasks_CRUDHappyPath(t *testing.T) {
	_, mux := setupHTTP(t)

	// 1) create
	var created models.Task
	rec := doJSON(t, mux, http.MethodPost, "/tasks/api/",
		map[string]any{"title": "Buy milk", "priority": 3}, &created)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Buy milk", created.Title)
	assert.Equal(t, "", created.Description)
	assert.Equal(t, 3, created.Priority)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Nil(t, created.CompletedAt)
	assert.Equal(t, "/tasks/api/1", rec.Header().Get("Location"))

	// 2) fetch it back
	var fetched models.Task
	rec = doJSON(t, mux, http.MethodGet, "/tasks/api/1", nil, &fetched)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.Title, fetched.Title)

	// 3) list
	var list []models.Task
	rec = doJSON(t, mux, http.MethodGet, "/tasks/api/", nil, &list)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, list, 1)

	// 4) complete it with a sparse update
	completedAt := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	var updated models.Task
	rec = doJSON(t, mux, http.MethodPatch, "/tasks/api/1",
		map[string]any{"status": "Completed", "completed_at": completedAt}, &updated)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.StatusCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)
	assert.True(t, updated.CompletedAt.Equal(completedAt))
	assert.Equal(t, "Buy milk", updated.Title)
	assert.Equal(t, 3, updated.Priority)

	// 5) delete, then the id is gone
	rec = doJSON(t, mux, http.MethodDelete, "/tasks/api/1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, mux, http.MethodGet, "/tasks/api/1", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, mux, http.MethodDelete, "/tasks/api/1", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTasks_CreateValidation(t *testing.T) {
	_, mux := setupHTTP(t)

	rec := doJSON(t, mux, http.MethodPost, "/tasks/api/", map[string]any{"title": "  "}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, "/tasks/api/", map[string]any{"title": "x", "priority": 9}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, "/tasks/api/", map[string]any{"title": "x", "status": "Done"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// missing content type
	req := httptest.NewRequest(http.MethodPost, "/tasks/api/", nil)
	rec2 := httptest.NewRecorder()
	mux.ServeHTTP(rec2, req)
	assert.Equal(t, http.StatusBadRequest, rec2.Code)
}

func TestTasks_UpdateEdgeCases(t *testing.T) {
	_, mux := setupHTTP(t)

	rec := doJSON(t, mux, http.MethodPost, "/tasks/api/", map[string]any{"title": "Buy milk"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	// empty field set is reported, not silently accepted
	rec = doJSON(t, mux, http.MethodPatch, "/tasks/api/1", map[string]any{}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// explicit nulls count as unsupplied
	rec = doJSON(t, mux, http.MethodPatch, "/tasks/api/1",
		map[string]any{"title": nil, "status": nil}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// unknown id: the write affects nothing and the re-fetch yields 404
	rec = doJSON(t, mux, http.MethodPatch, "/tasks/api/99", map[string]any{"title": "ghost"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// record untouched by the failed attempts
	var task models.Task
	rec = doJSON(t, mux, http.MethodGet, "/tasks/api/1", nil, &task)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Buy milk", task.Title)
}

func TestTasks_BadID(t *testing.T) {
	_, mux := setupHTTP(t)

	for _, path := range []string{"/tasks/api/abc", "/tasks/api/-1", "/tasks/api/0"} {
		rec := doJSON(t, mux, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "path %s", path)
	}
}

func TestTasks_ListMostRecentFirst(t *testing.T) {
	_, mux := setupHTTP(t)

	for _, title := range []string{"first", "second", "third"} {
		rec := doJSON(t, mux, http.MethodPost, "/tasks/api/", map[string]any{"title": title}, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	var list []models.Task
	rec := doJSON(t, mux, http.MethodGet, "/tasks/api/", nil, &list)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, list, 3)
	assert.Equal(t, "third", list[0].Title)
	assert.Equal(t, "second", list[1].Title)
	assert.Equal(t, "first", list[2].Title)
}

func TestCORS_Preflight(t *testing.T) {
	_, mux := setupHTTP(t)
	srv := CORS(mux)

	req := httptest.NewRequest(http.MethodOptions, "/tasks/api/", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
