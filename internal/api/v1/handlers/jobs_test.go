package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spaceworks/internal/api/v1/dto"
	"spaceworks/internal/app/jobstore"
	"spaceworks/internal/app/model"
)

func setupJobRouter(t *testing.T) (*gin.Engine, *jobstore.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := jobstore.New(t.TempDir())
	require.NoError(t, err)

	handler := NewJobHandler(store)
	router := gin.New()
	router.POST("/jobs", handler.Create)
	router.GET("/jobs", handler.List)
	router.GET("/jobs/:id", handler.Get)
	router.POST("/jobs/:id/cancel", handler.Cancel)
	return router, store
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestCreateJob enqueues a pending job and returns it with a fresh id.
func TestCreateJob(t *testing.T) {
	router, store := setupJobRouter(t)

	w := doJSON(t, router, http.MethodPost, "/jobs", dto.CreateJobRequest{
		Kind:    "transcription",
		SpaceID: "space-1",
		UserID:  "user-1",
		Options: map[string]interface{}{"model": "whisper-1"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.JobResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, 0, resp.Progress)

	stored, err := store.Get(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, model.KindTranscription, stored.Kind)
}

// TestCreateJobValidatesKind rejects kinds outside the known set via
// binding.
func TestCreateJobValidatesKind(t *testing.T) {
	router, _ := setupJobRouter(t)

	w := doJSON(t, router, http.MethodPost, "/jobs", dto.CreateJobRequest{
		Kind:    "summarize",
		SpaceID: "space-1",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "must be one of the allowed values")
}

// TestCreateJobRequiresSpace rejects a missing space id.
func TestCreateJobRequiresSpace(t *testing.T) {
	router, _ := setupJobRouter(t)

	w := doJSON(t, router, http.MethodPost, "/jobs", dto.CreateJobRequest{
		Kind: "transcription",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "is required")
}

// TestGetJob reads back a job by id and 404s on unknown ids.
func TestGetJob(t *testing.T) {
	router, store := setupJobRouter(t)

	job, err := store.Create(model.KindVideo, "space-1", "user-1", nil)
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodGet, "/jobs/"+job.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.JobResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, job.ID, resp.ID)
	assert.Equal(t, "video", resp.Kind)

	w = doJSON(t, router, http.MethodGet, "/jobs/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestGetJobCorruptRecord: an unreadable record is a server error, not a
// missing job.
func TestGetJobCorruptRecord(t *testing.T) {
	router, store := setupJobRouter(t)

	path := filepath.Join(store.Dir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	w := doJSON(t, router, http.MethodGet, "/jobs/bad", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "failed to read job")
}

// TestListJobsFilters filters by kind and status query params.
func TestListJobsFilters(t *testing.T) {
	router, store := setupJobRouter(t)

	_, err := store.Create(model.KindTranscription, "space-1", "user-1", nil)
	require.NoError(t, err)
	video, err := store.Create(model.KindVideo, "space-2", "user-1", nil)
	require.NoError(t, err)
	_, err = store.Update(video.ID, func(j *model.Job) error {
		j.Status = model.JobStatusCompleted
		return nil
	})
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodGet, "/jobs?kind=video&status=completed", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.JobListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Jobs, 1)
	assert.Equal(t, video.ID, resp.Jobs[0].ID)

	w = doJSON(t, router, http.MethodGet, "/jobs?kind=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestCancelJob cancels a pending job immediately and flags a processing
// one.
func TestCancelJob(t *testing.T) {
	router, store := setupJobRouter(t)

	pending, err := store.Create(model.KindTranscription, "space-1", "user-1", nil)
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodPost, "/jobs/"+pending.ID+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.JobResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cancelled", resp.Status)

	processing, err := store.Create(model.KindTranscription, "space-1", "user-1", nil)
	require.NoError(t, err)
	_, err = store.Update(processing.ID, func(j *model.Job) error {
		j.Status = model.JobStatusProcessing
		return nil
	})
	require.NoError(t, err)

	w = doJSON(t, router, http.MethodPost, "/jobs/"+processing.ID+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "processing", resp.Status)

	stored, err := store.Get(processing.ID)
	require.NoError(t, err)
	assert.True(t, stored.CancelRequested)

	w = doJSON(t, router, http.MethodPost, "/jobs/missing/cancel", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
