package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "spaceworks/internal/api/errors"
	"spaceworks/internal/api/middleware"
	"spaceworks/internal/api/v1/dto"
	apperrors "spaceworks/internal/app/errors"
	"spaceworks/internal/app/jobstore"
	"spaceworks/internal/app/model"
)

// JobHandler exposes the producer/status surface over the job store.
type JobHandler struct {
	store *jobstore.Store
}

// NewJobHandler creates a new job handler.
func NewJobHandler(store *jobstore.Store) *JobHandler {
	return &JobHandler{store: store}
}

// Create enqueues a new job with status pending.
func (h *JobHandler) Create(c *gin.Context) {
	var req dto.CreateJobRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	job, err := h.store.Create(model.JobKind(req.Kind), req.SpaceID, req.UserID, req.Options)
	if err != nil {
		middleware.HandleError(c, apierrors.NewInternalError("failed to create job: "+err.Error()))
		return
	}

	c.JSON(http.StatusCreated, dto.FromJob(job))
}

// Get returns one job record, including progress and error, at any time.
func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.store.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrJobNotFound) {
			middleware.HandleError(c, apierrors.NewNotFoundError("job"))
			return
		}
		middleware.HandleError(c, apierrors.NewInternalError("failed to read job: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.FromJob(job))
}

// List returns jobs, optionally filtered by kind and status query params.
func (h *JobHandler) List(c *gin.Context) {
	kind := model.JobKind(c.Query("kind"))
	if kind != "" {
		if _, ok := model.ParseKind(string(kind)); !ok {
			middleware.HandleError(c, apierrors.NewBadRequestError("unknown kind "+string(kind)))
			return
		}
	}
	status := model.JobStatus(c.Query("status"))

	jobs, err := h.store.List(kind, status)
	if err != nil {
		middleware.HandleError(c, apierrors.NewInternalError("failed to list jobs: "+err.Error()))
		return
	}

	resp := dto.JobListResponse{Jobs: make([]dto.JobResponse, 0, len(jobs)), Total: len(jobs)}
	for _, job := range jobs {
		resp.Jobs = append(resp.Jobs, dto.FromJob(job))
	}
	c.JSON(http.StatusOK, resp)
}

// Cancel requests cooperative cancellation. Pending jobs cancel immediately;
// processing jobs cancel at the worker's next checkpoint.
func (h *JobHandler) Cancel(c *gin.Context) {
	job, err := h.store.RequestCancel(c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrJobNotFound) {
			middleware.HandleError(c, apierrors.NewNotFoundError("job"))
			return
		}
		middleware.HandleError(c, apierrors.NewInternalError("failed to cancel job: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.FromJob(job))
}
