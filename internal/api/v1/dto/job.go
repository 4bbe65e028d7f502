package dto

import (
	"time"

	"spaceworks/internal/app/model"
)

// CreateJobRequest is what a producer posts to enqueue work.
type CreateJobRequest struct {
	Kind    string                 `json:"kind" binding:"required,oneof=transcription translation video"`
	SpaceID string                 `json:"space_id" binding:"required"`
	UserID  string                 `json:"user_id"`
	Options map[string]interface{} `json:"options"`
}

// JobResponse mirrors the job record field-for-field.
type JobResponse struct {
	ID        string                 `json:"id"`
	Kind      string                 `json:"kind"`
	SpaceID   string                 `json:"space_id"`
	UserID    string                 `json:"user_id,omitempty"`
	Status    string                 `json:"status"`
	Progress  int                    `json:"progress"`
	Options   map[string]interface{} `json:"options,omitempty"`
	Result    map[string]interface{} `json:"result,omitempty"`
	Error     string                 `json:"error,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// JobListResponse wraps a list of jobs.
type JobListResponse struct {
	Jobs  []JobResponse `json:"jobs"`
	Total int           `json:"total"`
}

// FromJob converts a job record into its API shape.
func FromJob(job *model.Job) JobResponse {
	return JobResponse{
		ID:        job.ID,
		Kind:      string(job.Kind),
		SpaceID:   job.SpaceID,
		UserID:    job.UserID,
		Status:    string(job.Status),
		Progress:  job.Progress,
		Options:   job.Options,
		Result:    job.Result,
		Error:     job.Error,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}
}
