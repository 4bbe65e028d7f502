package model

import "time"

// JobKind discriminates what a job record asks for. The kind is embedded in
// the record itself, so one flat jobs directory serves every worker.
type JobKind string

const (
	KindTranscription JobKind = "transcription"
	KindTranslation   JobKind = "translation"
	KindVideo         JobKind = "video"
)

// ParseKind validates a raw kind string against the known job kinds.
func ParseKind(raw string) (JobKind, bool) {
	switch JobKind(raw) {
	case KindTranscription, KindTranslation, KindVideo:
		return JobKind(raw), true
	}
	return "", false
}

// JobStatus is the job state machine: pending → processing → one of the
// three terminal states.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// IsTerminal reports whether a job in this status can never change again.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}

// Well-known option keys. Options is an open map; engines read the keys they
// understand and ignore the rest.
const (
	OptionModel            = "model"
	OptionEngine           = "engine"
	OptionLanguage         = "language"
	OptionTranslateTo      = "translate_to"
	OptionOverwrite        = "overwrite"
	OptionIncludeTimecodes = "include_timecodes"
)

// Job is the persisted record for one unit of asynchronous work. Instances
// round-trip through JSON files, one file per job.
type Job struct {
	ID       string    `json:"id"`
	Kind     JobKind   `json:"kind"`
	SpaceID  string    `json:"space_id"`
	UserID   string    `json:"user_id,omitempty"`
	Status   JobStatus `json:"status"`
	Progress int       `json:"progress"`

	Options map[string]interface{} `json:"options,omitempty"`
	Result  map[string]interface{} `json:"result,omitempty"`
	Error   string                 `json:"error,omitempty"`

	// CancelRequested is set on a processing job and consumed by its worker
	// at the next cancellation checkpoint.
	CancelRequested bool `json:"cancel_requested,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OptionString reads a string option, returning "" when absent or not a
// string.
func (j *Job) OptionString(key string) string {
	if j.Options == nil {
		return ""
	}
	if v, ok := j.Options[key].(string); ok {
		return v
	}
	return ""
}

// OptionBool reads a boolean option, returning false when absent or not a
// bool.
func (j *Job) OptionBool(key string) bool {
	if j.Options == nil {
		return false
	}
	if v, ok := j.Options[key].(bool); ok {
		return v
	}
	return false
}
