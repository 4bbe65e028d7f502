package jobstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"spaceworks/internal/app/errors"
	"spaceworks/internal/app/model"
)

// Store persists one JSON file per job under a single directory. Records are
// rewritten whole on update; there is no file locking, so each job kind must
// have at most one writer (its worker loop) at a time.
type Store struct {
	dir string
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create jobs directory %s", dir)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory the store writes to.
func (s *Store) Dir() string {
	return s.dir
}

// Create allocates a fresh job record with status pending and progress 0.
func (s *Store) Create(kind model.JobKind, spaceID, userID string, options map[string]interface{}) (*model.Job, error) {
	if _, ok := model.ParseKind(string(kind)); !ok {
		return nil, errors.Wrapf(errors.ErrUnknownKind, "%q", kind)
	}
	now := time.Now().UTC()
	job := &model.Job{
		ID:        uuid.New().String(),
		Kind:      kind,
		SpaceID:   spaceID,
		UserID:    userID,
		Status:    model.JobStatusPending,
		Progress:  0,
		Options:   options,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.write(job); err != nil {
		return nil, err
	}
	return job, nil
}

// Get reads a single job record.
func (s *Store) Get(jobID string) (*model.Job, error) {
	data, err := os.ReadFile(s.path(jobID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrJobNotFound, "%s", jobID)
		}
		return nil, errors.Wrapf(err, "read job %s", jobID)
	}
	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, errors.Wrapf(err, "decode job %s", jobID)
	}
	return &job, nil
}

// Update performs a read-modify-write merge on the record and rewrites
// updated_at. Jobs already in a terminal status are immutable and Update
// returns ErrJobTerminal for them.
func (s *Store) Update(jobID string, mutate func(*model.Job) error) (*model.Job, error) {
	job, err := s.Get(jobID)
	if err != nil {
		return nil, err
	}
	if job.Status.IsTerminal() {
		return nil, errors.Wrapf(errors.ErrJobTerminal, "%s is %s", jobID, job.Status)
	}
	if err := mutate(job); err != nil {
		return nil, err
	}
	job.UpdatedAt = time.Now().UTC()
	if err := s.write(job); err != nil {
		return nil, err
	}
	return job, nil
}

// ListPending returns the pending jobs of one kind ordered by created_at
// ascending, so the oldest job is always claimed first.
func (s *Store) ListPending(kind model.JobKind) ([]*model.Job, error) {
	return s.List(kind, model.JobStatusPending)
}

// List returns jobs filtered by kind and status; either filter may be empty.
// Results are ordered by created_at ascending with the id as tiebreaker.
func (s *Store) List(kind model.JobKind, status model.JobStatus) ([]*model.Job, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(err, "list jobs directory")
	}
	jobs := make([]*model.Job, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		job, err := s.Get(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			// A half-written record from a crashed producer should not
			// take down the whole listing.
			continue
		}
		if kind != "" && job.Kind != kind {
			continue
		}
		if status != "" && job.Status != status {
			continue
		}
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].ID < jobs[j].ID
		}
		return jobs[i].CreatedAt.Before(jobs[j].CreatedAt)
	})
	return jobs, nil
}

// RequestCancel marks a job for cooperative cancellation. A job that has not
// been claimed yet is cancelled immediately; a processing job gets the
// cancel_requested flag, which its worker consumes at the next checkpoint.
// Cancelling a terminal job is a no-op.
func (s *Store) RequestCancel(jobID string) (*model.Job, error) {
	job, err := s.Get(jobID)
	if err != nil {
		return nil, err
	}
	if job.Status.IsTerminal() {
		return job, nil
	}
	return s.Update(jobID, func(j *model.Job) error {
		if j.Status == model.JobStatusPending {
			j.Status = model.JobStatusCancelled
			j.CancelRequested = false
			return nil
		}
		j.CancelRequested = true
		return nil
	})
}

// ConsumeCancel is the single accessor worker checkpoints use. It reports
// whether cancellation was requested, either by a direct status write or via
// the embedded flag, and clears the flag once consumed.
func (s *Store) ConsumeCancel(jobID string) (bool, error) {
	job, err := s.Get(jobID)
	if err != nil {
		return false, err
	}
	if job.Status == model.JobStatusCancelled {
		return true, nil
	}
	if !job.CancelRequested {
		return false, nil
	}
	if _, err := s.Update(jobID, func(j *model.Job) error {
		j.CancelRequested = false
		return nil
	}); err != nil {
		return true, err
	}
	return true, nil
}

func (s *Store) path(jobID string) string {
	return filepath.Join(s.dir, jobID+".json")
}

// write replaces the record atomically via a temp file and rename, so a
// reader never observes a half-written job.
func (s *Store) write(job *model.Job) error {
	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encode job %s", job.ID)
	}
	tmp, err := os.CreateTemp(s.dir, fmt.Sprintf(".%s-*.tmp", job.ID))
	if err != nil {
		return errors.Wrap(err, "create temp job file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, "write job %s", job.ID)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "close job %s", job.ID)
	}
	if err := os.Rename(tmpName, s.path(job.ID)); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "persist job %s", job.ID)
	}
	return nil
}
