package worker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spaceworks/internal/app/jobstore"
	"spaceworks/internal/app/model"
)

// TestProgressReporterAdvances: with a short estimate the reporter pushes
// progress above the base and stays within base+span.
func TestProgressReporterAdvances(t *testing.T) {
	store, err := jobstore.New(t.TempDir())
	require.NoError(t, err)

	job, err := store.Create(model.KindTranscription, "space-1", "user-1", nil)
	require.NoError(t, err)
	_, err = store.Update(job.ID, func(j *model.Job) error {
		j.Status = model.JobStatusProcessing
		j.Progress = externalBase
		return nil
	})
	require.NoError(t, err)

	reporter := startProgress(store, job.ID, externalBase, externalSpan, 0.1, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	reporter.Stop()

	got, err := store.Get(job.ID)
	require.NoError(t, err)
	assert.Greater(t, got.Progress, externalBase)
	assert.LessOrEqual(t, got.Progress, externalBase+externalSpan)
	// Status and result are never the reporter's to touch.
	assert.Equal(t, model.JobStatusProcessing, got.Status)
	assert.Nil(t, got.Result)
}

// TestProgressReporterCeiling: a long-overdue estimate saturates below the
// top of the span so the estimate never claims completion.
func TestProgressReporterCeiling(t *testing.T) {
	store, err := jobstore.New(t.TempDir())
	require.NoError(t, err)

	job, err := store.Create(model.KindTranscription, "space-1", "user-1", nil)
	require.NoError(t, err)
	_, err = store.Update(job.ID, func(j *model.Job) error {
		j.Status = model.JobStatusProcessing
		return nil
	})
	require.NoError(t, err)

	// Estimate of 10ms is long past after 100ms; the ceiling caps the value.
	reporter := startProgress(store, job.ID, externalBase, externalSpan, 0.01, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	reporter.Stop()

	got, err := store.Get(job.ID)
	require.NoError(t, err)
	span := float64(externalSpan)
	want := externalBase + int(progressCeiling*span)
	assert.Equal(t, want, got.Progress)
	assert.Less(t, got.Progress, completeProgress)
}

// TestProgressNeverDecreases: a record that already advanced past the
// estimate keeps its higher value.
func TestProgressNeverDecreases(t *testing.T) {
	store, err := jobstore.New(t.TempDir())
	require.NoError(t, err)

	job, err := store.Create(model.KindTranscription, "space-1", "user-1", nil)
	require.NoError(t, err)
	_, err = store.Update(job.ID, func(j *model.Job) error {
		j.Status = model.JobStatusProcessing
		j.Progress = 80
		return nil
	})
	require.NoError(t, err)

	// A fresh reporter starts estimating from externalBase, well below 80.
	reporter := startProgress(store, job.ID, externalBase, externalSpan, 10, 10*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	reporter.Stop()

	got, err := store.Get(job.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, got.Progress, 80)
}

// TestProgressReporterStopIsIdempotent: a second Stop returns immediately
// instead of panicking on a closed channel.
func TestProgressReporterStopIsIdempotent(t *testing.T) {
	store, err := jobstore.New(t.TempDir())
	require.NoError(t, err)

	job, err := store.Create(model.KindTranscription, "space-1", "user-1", nil)
	require.NoError(t, err)

	reporter := startProgress(store, job.ID, externalBase, externalSpan, 1, time.Second)
	reporter.Stop()
	assert.NotPanics(t, func() { reporter.Stop() })
}

// TestProgressReporterStopsPromptly: Stop joins the goroutine without
// waiting out the tick interval.
func TestProgressReporterStopsPromptly(t *testing.T) {
	store, err := jobstore.New(t.TempDir())
	require.NoError(t, err)

	job, err := store.Create(model.KindTranscription, "space-1", "user-1", nil)
	require.NoError(t, err)

	reporter := startProgress(store, job.ID, externalBase, externalSpan, 60, time.Minute)
	start := time.Now()
	reporter.Stop()
	assert.Less(t, time.Since(start), time.Second)

	select {
	case <-reporter.done:
	default:
		t.Fatal("reporter goroutine still running after Stop")
	}
}
