package worker

import (
	"log"
	"math"
	"sync"
	"time"

	"spaceworks/internal/app/jobstore"
	"spaceworks/internal/app/model"
)

// progressCeiling keeps the elapsed-time estimate from ever claiming
// completion before the real result arrives.
const progressCeiling = 0.9

// joinTimeout bounds how long stop() waits for the reporter goroutine.
const joinTimeout = 5 * time.Second

// progressReporter republishes an elapsed-time progress estimate while the
// external call is in flight. It only ever writes the progress field, never
// status or result, and it must be stopped and joined as soon as the call
// returns so it cannot outlive its job.
type progressReporter struct {
	store    *jobstore.Store
	jobID    string
	base     int
	span     int
	estimate float64 // seconds
	interval time.Duration
	started  time.Time

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// startProgress launches the reporter goroutine. base is the progress value
// at call start; base+span is what the estimate approaches (scaled by the
// ceiling) while the call runs.
func startProgress(store *jobstore.Store, jobID string, base, span int, estimateSeconds float64, interval time.Duration) *progressReporter {
	if estimateSeconds <= 0 {
		estimateSeconds = 60
	}
	r := &progressReporter{
		store:    store,
		jobID:    jobID,
		base:     base,
		span:     span,
		estimate: estimateSeconds,
		interval: interval,
		started:  time.Now(),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *progressReporter) run() {
	defer close(r.done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	last := r.base
	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			estimate := r.estimateProgress()
			if estimate <= last {
				continue // progress never goes backwards
			}
			last = estimate
			r.publish(estimate)
		}
	}
}

func (r *progressReporter) estimateProgress() int {
	elapsed := time.Since(r.started).Seconds()
	fraction := math.Min(elapsed/r.estimate, progressCeiling)
	return r.base + int(fraction*float64(r.span))
}

func (r *progressReporter) publish(progress int) {
	_, err := r.store.Update(r.jobID, func(j *model.Job) error {
		if progress > j.Progress {
			j.Progress = progress
		}
		return nil
	})
	if err != nil {
		log.Printf("progress update for job %s failed: %v\n", r.jobID, err)
	}
}

// Stop signals the reporter and waits for it to exit, bounded by
// joinTimeout. Safe to call more than once.
func (r *progressReporter) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
	select {
	case <-r.done:
	case <-time.After(joinTimeout):
		log.Printf("progress reporter for job %s did not stop within %s\n", r.jobID, joinTimeout)
	}
}
