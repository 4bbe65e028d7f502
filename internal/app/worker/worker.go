package worker

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"spaceworks/internal/app/engine"
	"spaceworks/internal/app/errors"
	"spaceworks/internal/app/jobstore"
	"spaceworks/internal/app/ledger"
	"spaceworks/internal/app/model"
	"spaceworks/internal/app/notify"
	"spaceworks/internal/app/storage"
)

// Progress the worker asserts at known points of the state machine. The
// estimate published between claimProgress and 100 comes from the reporter.
const (
	claimProgress    = 5
	externalBase     = 10
	externalSpan     = 85
	completeProgress = 100
)

// Options tunes the loop; zero values fall back to sensible defaults.
type Options struct {
	PollInterval     time.Duration
	ErrorBackoff     time.Duration
	ProgressInterval time.Duration
}

func (o *Options) withDefaults() {
	if o.PollInterval <= 0 {
		o.PollInterval = 5 * time.Second
	}
	if o.ErrorBackoff <= 0 {
		o.ErrorBackoff = 30 * time.Second
	}
	if o.ProgressInterval <= 0 {
		o.ProgressInterval = 30 * time.Second
	}
}

// Worker is the single consumer for one job kind. It claims the oldest
// pending job, drives it through pending → processing → terminal, and never
// runs two jobs of its kind at once.
type Worker struct {
	kind      model.JobKind
	store     *jobstore.Store
	engines   engine.Resolver
	ledger    *ledger.Ledger
	notifier  notify.Dispatcher
	artifacts storage.ArtifactStore // nil when no object store is configured
	opts      Options
}

// New builds a Worker. artifacts may be nil.
func New(kind model.JobKind, store *jobstore.Store, engines engine.Resolver, l *ledger.Ledger, notifier notify.Dispatcher, artifacts storage.ArtifactStore, opts Options) *Worker {
	opts.withDefaults()
	return &Worker{
		kind:      kind,
		store:     store,
		engines:   engines,
		ledger:    l,
		notifier:  notifier,
		artifacts: artifacts,
		opts:      opts,
	}
}

// Run polls for work until ctx is cancelled. A failure inside one job marks
// that job failed and the loop advances; a loop-level failure (store
// unavailable, unexpected panic) logs and backs off for longer so one bad
// iteration cannot crash the daemon.
func (w *Worker) Run(ctx context.Context) {
	log.Printf("%s worker started, polling every %s\n", w.kind, w.opts.PollInterval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("%s worker stopping\n", w.kind)
			return
		default:
		}

		if err := w.iterate(ctx); err != nil {
			log.Printf("%s worker iteration failed: %v\n", w.kind, err)
			w.sleep(ctx, w.opts.ErrorBackoff)
		}
	}
}

// iterate runs one poll cycle. The returned error is loop-level only;
// job-level failures are absorbed into the job record.
func (w *Worker) iterate(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in worker loop: %v", r)
		}
	}()

	pending, err := w.store.ListPending(w.kind)
	if err != nil {
		return errors.Wrap(err, "list pending jobs")
	}
	if len(pending) == 0 {
		w.sleep(ctx, w.opts.PollInterval)
		return nil
	}

	w.process(ctx, pending[0])
	return nil
}

// process drives one claimed job through the state machine. Cancellation is
// checked cooperatively at three checkpoints: before engine resolution,
// before the external call, and before the final persistence step.
func (w *Worker) process(ctx context.Context, job *model.Job) {
	jobID := job.ID
	defer func() {
		if r := recover(); r != nil {
			w.fail(ctx, jobID, fmt.Errorf("panic while processing: %v", r))
		}
	}()

	// Checkpoint 1: a job cancelled before the loop claims it is skipped
	// with zero side effects.
	if w.cancelled(ctx, jobID, false) {
		return
	}

	eng, err := w.engines.Resolve(job)
	if err != nil {
		w.fail(ctx, jobID, err)
		return
	}

	claimed, err := w.store.Update(jobID, func(j *model.Job) error {
		j.Status = model.JobStatusProcessing
		if j.Progress < claimProgress {
			j.Progress = claimProgress
		}
		return nil
	})
	if err != nil {
		// Most likely a racing direct cancellation write.
		log.Printf("claiming job %s failed: %v\n", jobID, err)
		return
	}
	job = claimed

	// Checkpoint 2: last chance to bail before the expensive call.
	if w.cancelled(ctx, jobID, true) {
		return
	}

	reporter := startProgress(w.store, jobID, externalBase, externalSpan, eng.EstimatedDuration(job), w.opts.ProgressInterval)
	// The deferred stop covers a panicking engine; Stop is idempotent.
	defer reporter.Stop()
	outcome, runErr := eng.Run(ctx, job)
	reporter.Stop()

	if runErr != nil {
		w.fail(ctx, jobID, runErr)
		return
	}

	// Checkpoint 3: the external call cannot be interrupted mid-flight, so
	// a cancellation that arrived while it ran takes effect here and the
	// work product is discarded.
	if w.cancelled(ctx, jobID, true) {
		return
	}

	result := outcome.Result
	if result == nil {
		result = map[string]interface{}{}
	}

	// Pricing happens after the external operation already ran. If the
	// debit fails the user keeps the work; the attempt stays visible in
	// the audit log and on the result payload.
	if outcome.Usage != nil {
		cost, billErr := w.ledger.TrackCost(ctx, ledger.TrackRequest{
			Actor:        model.Actor{UserID: job.UserID},
			SpaceID:      job.SpaceID,
			Action:       actionFor(job.Kind),
			Vendor:       outcome.Usage.Vendor,
			Model:        outcome.Usage.Model,
			InputTokens:  outcome.Usage.InputTokens,
			OutputTokens: outcome.Usage.OutputTokens,
			Debit:        true,
		})
		// A failed row write after a successful debit still means the user
		// was charged; only a rejected debit reports charged=false.
		charged := billErr == nil || errors.Is(billErr, errors.ErrTransactionNotRecorded)
		billing := map[string]interface{}{"charged": charged, "cost": cost}
		if billErr != nil {
			log.Printf("billing for job %s failed (work kept): %v\n", jobID, billErr)
			billing["error"] = billErr.Error()
		}
		result["billing"] = billing
	}

	if w.artifacts != nil {
		if outcome.ArtifactPath != "" {
			url, upErr := w.artifacts.UploadFile(ctx, outcome.ArtifactPath, artifactKey(job, outcome.ArtifactPath))
			if upErr != nil {
				w.fail(ctx, jobID, errors.Wrap(upErr, "store artifact"))
				return
			}
			result["artifact_url"] = url
		}
		if text, ok := result["text"].(string); ok && text != "" {
			url, upErr := w.artifacts.UploadText(ctx, transcriptKey(job), text)
			if upErr != nil {
				w.fail(ctx, jobID, errors.Wrap(upErr, "store transcript"))
				return
			}
			result["transcript_url"] = url
		}
	}

	if _, err := w.store.Update(jobID, func(j *model.Job) error {
		j.Status = model.JobStatusCompleted
		j.Progress = completeProgress
		j.Result = result
		return nil
	}); err != nil {
		w.fail(ctx, jobID, errors.Wrap(err, "persist result"))
		return
	}

	log.Printf("job %s completed\n", jobID)
	w.dispatch(ctx, job, "completed")
}

// cancelled runs one cancellation checkpoint. When markIfProcessing is set
// the job is transitioned to cancelled; for a job that was never claimed the
// direct status write already holds and nothing else is touched.
func (w *Worker) cancelled(ctx context.Context, jobID string, markIfProcessing bool) bool {
	requested, err := w.store.ConsumeCancel(jobID)
	if err != nil {
		log.Printf("cancellation check for job %s failed: %v\n", jobID, err)
		return false
	}
	if !requested {
		return false
	}
	job, err := w.store.Get(jobID)
	if err != nil {
		return true
	}
	if markIfProcessing && !job.Status.IsTerminal() {
		if _, err := w.store.Update(jobID, func(j *model.Job) error {
			j.Status = model.JobStatusCancelled
			return nil
		}); err != nil {
			log.Printf("marking job %s cancelled failed: %v\n", jobID, err)
		}
	}
	log.Printf("job %s cancelled\n", jobID)
	w.dispatch(ctx, job, "cancelled")
	return true
}

func (w *Worker) fail(ctx context.Context, jobID string, cause error) {
	log.Printf("job %s failed: %v\n", jobID, cause)
	job, err := w.store.Update(jobID, func(j *model.Job) error {
		j.Status = model.JobStatusFailed
		j.Error = cause.Error()
		return nil
	})
	if err != nil {
		log.Printf("marking job %s failed failed: %v\n", jobID, err)
		return
	}
	w.dispatch(ctx, job, "failed: "+cause.Error())
}

func (w *Worker) dispatch(ctx context.Context, job *model.Job, summary string) {
	if w.notifier == nil {
		return
	}
	if err := w.notifier.Notify(ctx, job.UserID, job.Kind, job.SpaceID, summary); err != nil {
		log.Printf("notification for job %s failed: %v\n", job.ID, err)
	}
}

func (w *Worker) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

func actionFor(kind model.JobKind) model.LedgerAction {
	switch kind {
	case model.KindTranslation:
		return model.ActionTranslation
	case model.KindVideo:
		return model.ActionVideoRender
	default:
		return model.ActionTranscription
	}
}

func artifactKey(job *model.Job, artifactPath string) string {
	return fmt.Sprintf("%s/%s/%s%s", job.Kind, job.SpaceID, job.ID, filepath.Ext(artifactPath))
}

func transcriptKey(job *model.Job) string {
	return fmt.Sprintf("%s/%s/%s.txt", job.Kind, job.SpaceID, job.ID)
}
