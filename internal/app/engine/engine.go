package engine

import (
	"context"

	"spaceworks/internal/app/model"
)

// Usage reports what an external operation consumed, for pricing. Engines
// that run locally and cost nothing return a nil Usage.
type Usage struct {
	Vendor       string
	Model        string
	InputTokens  int64
	OutputTokens int64
}

// Outcome is the black-box result of one external operation.
type Outcome struct {
	// Result becomes the job's result payload; its shape depends on the
	// job kind.
	Result map[string]interface{}
	// ArtifactPath, when set, points at a local file the worker should
	// hand to the artifact store.
	ArtifactPath string
	// Usage is non-nil only for metered operations.
	Usage *Usage
}

// Engine runs the expensive external operation for one job. It may take from
// seconds to tens of minutes; it must honor ctx cancellation where the
// underlying call allows it.
type Engine interface {
	Run(ctx context.Context, job *model.Job) (*Outcome, error)
	// EstimatedDuration is the rough wall time used to drive elapsed-based
	// progress estimates while Run is in flight.
	EstimatedDuration(job *model.Job) (seconds float64)
}

// Resolver picks the engine for a job from its kind and options.
type Resolver interface {
	Resolve(job *model.Job) (Engine, error)
}
