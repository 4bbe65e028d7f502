package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spaceworks/internal/app/errors"
	"spaceworks/internal/app/model"
)

type stubEngine struct{ name string }

func (s *stubEngine) Run(_ context.Context, _ *model.Job) (*Outcome, error) { return &Outcome{}, nil }
func (s *stubEngine) EstimatedDuration(_ *model.Job) float64                { return 1 }

// TestResolve routes each kind and the engine/model options to the right
// engine.
func TestResolve(t *testing.T) {
	remote := &stubEngine{name: "remote"}
	local := &stubEngine{name: "local"}
	translator := &stubEngine{name: "translator"}
	renderer := &stubEngine{name: "renderer"}
	registry := &Registry{
		RemoteTranscriber: remote,
		LocalTranscriber:  local,
		Translator:        translator,
		VideoRenderer:     renderer,
	}

	tests := []struct {
		name    string
		kind    model.JobKind
		options map[string]interface{}
		want    Engine
	}{
		{
			name: "transcription_defaults_to_remote",
			kind: model.KindTranscription,
			want: remote,
		},
		{
			name:    "engine_option_local",
			kind:    model.KindTranscription,
			options: map[string]interface{}{model.OptionEngine: "local"},
			want:    local,
		},
		{
			name:    "local_model_name_routes_local",
			kind:    model.KindTranscription,
			options: map[string]interface{}{model.OptionModel: "base.en"},
			want:    local,
		},
		{
			name:    "explicit_remote_wins_over_model_name",
			kind:    model.KindTranscription,
			options: map[string]interface{}{model.OptionEngine: "remote", model.OptionModel: "base"},
			want:    remote,
		},
		{
			name: "translation",
			kind: model.KindTranslation,
			want: translator,
		},
		{
			name: "video",
			kind: model.KindVideo,
			want: renderer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := registry.Resolve(&model.Job{Kind: tt.kind, Options: tt.options})
			require.NoError(t, err)
			assert.Same(t, tt.want, got)
		})
	}
}

// TestResolveUnconfigured: a missing engine is an error, not a nil engine.
func TestResolveUnconfigured(t *testing.T) {
	registry := &Registry{}

	for _, kind := range []model.JobKind{model.KindTranscription, model.KindTranslation, model.KindVideo} {
		_, err := registry.Resolve(&model.Job{Kind: kind})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrUnsupportedEngine)
	}
}

// TestResolveUnknownKind rejects kinds outside the state machine.
func TestResolveUnknownKind(t *testing.T) {
	registry := &Registry{}
	_, err := registry.Resolve(&model.Job{Kind: model.JobKind("summarize")})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnknownKind)
}
