package engine

import (
	"spaceworks/internal/app/errors"
	"spaceworks/internal/app/model"
)

// Registry resolves jobs to engines by kind, with transcription split
// between a remote metered engine and a free local one selected via the
// job's engine/model options.
type Registry struct {
	RemoteTranscriber Engine
	LocalTranscriber  Engine
	Translator        Engine
	VideoRenderer     Engine
}

// localModels are whisper.cpp model names; a job asking for one of these is
// routed to the local engine even without an explicit engine option.
var localModels = map[string]bool{
	"tiny": true, "tiny.en": true,
	"base": true, "base.en": true,
	"small": true, "small.en": true,
	"medium": true, "medium.en": true,
	"large": true,
}

// Resolve picks the engine for a job.
func (r *Registry) Resolve(job *model.Job) (Engine, error) {
	switch job.Kind {
	case model.KindTranscription:
		if r.useLocal(job) {
			if r.LocalTranscriber == nil {
				return nil, errors.Wrap(errors.ErrUnsupportedEngine, "local transcription is not configured")
			}
			return r.LocalTranscriber, nil
		}
		if r.RemoteTranscriber == nil {
			return nil, errors.Wrap(errors.ErrUnsupportedEngine, "remote transcription is not configured")
		}
		return r.RemoteTranscriber, nil
	case model.KindTranslation:
		if r.Translator == nil {
			return nil, errors.Wrap(errors.ErrUnsupportedEngine, "translation is not configured")
		}
		return r.Translator, nil
	case model.KindVideo:
		if r.VideoRenderer == nil {
			return nil, errors.Wrap(errors.ErrUnsupportedEngine, "video rendering is not configured")
		}
		return r.VideoRenderer, nil
	}
	return nil, errors.Wrapf(errors.ErrUnknownKind, "%q", job.Kind)
}

func (r *Registry) useLocal(job *model.Job) bool {
	switch job.OptionString(model.OptionEngine) {
	case "local":
		return true
	case "openai", "remote":
		return false
	}
	return localModels[job.OptionString(model.OptionModel)]
}
