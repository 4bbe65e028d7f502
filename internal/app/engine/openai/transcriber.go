package openai

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"

	"spaceworks/internal/app/audio"
	"spaceworks/internal/app/engine"
	"spaceworks/internal/app/model"
	"spaceworks/internal/app/spaces"
)

// The Whisper API does not report token usage; tokens are estimated from the
// audio length and the transcript so the ledger has something to price.
const (
	audioTokensPerSecond = 50
	charsPerTextToken    = 4
)

// Transcriber runs remote transcription against the OpenAI Whisper API.
// It is a metered engine: the outcome carries usage for the Cost Ledger.
type Transcriber struct {
	client  *openai.Client
	locator *spaces.Locator
}

// NewTranscriber creates a Transcriber.
func NewTranscriber(client *openai.Client, locator *spaces.Locator) *Transcriber {
	return &Transcriber{client: client, locator: locator}
}

// Run transcribes the job's space audio.
func (t *Transcriber) Run(ctx context.Context, job *model.Job) (*engine.Outcome, error) {
	inputPath, err := t.locator.AudioPath(job.SpaceID)
	if err != nil {
		return nil, err
	}

	req := openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: inputPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	}
	if lang := job.OptionString(model.OptionLanguage); lang != "" {
		req.Language = lang
	}

	log.Printf("transcribing space %s via whisper API\n", job.SpaceID)
	resp, err := t.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("createTranscription failed: %w", err)
	}

	result := map[string]interface{}{
		"transcript_id": uuid.New().String(),
		"text":          resp.Text,
		"language":      resp.Language,
		"duration":      resp.Duration,
	}
	if job.OptionBool(model.OptionIncludeTimecodes) {
		segments := make([]map[string]interface{}, 0, len(resp.Segments))
		for _, seg := range resp.Segments {
			segments = append(segments, map[string]interface{}{
				"start": seg.Start,
				"end":   seg.End,
				"text":  seg.Text,
			})
		}
		result["segments"] = segments
	}

	return &engine.Outcome{
		Result: result,
		Usage: &engine.Usage{
			Vendor:       "openai",
			Model:        string(openai.Whisper1),
			InputTokens:  int64(resp.Duration * audioTokensPerSecond),
			OutputTokens: int64(len(resp.Text) / charsPerTextToken),
		},
	}, nil
}

// EstimatedDuration assumes the API transcribes roughly 10x realtime.
func (t *Transcriber) EstimatedDuration(job *model.Job) float64 {
	inputPath, err := t.locator.AudioPath(job.SpaceID)
	if err != nil {
		return 120
	}
	seconds, err := audio.GetAudioDuration(inputPath)
	if err != nil || seconds <= 0 {
		return 120
	}
	return float64(seconds) / 10
}
