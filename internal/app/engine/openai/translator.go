package openai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"spaceworks/internal/app/engine"
	"spaceworks/internal/app/errors"
	"spaceworks/internal/app/model"
)

const defaultTranslationModel = openai.GPT4oMini

// Translator translates transcript text via chat completions. Usage comes
// straight from the API response, so ledger pricing is exact.
type Translator struct {
	client *openai.Client
}

// NewTranslator creates a Translator.
func NewTranslator(client *openai.Client) *Translator {
	return &Translator{client: client}
}

// Run translates the transcript text carried in the job options.
func (t *Translator) Run(ctx context.Context, job *model.Job) (*engine.Outcome, error) {
	text := job.OptionString("text")
	if text == "" {
		return nil, errors.Wrap(errors.ErrUnsupportedEngine, "translation job has no transcript text")
	}
	target := job.OptionString(model.OptionTranslateTo)
	if target == "" {
		return nil, errors.Wrap(errors.ErrUnsupportedEngine, "translation job has no target language")
	}
	chatModel := job.OptionString(model.OptionModel)
	if chatModel == "" {
		chatModel = defaultTranslationModel
	}

	prompt := fmt.Sprintf("Translate the following transcript into %s. Preserve speaker turns and line breaks. Output only the translation.\n\n%s", target, text)
	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("createChatCompletion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	return &engine.Outcome{
		Result: map[string]interface{}{
			"translated_text": resp.Choices[0].Message.Content,
			"translate_to":    target,
			"model":           chatModel,
		},
		Usage: &engine.Usage{
			Vendor:       "openai",
			Model:        chatModel,
			InputTokens:  int64(resp.Usage.PromptTokens),
			OutputTokens: int64(resp.Usage.CompletionTokens),
		},
	}, nil
}

// EstimatedDuration scales with the transcript length; chat completions are
// fast relative to transcription.
func (t *Translator) EstimatedDuration(job *model.Job) float64 {
	n := len(job.OptionString("text"))
	est := float64(n) / 500
	if est < 10 {
		est = 10
	}
	return est
}
