package openai

import (
	"github.com/sashabaranov/go-openai"
)

// NewClient builds an OpenAI API client from a token. The client is
// constructed once at process start and injected; there is no package-level
// singleton.
func NewClient(token string) *openai.Client {
	return openai.NewClient(token)
}
