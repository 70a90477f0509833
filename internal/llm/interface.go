package llm

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured means no API key is available.
	ErrNotConfigured = errors.New("llm not configured")
	// ErrEmptyResponse means the model returned no text.
	ErrEmptyResponse = errors.New("empty response from model")
	// ErrKeysExhausted means every key was rate limited.
	ErrKeysExhausted = errors.New("all API keys exhausted")
)

// Request is one prompt. Operation labels the call in the usage ledger.
type Request struct {
	Operation   string
	System      string
	Prompt      string
	Temperature float32
	JSON        bool
}

// Response is the model's reply with token accounting.
type Response struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
}

// Client sends prompts to a language model.
type Client interface {
	Available() bool
	Generate(ctx context.Context, req Request) (*Response, error)
}
