// Package usage estimates and records what each external AI call costs.
package usage

import (
	"context"
	"time"
)

const (
	ServiceGemini       = "gemini"
	ServiceWhisperLocal = "whisper-local"
	ServiceWhisperAPI   = "whisper-api"
)

// Entry is one billable call.
type Entry struct {
	Service      string    `json:"service"`
	Model        string    `json:"model"`
	Operation    string    `json:"operation"`
	SessionGUID  string    `json:"session_guid,omitempty"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	AudioSeconds float64   `json:"audio_seconds"`
	Cost         float64   `json:"cost"`
	CreatedAt    time.Time `json:"created_at"`
}

// Total aggregates entries for one service/model pair.
type Total struct {
	Service      string  `json:"service"`
	Model        string  `json:"model"`
	Calls        int     `json:"calls"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	AudioSeconds float64 `json:"audio_seconds"`
	Cost         float64 `json:"cost"`
}

// Store persists entries.
type Store interface {
	RecordUsage(ctx context.Context, e Entry) error
	UsageSummary(ctx context.Context, since time.Time) ([]Total, error)
}

// Tracker prices calls and hands them to a Store. Recording never fails the
// caller; problems are logged.
type Tracker interface {
	LLM(ctx context.Context, operation, model string, inputTokens, outputTokens int)
	Transcription(ctx context.Context, service, model string, audioSeconds float64)
	Summary(ctx context.Context, since time.Time) ([]Total, error)
}

type sessionKey struct{}

// WithSession attributes calls made with ctx to a session.
func WithSession(ctx context.Context, guid string) context.Context {
	return context.WithValue(ctx, sessionKey{}, guid)
}

// SessionFrom returns the session set by WithSession.
func SessionFrom(ctx context.Context) string {
	guid, _ := ctx.Value(sessionKey{}).(string)
	return guid
}
