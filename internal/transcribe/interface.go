package transcribe

import (
	"context"
	"strings"
)

// Segment is a timed piece of speech. Start and End are in seconds.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript bundles the ordered segments of one recording.
type Transcript struct {
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
	Duration float64   `json:"duration"`
}

// Text joins all segment texts with single spaces.
func (t *Transcript) Text() string {
	parts := make([]string, 0, len(t.Segments))
	for _, s := range t.Segments {
		if s.Text != "" {
			parts = append(parts, s.Text)
		}
	}
	return strings.Join(parts, " ")
}

// Empty reports whether the transcript holds no speech.
func (t *Transcript) Empty() bool {
	return t == nil || strings.TrimSpace(t.Text()) == ""
}

// Transcriber turns a 16kHz mono WAV into a transcript.
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, audioPath string) (*Transcript, error)
}
