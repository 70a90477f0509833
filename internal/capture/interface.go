package capture

import (
	"context"

	"github.com/nguyentantai21042004/mdoc/internal/transcribe"
)

const (
	ModeBasic    = "basic"
	ModeAdvanced = "advanced"
)

// Screenshot is a frame grabbed from the recording.
type Screenshot struct {
	Timestamp float64 `json:"timestamp"`
	Reason    string  `json:"reason"`
	Path      string  `json:"path,omitempty"`
	OCRText   string  `json:"ocr_text,omitempty"`
}

// KeywordResult is a transcript line that mentioned something on screen.
type KeywordResult struct {
	Keyword   string  `json:"keyword"`
	Timestamp float64 `json:"timestamp"`
	Text      string  `json:"text"`
	Topic     string  `json:"topic,omitempty"`
}

// Trigger is a candidate moment for a screenshot.
type Trigger struct {
	Timestamp float64
	Reason    string
}

// Options select which heuristics run for one video.
type Options struct {
	DetectionMode string
	UseSpeech     bool
	UseScene      bool
	UseMouse      bool
	// OutputDir receives the PNG files.
	OutputDir string
}

// Result is what Capture found.
type Result struct {
	Screenshots    []Screenshot
	KeywordResults []KeywordResult
}

// Detector picks and extracts screenshots for a video.
type Detector interface {
	// SceneChanges runs only the scene heuristic so it can overlap with
	// transcription.
	SceneChanges(ctx context.Context, videoPath string, opts Options) ([]Trigger, error)
	Capture(ctx context.Context, videoPath string, segments []transcribe.Segment, scenes []Trigger, opts Options) (*Result, error)
}
