package transcribe

import (
	"context"
	"errors"
	"fmt"

	"github.com/nguyentantai21042004/mdoc/internal/logger"
)

// ErrNoTranscript is returned when every backend failed or heard nothing.
var ErrNoTranscript = errors.New("no transcript produced")

type chain struct {
	backends []Transcriber
	detector LanguageDetector
	logger   logger.Logger
}

// NewChain tries each backend in order and returns the first non-empty
// transcript. When a detector is given its language name replaces the code the
// backend reported.
func NewChain(log logger.Logger, detector LanguageDetector, backends ...Transcriber) Transcriber {
	return &chain{backends: backends, detector: detector, logger: log}
}

func (c *chain) Name() string { return "chain" }

func (c *chain) Transcribe(ctx context.Context, audioPath string) (*Transcript, error) {
	var errs []error
	for _, b := range c.backends {
		t, err := b.Transcribe(ctx, audioPath)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn(ctx, "Transcriber %s failed: %v", b.Name(), err)
			errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
			continue
		}
		if t.Empty() {
			c.logger.Warn(ctx, "Transcriber %s returned empty text", b.Name())
			errs = append(errs, fmt.Errorf("%s: empty transcript", b.Name()))
			continue
		}

		if c.detector != nil {
			if lang, ok := c.detector.Detect(t.Text()); ok {
				t.Language = lang
			}
		}
		return t, nil
	}

	return nil, fmt.Errorf("%w: %w", ErrNoTranscript, errors.Join(errs...))
}
