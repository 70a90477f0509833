package capture

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nguyentantai21042004/mdoc/internal/media"
	"github.com/nguyentantai21042004/mdoc/internal/transcribe"
)

const frameWorkers = 4

// SceneChanges returns scene triggers, or nothing when scene detection is off.
// Advanced mode lowers the threshold to catch subtler slide changes.
func (d *implDetector) SceneChanges(ctx context.Context, videoPath string, opts Options) ([]Trigger, error) {
	if !opts.UseScene {
		return nil, nil
	}
	threshold := d.cfg.SceneThreshold
	if opts.DetectionMode == ModeAdvanced && threshold > 0.15 {
		threshold -= 0.1
	}

	times, err := d.media.SceneChanges(ctx, videoPath, threshold)
	if err != nil {
		return nil, fmt.Errorf("scene changes: %w", err)
	}
	return SceneTriggers(times), nil
}

// Capture merges keyword and scene triggers, extracts a frame for every
// selected moment and OCRs it when enabled. A frame that fails to extract is
// skipped.
func (d *implDetector) Capture(ctx context.Context, videoPath string, segments []transcribe.Segment, scenes []Trigger, opts Options) (*Result, error) {
	res := &Result{}
	var triggers []Trigger

	if opts.UseSpeech {
		kw, results := KeywordTriggers(segments, d.cfg.Keywords)
		d.logger.Info(ctx, "Speech keyword triggers: %d", len(kw))
		triggers = append(triggers, kw...)
		res.KeywordResults = results
	}
	triggers = append(triggers, scenes...)

	if opts.UseMouse {
		d.logger.Warn(ctx, "Cursor tracking is not available in this build, ignoring use_mouse_detection")
	}

	selected := Select(triggers, d.cfg.MinInterval, d.cfg.MaxScreenshots)
	if len(selected) == 0 {
		d.logger.Info(ctx, "No screenshot triggers for %s", videoPath)
		return res, nil
	}

	ocr := d.cfg.OCR || opts.DetectionMode == ModeAdvanced
	shots := make([]*Screenshot, len(selected))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(frameWorkers)
	for i, t := range selected {
		g.Go(func() error {
			name := fmt.Sprintf("%03d_%s.png", i+1, media.FormatTimestamp(t.Timestamp, true))
			path := filepath.Join(opts.OutputDir, name)

			if err := d.media.ExtractFrame(gctx, videoPath, t.Timestamp, path); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				d.logger.Warn(gctx, "Skipping screenshot at %s: %v", media.FormatTimestamp(t.Timestamp, false), err)
				return nil
			}

			shot := &Screenshot{Timestamp: t.Timestamp, Reason: t.Reason, Path: path}
			if ocr {
				shot.OCRText = d.ocr(gctx, path)
			}
			shots[i] = shot
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, s := range shots {
		if s != nil {
			res.Screenshots = append(res.Screenshots, *s)
		}
	}
	d.logger.Info(ctx, "Captured %d screenshots", len(res.Screenshots))
	return res, nil
}

// ocr returns the text tesseract reads from imagePath, or "" on failure.
func (d *implDetector) ocr(ctx context.Context, imagePath string) string {
	out, err := d.executor.Execute(ctx, d.cfg.OCRBinaryPath, imagePath, "stdout", "-l", d.cfg.OCRLanguage)
	if err != nil {
		d.logger.Warn(ctx, "OCR failed for %s: %v", imagePath, err)
		return ""
	}
	return strings.Join(strings.Fields(out), " ")
}
