package processor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nguyentantai21042004/mdoc/internal/capture"
	"github.com/nguyentantai21042004/mdoc/internal/media"
	"github.com/nguyentantai21042004/mdoc/internal/storage"
	"github.com/nguyentantai21042004/mdoc/internal/transcribe"
	"github.com/nguyentantai21042004/mdoc/internal/usage"
)

const processedMessage = "Video processed successfully"

func newGUID() string { return uuid.NewString() }

func (p *implProcessor) validate(req *ProcessRequest) error {
	if req.VideoPath == "" {
		return fmt.Errorf("%w: video path is required", ErrInvalidRequest)
	}
	if req.ClientName == "" {
		return fmt.Errorf("%w: client_name is required", ErrInvalidRequest)
	}
	switch req.DetectionMode {
	case "":
		req.DetectionMode = capture.ModeBasic
	case capture.ModeBasic, capture.ModeAdvanced:
	default:
		return fmt.Errorf("%w: detection_mode must be basic or advanced", ErrInvalidRequest)
	}
	if !media.HasExtension(req.VideoPath, media.WatchExtensions) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Ext(req.VideoPath))
	}
	if _, err := os.Stat(req.VideoPath); err != nil {
		return fmt.Errorf("%w: %s", ErrVideoNotFound, req.VideoPath)
	}
	return nil
}

// Process orchestrates the video pipeline: probe, audio + transcription
// alongside scene detection, screenshot capture, optional topic labelling,
// then the session is stored.
func (p *implProcessor) Process(ctx context.Context, req ProcessRequest) (*Result, error) {
	if err := p.validate(&req); err != nil {
		return nil, err
	}

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer p.sem.Release(1)

	startTime := p.now()
	guid := p.newID()
	ctx = usage.WithSession(ctx, guid)

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting video processing: %s (session %s)", req.VideoPath, guid)
	p.logger.Info(ctx, "========================================")

	info, err := p.deps.Media.Probe(ctx, req.VideoPath)
	if err != nil {
		return nil, fmt.Errorf("probe video: %w", err)
	}

	workDir := filepath.Join(p.cfg.Paths.Temp, guid)
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer p.cleanupDir(ctx, workDir)

	opts := capture.Options{
		DetectionMode: req.DetectionMode,
		UseSpeech:     req.UseSpeech,
		UseScene:      req.UseScene,
		UseMouse:      req.UseMouse,
		OutputDir:     p.screenshotDir(guid),
	}
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("create screenshot dir: %w", err)
	}

	var (
		transcript *transcribe.Transcript
		scenes     []capture.Trigger
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := p.transcribe(gctx, req.VideoPath, workDir)
		if err != nil {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			p.logger.Warn(ctx, "Transcription failed, continuing without speech: %v", err)
		}
		if t == nil {
			t = &transcribe.Transcript{}
		}
		transcript = t
		return nil
	})
	g.Go(func() error {
		s, err := p.deps.Capture.SceneChanges(gctx, req.VideoPath, opts)
		if err != nil {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			p.logger.Warn(ctx, "Scene detection failed: %v", err)
		}
		scenes = s
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if transcript.Duration == 0 {
		transcript.Duration = info.Duration
	}

	captured, err := p.deps.Capture.Capture(ctx, req.VideoPath, transcript.Segments, scenes, opts)
	if err != nil {
		return nil, fmt.Errorf("capture screenshots: %w", err)
	}

	keywords := captured.KeywordResults
	if req.UseAI && len(keywords) > 0 && p.deps.Analyzer.Available() {
		labelled, err := p.deps.Analyzer.Topics(ctx, keywords)
		if err != nil {
			p.logger.Warn(ctx, "Topic labelling failed: %v", err)
		} else {
			keywords = labelled
		}
	}

	sess := &storage.Session{
		GUID:           guid,
		VideoPath:      req.VideoPath,
		ClientName:     req.ClientName,
		VideoInfo:      info,
		Transcript:     transcript,
		Screenshots:    captured.Screenshots,
		KeywordResults: keywords,
		ProcessingTime: math.Round(p.now().Sub(startTime).Seconds()*100) / 100,
		CreatedAt:      startTime,
	}
	if err := p.deps.Sessions.SaveSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing completed: %d segments, %d screenshots", len(transcript.Segments), len(sess.Screenshots))
	p.logger.Info(ctx, "Processing time: %s", time.Duration(sess.ProcessingTime*float64(time.Second)))
	p.logger.Info(ctx, "========================================")

	return &Result{Session: sess, Message: processedMessage}, nil
}

func (p *implProcessor) transcribe(ctx context.Context, videoPath, workDir string) (*transcribe.Transcript, error) {
	audioPath, err := p.deps.Media.ExtractAudio(ctx, videoPath, workDir)
	if err != nil {
		return nil, fmt.Errorf("extract audio: %w", err)
	}
	defer p.cleanupTempFile(ctx, audioPath)

	t, err := p.deps.Transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}
	return t, nil
}

func (p *implProcessor) sessionDir(guid string) string {
	return filepath.Join(p.cfg.Paths.Output, "sessions", guid)
}

func (p *implProcessor) screenshotDir(guid string) string {
	return filepath.Join(p.sessionDir(guid), "screenshots")
}

func (p *implProcessor) Session(ctx context.Context, guid string) (*storage.Session, error) {
	sess, err := p.deps.Sessions.GetSession(ctx, guid)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, guid)
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (p *implProcessor) Sessions(ctx context.Context, limit int) ([]*storage.Session, error) {
	return p.deps.Sessions.ListSessions(ctx, limit)
}

func (p *implProcessor) DeleteSession(ctx context.Context, guid string) error {
	if guid == "" || filepath.Base(guid) != guid || guid == "." || guid == ".." {
		return fmt.Errorf("%w: bad session guid %q", ErrInvalidRequest, guid)
	}
	err := p.deps.Sessions.DeleteSession(ctx, guid)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, guid)
	}
	if err != nil {
		return err
	}
	p.cleanupDir(ctx, p.sessionDir(guid))
	p.logger.Info(ctx, "Deleted session %s", guid)
	return nil
}

func (p *implProcessor) Usage(ctx context.Context, since time.Time) ([]usage.Total, error) {
	return p.deps.Usage.Summary(ctx, since)
}
