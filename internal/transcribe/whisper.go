package transcribe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/mdoc/internal/config"
	"github.com/nguyentantai21042004/mdoc/internal/logger"
	"github.com/nguyentantai21042004/mdoc/internal/usage"
	"github.com/nguyentantai21042004/mdoc/pkg/executor"
)

type whisperCLI struct {
	cfg      config.WhisperConfig
	executor executor.Executor
	tracker  usage.Tracker
	logger   logger.Logger
}

// NewWhisperCLI creates a Transcriber backed by the whisper.cpp binary.
func NewWhisperCLI(cfg config.WhisperConfig, exec executor.Executor, tracker usage.Tracker, log logger.Logger) Transcriber {
	return &whisperCLI{
		cfg:      cfg,
		executor: exec,
		tracker:  tracker,
		logger:   log,
	}
}

func (w *whisperCLI) Name() string { return usage.ServiceWhisperLocal }

// Transcribe runs whisper.cpp with SRT output and parses the result.
func (w *whisperCLI) Transcribe(ctx context.Context, audioPath string) (*Transcript, error) {
	// Whisper appends .srt to the prefix
	outputPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))

	w.logger.Info(ctx, "Starting transcription with %d threads: %s", w.cfg.Threads, audioPath)

	// -ml 0 / -mc 0: no segment length or context limit, better for long meetings
	// -bo 5: best of 5 candidates
	args := []string{
		"-m", w.cfg.ModelPath,
		"-f", audioPath,
		"-osrt",
		"-l", w.cfg.Language,
		"-t", strconv.Itoa(w.cfg.Threads),
		"-ml", "0",
		"-mc", "0",
		"-bo", "5",
		"--output-file", outputPrefix,
	}
	if w.cfg.Prompt != "" {
		args = append(args, "--prompt", w.cfg.Prompt)
	}
	if !w.cfg.UseGPU {
		args = append(args, "-ng")
	}

	if _, err := w.executor.Execute(ctx, w.cfg.BinaryPath, args...); err != nil {
		return nil, fmt.Errorf("whisper transcribe: %w", err)
	}

	srtPath := outputPrefix + ".srt"
	defer os.Remove(srtPath)

	content, err := os.ReadFile(srtPath)
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}

	segments, err := ParseSRT(string(content))
	if err != nil {
		return nil, fmt.Errorf("parse whisper output: %w", err)
	}

	t := &Transcript{Segments: segments}
	if n := len(segments); n > 0 {
		t.Duration = segments[n-1].End
	}
	if w.cfg.Language != "auto" {
		t.Language = w.cfg.Language
	}

	w.tracker.Transcription(ctx, w.Name(), filepath.Base(w.cfg.ModelPath), t.Duration)
	w.logger.Info(ctx, "Transcription completed: %d segments", len(segments))
	return t, nil
}
