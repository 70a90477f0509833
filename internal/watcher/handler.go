package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/mdoc/internal/analysis"
	"github.com/nguyentantai21042004/mdoc/internal/capture"
	"github.com/nguyentantai21042004/mdoc/internal/config"
	"github.com/nguyentantai21042004/mdoc/internal/document"
	"github.com/nguyentantai21042004/mdoc/internal/llm"
	"github.com/nguyentantai21042004/mdoc/internal/logger"
	"github.com/nguyentantai21042004/mdoc/internal/processor"
)

// NewInboxHandler processes a dropped video, writes a meeting summary to the
// output folder and archives the source. Without a configured LLM the session
// is still stored and the video archived.
func NewInboxHandler(cfg *config.Config, proc processor.Processor, log logger.Logger) (EventHandler, error) {
	format, err := document.ParseFormat(cfg.Watcher.Format)
	if err != nil {
		return nil, fmt.Errorf("watcher format: %w", err)
	}
	inputDir := cfg.Paths.Input

	return func(ctx context.Context, filePath string) error {
		client := ClientName(inputDir, filePath, cfg.Watcher.Client)

		res, err := proc.Process(ctx, processor.ProcessRequest{
			VideoPath:     filePath,
			ClientName:    client,
			DetectionMode: capture.ModeBasic,
			UseSpeech:     true,
			UseAI:         true,
		})
		if err != nil {
			return fmt.Errorf("process: %w", err)
		}

		gen, err := proc.Generate(ctx, processor.GenerateRequest{
			DocType:            analysis.MeetingSummary,
			Title:              strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath)),
			Format:             format,
			SessionGUID:        res.Session.GUID,
			MissingQuestions:   true,
			ProcessMap:         true,
			IncludeScreenshots: true,
			OutputDir:          cfg.Paths.Output,
		})
		switch {
		case errors.Is(err, llm.ErrNotConfigured):
			log.Warn(ctx, "LLM not configured, session %s stored without a document", res.Session.GUID)
		case err != nil:
			return fmt.Errorf("generate: %w", err)
		default:
			log.Info(ctx, "Output document: %s", gen.File.Path)
		}

		if _, err := proc.Archive(ctx, filePath); err != nil {
			log.Warn(ctx, "Failed to move original to archived folder: %v", err)
		}
		return nil
	}, nil
}

// ClientName is the inbox sub-folder a file was dropped into, or fallback
// for files directly in the inbox.
func ClientName(inputDir, filePath, fallback string) string {
	rel, err := filepath.Rel(filepath.Clean(inputDir), filepath.Dir(filePath))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fallback
	}
	first, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	return first
}
