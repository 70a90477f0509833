package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/nguyentantai21042004/mdoc/internal/analysis"
	"github.com/nguyentantai21042004/mdoc/internal/capture"
	"github.com/nguyentantai21042004/mdoc/internal/config"
	"github.com/nguyentantai21042004/mdoc/internal/diagram"
	"github.com/nguyentantai21042004/mdoc/internal/document"
	"github.com/nguyentantai21042004/mdoc/internal/httpapi"
	"github.com/nguyentantai21042004/mdoc/internal/llm"
	"github.com/nguyentantai21042004/mdoc/internal/logger"
	"github.com/nguyentantai21042004/mdoc/internal/media"
	"github.com/nguyentantai21042004/mdoc/internal/processor"
	"github.com/nguyentantai21042004/mdoc/internal/storage"
	"github.com/nguyentantai21042004/mdoc/internal/transcribe"
	"github.com/nguyentantai21042004/mdoc/internal/usage"
	"github.com/nguyentantai21042004/mdoc/internal/watcher"
	"github.com/nguyentantai21042004/mdoc/pkg/executor"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "mdoc: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.NewWithFormat(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info(ctx, "========================================")
	log.Info(ctx, "%s", cfg.Server.ServiceName)
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s, CPU cores: %d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	log.Info(ctx, "Max Concurrent Processing: %d", cfg.Performance.MaxConcurrent)

	if err := ensureDirectories(cfg); err != nil {
		return err
	}

	store, err := storage.New(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	tracker := usage.NewTracker(store, cfg.Pricing, log)
	exec := executor.New()
	toolkit := media.New(cfg.FFmpeg, exec, log)

	client := llm.NewGemini(cfg.Gemini, tracker, log)
	if !client.Available() {
		log.Warn(ctx, "No Gemini API key configured: AI analysis and document generation are disabled")
	}

	proc := processor.New(cfg, processor.Deps{
		Media:       toolkit,
		Transcriber: newTranscriber(cfg, exec, toolkit, tracker, log),
		Capture:     capture.New(cfg.Capture, toolkit, exec, log),
		Analyzer:    analysis.New(client, log),
		Diagrams:    diagram.NewRenderer(cfg.Diagram, exec, log),
		Documents:   document.NewRenderer(cfg.Document, log),
		Sessions:    store,
		Usage:       tracker,
	}, log)

	var inbox watcher.Watcher
	if cfg.Server.EnableWatcher {
		handler, err := watcher.NewInboxHandler(cfg, proc, log)
		if err != nil {
			return err
		}
		inbox, err = watcher.New(cfg.Paths.Input, handler, log, cfg.Performance.MaxConcurrent)
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer inbox.Stop()
	}

	g, gctx := errgroup.WithContext(ctx)

	srv := httpapi.NewServer(cfg, proc, log)
	g.Go(func() error {
		return srv.Run(gctx, cfg.Server.Addr)
	})
	if inbox != nil {
		g.Go(func() error {
			if err := inbox.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("watcher: %w", err)
			}
			return nil
		})
		log.Info(ctx, "Monitoring inbox: %s", cfg.Paths.Input)
	}

	log.Info(ctx, "Transcription backend: %s, diagram renderer: %s", cfg.Whisper.Backend, cfg.Diagram.Renderer)
	log.Info(ctx, "Output: %s", cfg.Paths.Output)
	log.Info(ctx, "Press Ctrl+C to stop")

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info(context.Background(), "%s stopped", cfg.Server.ServiceName)
	return nil
}

// newTranscriber builds the backend chain for whisper.backend: the local
// whisper.cpp binary, the hosted API, or local first with the API behind it.
func newTranscriber(cfg *config.Config, exec executor.Executor, tk media.Toolkit, tracker usage.Tracker, log logger.Logger) transcribe.Transcriber {
	local := func() transcribe.Transcriber {
		return transcribe.NewWhisperCLI(cfg.Whisper, exec, tracker, log)
	}
	api := func() transcribe.Transcriber {
		return transcribe.NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.ChunkSeconds, cfg.Whisper.Language, cfg.Whisper.Prompt, tk, tracker, log)
	}

	var backends []transcribe.Transcriber
	switch cfg.Whisper.Backend {
	case "openai":
		backends = append(backends, api())
	case "auto":
		backends = append(backends, local(), api())
	default:
		backends = append(backends, local())
	}
	return transcribe.NewChain(log, transcribe.NewLanguageDetector(), backends...)
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Paths.Archived,
		cfg.Paths.Temp,
		cfg.Paths.Uploads,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
