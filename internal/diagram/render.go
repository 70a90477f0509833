package diagram

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nguyentantai21042004/mdoc/internal/config"
	"github.com/nguyentantai21042004/mdoc/internal/logger"
	"github.com/nguyentantai21042004/mdoc/pkg/executor"
)

// Renderer turns a Graph into a PNG file.
type Renderer interface {
	Render(ctx context.Context, g Graph, destPNG string) error
}

type cliRenderer struct {
	cfg      config.DiagramConfig
	executor executor.Executor
	logger   logger.Logger
}

// NewRenderer creates a Renderer for the configured backend.
func NewRenderer(cfg config.DiagramConfig, exec executor.Executor, log logger.Logger) Renderer {
	return &cliRenderer{cfg: cfg, executor: exec, logger: log}
}

func (r *cliRenderer) Render(ctx context.Context, g Graph, destPNG string) error {
	if len(g.Nodes) == 0 {
		return ErrEmptyGraph
	}

	dir := filepath.Dir(destPNG)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create diagram dir: %w", err)
	}

	var (
		source string
		ext    string
		name   string
		args   func(in string) []string
	)
	switch r.cfg.Renderer {
	case "mermaid":
		source, ext, name = g.Mermaid(), ".mmd", r.cfg.MmdcBinaryPath
		args = func(in string) []string { return []string{"-i", in, "-o", destPNG, "-b", "white"} }
	default:
		source, ext, name = g.DOT(), ".dot", r.cfg.DotBinaryPath
		args = func(in string) []string { return []string{"-Tpng", in, "-o", destPNG} }
	}

	src, err := os.CreateTemp(dir, "process-*"+ext)
	if err != nil {
		return fmt.Errorf("create diagram source: %w", err)
	}
	defer os.Remove(src.Name())

	if _, err := src.WriteString(source); err != nil {
		src.Close()
		return fmt.Errorf("write diagram source: %w", err)
	}
	if err := src.Close(); err != nil {
		return fmt.Errorf("close diagram source: %w", err)
	}

	r.logger.Debug(ctx, "Rendering process map with %s (%d nodes)", name, len(g.Nodes))
	if _, err := r.executor.Execute(ctx, name, args(src.Name())...); err != nil {
		return fmt.Errorf("render process map: %w", err)
	}
	return nil
}
