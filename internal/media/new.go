package media

import (
	"github.com/nguyentantai21042004/mdoc/internal/config"
	"github.com/nguyentantai21042004/mdoc/internal/logger"
	"github.com/nguyentantai21042004/mdoc/pkg/executor"
)

type implToolkit struct {
	executor executor.Executor
	logger   logger.Logger
	ffmpeg   string
	ffprobe  string
}

// New creates a Toolkit that shells out to the configured binaries.
func New(cfg config.FFmpegConfig, exec executor.Executor, log logger.Logger) Toolkit {
	return &implToolkit{
		executor: exec,
		logger:   log,
		ffmpeg:   cfg.BinaryPath,
		ffprobe:  cfg.ProbeBinaryPath,
	}
}
