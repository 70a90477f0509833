package capture

import (
	"github.com/nguyentantai21042004/mdoc/internal/config"
	"github.com/nguyentantai21042004/mdoc/internal/logger"
	"github.com/nguyentantai21042004/mdoc/internal/media"
	"github.com/nguyentantai21042004/mdoc/pkg/executor"
)

type implDetector struct {
	cfg      config.CaptureConfig
	media    media.Toolkit
	executor executor.Executor
	logger   logger.Logger
}

// New creates a Detector. exec runs the OCR binary.
func New(cfg config.CaptureConfig, tk media.Toolkit, exec executor.Executor, log logger.Logger) Detector {
	return &implDetector{
		cfg:      cfg,
		media:    tk,
		executor: exec,
		logger:   log,
	}
}
