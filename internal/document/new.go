package document

import (
	"github.com/nguyentantai21042004/mdoc/internal/config"
	"github.com/nguyentantai21042004/mdoc/internal/logger"
)

type implRenderer struct {
	cfg    config.DocumentConfig
	logger logger.Logger
}

func NewRenderer(cfg config.DocumentConfig, log logger.Logger) Renderer {
	if cfg.DOCXFont == "" {
		cfg.DOCXFont = "Times New Roman"
	}
	if cfg.DOCXFontSize == 0 {
		cfg.DOCXFontSize = 13
	}
	return &implRenderer{cfg: cfg, logger: log}
}
