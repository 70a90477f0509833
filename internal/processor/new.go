package processor

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/nguyentantai21042004/mdoc/internal/analysis"
	"github.com/nguyentantai21042004/mdoc/internal/capture"
	"github.com/nguyentantai21042004/mdoc/internal/config"
	"github.com/nguyentantai21042004/mdoc/internal/diagram"
	"github.com/nguyentantai21042004/mdoc/internal/document"
	"github.com/nguyentantai21042004/mdoc/internal/logger"
	"github.com/nguyentantai21042004/mdoc/internal/media"
	"github.com/nguyentantai21042004/mdoc/internal/storage"
	"github.com/nguyentantai21042004/mdoc/internal/transcribe"
	"github.com/nguyentantai21042004/mdoc/internal/usage"
)

// SessionStore is the part of storage.Store the processor needs.
type SessionStore interface {
	SaveSession(ctx context.Context, s *storage.Session) error
	GetSession(ctx context.Context, guid string) (*storage.Session, error)
	ListSessions(ctx context.Context, limit int) ([]*storage.Session, error)
	DeleteSession(ctx context.Context, guid string) error
}

// Deps are the collaborators behind each pipeline stage.
type Deps struct {
	Media       media.Toolkit
	Transcriber transcribe.Transcriber
	Capture     capture.Detector
	Analyzer    analysis.Analyzer
	Diagrams    diagram.Renderer
	Documents   document.Renderer
	Sessions    SessionStore
	Usage       usage.Tracker
}

type implProcessor struct {
	cfg    *config.Config
	deps   Deps
	sem    *semaphore.Weighted
	logger logger.Logger
	now    func() time.Time
	newID  func() string
}

// New creates a new Processor instance. At most performance.max_concurrent
// videos are processed at once.
func New(cfg *config.Config, deps Deps, log logger.Logger) Processor {
	limit := cfg.Performance.MaxConcurrent
	if limit <= 0 {
		limit = 1
	}
	return &implProcessor{
		cfg:    cfg,
		deps:   deps,
		sem:    semaphore.NewWeighted(int64(limit)),
		logger: log,
		now:    time.Now,
		newID:  newGUID,
	}
}
