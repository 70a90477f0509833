package processor

import (
	"context"
	"errors"
	"time"

	"github.com/nguyentantai21042004/mdoc/internal/analysis"
	"github.com/nguyentantai21042004/mdoc/internal/document"
	"github.com/nguyentantai21042004/mdoc/internal/storage"
	"github.com/nguyentantai21042004/mdoc/internal/usage"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrVideoNotFound   = errors.New("video file not found")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrUnsupportedFile = errors.New("unsupported file type")
)

// Processor runs recordings through the pipeline and turns sessions into
// documents.
type Processor interface {
	// Process transcribes the video, captures screenshots and stores the
	// result as a new session.
	Process(ctx context.Context, req ProcessRequest) (*Result, error)
	// Generate analyses a stored session, or processes VideoPath first when
	// no SessionGUID is given, and renders the requested document.
	Generate(ctx context.Context, req GenerateRequest) (*Generated, error)
	Session(ctx context.Context, guid string) (*storage.Session, error)
	// Sessions lists the newest sessions first.
	Sessions(ctx context.Context, limit int) ([]*storage.Session, error)
	// DeleteSession forgets the session and removes its output folder.
	DeleteSession(ctx context.Context, guid string) error
	Usage(ctx context.Context, since time.Time) ([]usage.Total, error)
	// Archive moves a processed inbox file to the archive folder.
	Archive(ctx context.Context, videoPath string) (string, error)
}

type ProcessRequest struct {
	VideoPath     string
	ClientName    string
	DetectionMode string
	UseSpeech     bool
	UseMouse      bool
	UseScene      bool
	UseAI         bool
}

type Result struct {
	Session *storage.Session
	Message string
}

type GenerateRequest struct {
	DocType            analysis.DocType
	Title              string
	Format             document.Format
	SessionGUID        string
	VideoPath          string
	ClientName         string
	MissingQuestions   bool
	ProcessMap         bool
	IncludeScreenshots bool
	// OutputDir overrides the per-session document folder.
	OutputDir string
}

type Generated struct {
	File        document.File
	SessionGUID string
	Analysis    *analysis.Analysis
}
