package storage

import (
	"context"
	"errors"
	"time"

	"github.com/nguyentantai21042004/mdoc/internal/capture"
	"github.com/nguyentantai21042004/mdoc/internal/media"
	"github.com/nguyentantai21042004/mdoc/internal/transcribe"
	"github.com/nguyentantai21042004/mdoc/internal/usage"
)

var ErrNotFound = errors.New("session not found")

// Session is everything kept about one processed recording.
type Session struct {
	ID             int64                   `json:"session_id"`
	GUID           string                  `json:"session_guid"`
	VideoPath      string                  `json:"video_path"`
	ClientName     string                  `json:"client_name"`
	VideoInfo      media.VideoInfo         `json:"video_info"`
	Transcript     *transcribe.Transcript  `json:"transcript"`
	Screenshots    []capture.Screenshot    `json:"screenshots"`
	KeywordResults []capture.KeywordResult `json:"keyword_results"`
	ProcessingTime float64                 `json:"processing_time"`
	CreatedAt      time.Time               `json:"created_at"`
}

// Store persists sessions and the usage ledger.
type Store interface {
	usage.Store

	// SaveSession inserts or replaces the session with s.GUID and sets s.ID.
	SaveSession(ctx context.Context, s *Session) error
	GetSession(ctx context.Context, guid string) (*Session, error)
	// ListSessions returns the newest sessions first.
	ListSessions(ctx context.Context, limit int) ([]*Session, error)
	DeleteSession(ctx context.Context, guid string) error
	Close() error
}
