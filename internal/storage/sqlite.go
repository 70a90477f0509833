package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nguyentantai21042004/mdoc/internal/usage"
)

type sqliteStore struct {
	db *sql.DB
}

// New opens (creating if needed) the SQLite database at path.
func New(path string) (Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	s := &sqliteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	return s, nil
}

func (s *sqliteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			guid TEXT NOT NULL UNIQUE,
			video_path TEXT NOT NULL,
			client_name TEXT NOT NULL,
			video_info TEXT NOT NULL,
			transcript TEXT,
			screenshots TEXT,
			keyword_results TEXT,
			processing_time REAL NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS usage_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			service TEXT NOT NULL,
			model TEXT NOT NULL,
			operation TEXT NOT NULL,
			session_guid TEXT,
			input_tokens INTEGER NOT NULL DEFAULT 0,
			output_tokens INTEGER NOT NULL DEFAULT 0,
			audio_seconds REAL NOT NULL DEFAULT 0,
			cost REAL NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at);
		CREATE INDEX IF NOT EXISTS idx_usage_created ON usage_entries(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func (s *sqliteStore) SaveSession(ctx context.Context, sess *Session) error {
	if sess.GUID == "" {
		return fmt.Errorf("save session: empty guid")
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now()
	}

	info, err := json.Marshal(sess.VideoInfo)
	if err != nil {
		return fmt.Errorf("encode video info: %w", err)
	}
	transcript, err := json.Marshal(sess.Transcript)
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	shots, err := json.Marshal(sess.Screenshots)
	if err != nil {
		return fmt.Errorf("encode screenshots: %w", err)
	}
	keywords, err := json.Marshal(sess.KeywordResults)
	if err != nil {
		return fmt.Errorf("encode keyword results: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (guid, video_path, client_name, video_info, transcript, screenshots, keyword_results, processing_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(guid) DO UPDATE SET
			video_path = excluded.video_path,
			client_name = excluded.client_name,
			video_info = excluded.video_info,
			transcript = excluded.transcript,
			screenshots = excluded.screenshots,
			keyword_results = excluded.keyword_results,
			processing_time = excluded.processing_time
	`, sess.GUID, sess.VideoPath, sess.ClientName, string(info), string(transcript), string(shots), string(keywords),
		sess.ProcessingTime, sess.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, `SELECT id FROM sessions WHERE guid = ?`, sess.GUID).Scan(&sess.ID); err != nil {
		return fmt.Errorf("read session id: %w", err)
	}
	return nil
}

const sessionColumns = `id, guid, video_path, client_name, video_info, transcript, screenshots, keyword_results, processing_time, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var (
		sess                              Session
		info, transcript, shots, keywords sql.NullString
		created                           int64
	)
	if err := row.Scan(&sess.ID, &sess.GUID, &sess.VideoPath, &sess.ClientName, &info, &transcript, &shots, &keywords,
		&sess.ProcessingTime, &created); err != nil {
		return nil, err
	}
	sess.CreatedAt = time.Unix(0, created)

	for _, col := range []struct {
		name string
		raw  sql.NullString
		dst  any
	}{
		{"video_info", info, &sess.VideoInfo},
		{"transcript", transcript, &sess.Transcript},
		{"screenshots", shots, &sess.Screenshots},
		{"keyword_results", keywords, &sess.KeywordResults},
	} {
		if !col.raw.Valid || col.raw.String == "" {
			continue
		}
		if err := json.Unmarshal([]byte(col.raw.String), col.dst); err != nil {
			return nil, fmt.Errorf("decode %s: %w", col.name, err)
		}
	}
	return &sess, nil
}

func (s *sqliteStore) GetSession(ctx context.Context, guid string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE guid = ?`, guid)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, guid)
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

func (s *sqliteStore) ListSessions(ctx context.Context, limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+sessionColumns+` FROM sessions ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

func (s *sqliteStore) DeleteSession(ctx context.Context, guid string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE guid = ?`, guid)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, guid)
	}
	return nil
}

func (s *sqliteStore) RecordUsage(ctx context.Context, e usage.Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO usage_entries (service, model, operation, session_guid, input_tokens, output_tokens, audio_seconds, cost, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.Service, e.Model, e.Operation, e.SessionGUID, e.InputTokens, e.OutputTokens, e.AudioSeconds, e.Cost, e.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("record usage: %w", err)
	}
	return nil
}

func (s *sqliteStore) UsageSummary(ctx context.Context, since time.Time) ([]usage.Total, error) {
	var from int64
	if !since.IsZero() {
		from = since.UnixNano()
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT service, model, COUNT(*), SUM(input_tokens), SUM(output_tokens), SUM(audio_seconds), SUM(cost)
		FROM usage_entries
		WHERE created_at >= ?
		GROUP BY service, model
		ORDER BY service, model
	`, from)
	if err != nil {
		return nil, fmt.Errorf("usage summary: %w", err)
	}
	defer rows.Close()

	var out []usage.Total
	for rows.Next() {
		var t usage.Total
		if err := rows.Scan(&t.Service, &t.Model, &t.Calls, &t.InputTokens, &t.OutputTokens, &t.AudioSeconds, &t.Cost); err != nil {
			return nil, fmt.Errorf("usage summary: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
