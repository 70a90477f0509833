package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/nguyentantai21042004/mdoc/internal/capture"
	"github.com/nguyentantai21042004/mdoc/internal/media"
	"github.com/nguyentantai21042004/mdoc/internal/transcribe"
	"github.com/nguyentantai21042004/mdoc/internal/usage"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "nested", "mdoc.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSession(guid string, created time.Time) *Session {
	return &Session{
		GUID:       guid,
		VideoPath:  "/data/uploads/" + guid + ".mp4",
		ClientName: "Acme",
		VideoInfo:  media.VideoInfo{Filename: guid + ".mp4", FPS: 30, FrameCount: 1800, Width: 1280, Height: 720, Duration: 60},
		Transcript: &transcribe.Transcript{
			Language: "English",
			Duration: 60,
			Segments: []transcribe.Segment{{Start: 0, End: 4.5, Text: "hello"}},
		},
		Screenshots:    []capture.Screenshot{{Timestamp: 2, Reason: "keyword: on the screen", Path: "/tmp/1.png"}},
		KeywordResults: []capture.KeywordResult{{Keyword: "on the screen", Timestamp: 2, Text: "look on the screen"}},
		ProcessingTime: 12.5,
		CreatedAt:      created,
	}
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	created := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)
	want := sampleSession("guid-1", created)
	if err := s.SaveSession(ctx, want); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}
	if want.ID == 0 {
		t.Fatal("SaveSession() did not assign an ID")
	}

	got, err := s.GetSession(ctx, "guid-1")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApproxTime(0)); diff != "" {
		t.Errorf("session mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveSessionUpsertKeepsID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sess := sampleSession("guid-1", time.Now())
	if err := s.SaveSession(ctx, sess); err != nil {
		t.Fatal(err)
	}
	firstID := sess.ID

	sess.ClientName = "Globex"
	if err := s.SaveSession(ctx, sess); err != nil {
		t.Fatal(err)
	}
	if sess.ID != firstID {
		t.Errorf("ID changed on update: %d -> %d", firstID, sess.ID)
	}
	got, err := s.GetSession(ctx, "guid-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.ClientName != "Globex" {
		t.Errorf("ClientName = %q, want Globex", got.ClientName)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSession(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSession() error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteSession(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteSession() error = %v, want ErrNotFound", err)
	}
}

func TestListAndDeleteSessions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, guid := range []string{"a", "b", "c"} {
		if err := s.SaveSession(ctx, sampleSession(guid, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatal(err)
		}
	}

	list, err := s.ListSessions(ctx, 2)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	var guids []string
	for _, sess := range list {
		guids = append(guids, sess.GUID)
	}
	if diff := cmp.Diff([]string{"c", "b"}, guids); diff != "" {
		t.Errorf("ListSessions order (-want +got):\n%s", diff)
	}

	if err := s.DeleteSession(ctx, "c"); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if _, err := s.GetSession(ctx, "c"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSession after delete error = %v", err)
	}
}

func TestUsageSummary(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	old := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	entries := []usage.Entry{
		{Service: usage.ServiceGemini, Model: "gemini-2.5-flash", Operation: "analyze", InputTokens: 1000, OutputTokens: 200, Cost: 0.1, CreatedAt: recent},
		{Service: usage.ServiceGemini, Model: "gemini-2.5-flash", Operation: "topics", InputTokens: 500, OutputTokens: 50, Cost: 0.05, CreatedAt: recent},
		{Service: usage.ServiceWhisperAPI, Model: "whisper-1", Operation: "transcribe", AudioSeconds: 120, Cost: 0.012, CreatedAt: recent},
		{Service: usage.ServiceGemini, Model: "gemini-2.5-flash", Operation: "analyze", InputTokens: 9999, Cost: 9, CreatedAt: old},
	}
	for _, e := range entries {
		if err := s.RecordUsage(ctx, e); err != nil {
			t.Fatalf("RecordUsage() error = %v", err)
		}
	}

	got, err := s.UsageSummary(ctx, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("UsageSummary() error = %v", err)
	}
	want := []usage.Total{
		{Service: usage.ServiceGemini, Model: "gemini-2.5-flash", Calls: 2, InputTokens: 1500, OutputTokens: 250, Cost: 0.15},
		{Service: usage.ServiceWhisperAPI, Model: "whisper-1", Calls: 1, AudioSeconds: 120, Cost: 0.012},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("UsageSummary mismatch (-want +got):\n%s", diff)
	}

	all, err := s.UsageSummary(ctx, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if all[0].Calls != 3 {
		t.Errorf("all-time gemini calls = %d, want 3", all[0].Calls)
	}
}
