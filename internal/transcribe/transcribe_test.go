package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	openai "github.com/sashabaranov/go-openai"

	"github.com/nguyentantai21042004/mdoc/internal/config"
	"github.com/nguyentantai21042004/mdoc/internal/logger"
	"github.com/nguyentantai21042004/mdoc/internal/media"
	"github.com/nguyentantai21042004/mdoc/internal/usage"
	"github.com/nguyentantai21042004/mdoc/pkg/executor"
)

func quiet() logger.Logger { return logger.NewWithFormat("error", "text", io.Discard) }

type fakeTracker struct {
	seconds []float64
	service []string
}

func (f *fakeTracker) LLM(context.Context, string, string, int, int) {}
func (f *fakeTracker) Transcription(_ context.Context, service, _ string, seconds float64) {
	f.service = append(f.service, service)
	f.seconds = append(f.seconds, seconds)
}
func (f *fakeTracker) Summary(context.Context, time.Time) ([]usage.Total, error) { return nil, nil }

func TestParseSRT(t *testing.T) {
	content := "\ufeff1\r\n00:00:00,000 --> 00:00:02,500\r\nHello everyone.\r\n\r\n" +
		"2\n00:00:02.500 --> 00:01:05,040\nAs you can see\non the dashboard\n\n" +
		"3\n00:01:05,040 --> 00:01:06,000\n\n" +
		"garbage block\n\n" +
		"4\n01:00:00,100 --> 01:00:01,000\nBye\n"

	got, err := ParseSRT(content)
	if err != nil {
		t.Fatalf("ParseSRT() error = %v", err)
	}
	want := []Segment{
		{Start: 0, End: 2.5, Text: "Hello everyone."},
		{Start: 2.5, End: 65.04, Text: "As you can see on the dashboard"},
		{Start: 3600.1, End: 3601, Text: "Bye"},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("ParseSRT() mismatch (-want +got):\n%s", diff)
	}
}

func TestTranscriptText(t *testing.T) {
	tr := &Transcript{Segments: []Segment{{Text: "a"}, {Text: ""}, {Text: "b"}}}
	if got := tr.Text(); got != "a b" {
		t.Errorf("Text() = %q", got)
	}
	if tr.Empty() {
		t.Error("Empty() = true")
	}
	var nilT *Transcript
	if !nilT.Empty() {
		t.Error("nil transcript should be empty")
	}
}

func TestWhisperCLI(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "talk.wav")

	fake := &executor.Fake{Handler: func(c executor.Call) (string, error) {
		var prefix string
		for i, a := range c.Args {
			if a == "--output-file" {
				prefix = c.Args[i+1]
			}
		}
		srt := "1\n00:00:01,000 --> 00:00:04,000\nWelcome\n\n2\n00:00:04,000 --> 00:00:09,000\nLet me show the report\n"
		return "", os.WriteFile(prefix+".srt", []byte(srt), 0644)
	}}
	tracker := &fakeTracker{}

	w := NewWhisperCLI(config.WhisperConfig{
		BinaryPath: "whisper-cli",
		ModelPath:  "models/ggml-base.bin",
		Language:   "en",
		Threads:    4,
	}, fake, tracker, quiet())

	got, err := w.Transcribe(context.Background(), audio)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if len(got.Segments) != 2 || got.Duration != 9 || got.Language != "en" {
		t.Errorf("Transcribe() = %+v", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "talk.srt")); !os.IsNotExist(err) {
		t.Error("SRT file should be removed after parsing")
	}
	if line := fake.Calls()[0].Line(); !strings.Contains(line, "-osrt -l en -t 4") || !strings.Contains(line, "-ng") {
		t.Errorf("unexpected whisper args: %s", line)
	}
	if diff := cmp.Diff([]float64{9}, tracker.seconds); diff != "" {
		t.Errorf("tracked seconds mismatch (-want +got):\n%s", diff)
	}
}

type fakeAudioClient struct {
	responses []openai.AudioResponse
	requests  []openai.AudioRequest
}

func (f *fakeAudioClient) CreateTranscription(_ context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
	f.requests = append(f.requests, req)
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

type fakeToolkit struct {
	media.Toolkit
	chunks []media.Chunk
}

func (f *fakeToolkit) SplitAudio(context.Context, string, int) ([]media.Chunk, error) {
	return f.chunks, nil
}

func segResponse(t *testing.T, body string) openai.AudioResponse {
	t.Helper()
	var r openai.AudioResponse
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatal(err)
	}
	return r
}

func TestOpenAIShiftsChunkOffsets(t *testing.T) {
	client := &fakeAudioClient{responses: []openai.AudioResponse{
		segResponse(t, `{"language":"english","duration":600,"segments":[{"start":0,"end":5,"text":" first "}]}`),
		segResponse(t, `{"language":"english","duration":30,"segments":[{"start":2,"end":4,"text":"second"}]}`),
	}}
	tracker := &fakeTracker{}
	o := &openAIWhisper{
		client: client,
		media: &fakeToolkit{chunks: []media.Chunk{
			{Path: filepath.Join(t.TempDir(), "a_chunk_0.wav"), Offset: 0},
			{Path: filepath.Join(t.TempDir(), "a_chunk_1.wav"), Offset: 600},
		}},
		chunkSeconds: 600,
		tracker:      tracker,
		logger:       quiet(),
	}

	got, err := o.Transcribe(context.Background(), "a.wav")
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	want := []Segment{
		{Start: 0, End: 5, Text: "first"},
		{Start: 602, End: 604, Text: "second"},
	}
	if diff := cmp.Diff(want, got.Segments); diff != "" {
		t.Errorf("segments mismatch (-want +got):\n%s", diff)
	}
	if got.Duration != 630 || tracker.service[0] != usage.ServiceWhisperAPI {
		t.Errorf("duration = %v, tracked = %v", got.Duration, tracker.service)
	}
	if client.requests[0].Format != openai.AudioResponseFormatVerboseJSON {
		t.Errorf("format = %v", client.requests[0].Format)
	}
}

type stubTranscriber struct {
	name string
	t    *Transcript
	err  error
}

func (s stubTranscriber) Name() string { return s.name }
func (s stubTranscriber) Transcribe(context.Context, string) (*Transcript, error) {
	return s.t, s.err
}

type stubDetector string

func (s stubDetector) Detect(string) (string, bool) { return string(s), s != "" }

func TestChain(t *testing.T) {
	good := &Transcript{Segments: []Segment{{Text: "hello"}}}

	tests := []struct {
		name     string
		backends []Transcriber
		wantErr  bool
		wantLang string
	}{
		{
			name: "local succeeds",
			backends: []Transcriber{
				stubTranscriber{name: "local", t: good},
				stubTranscriber{name: "api", err: errors.New("should not be called")},
			},
			wantLang: "English",
		},
		{
			name: "falls back on error",
			backends: []Transcriber{
				stubTranscriber{name: "local", err: errors.New("model missing")},
				stubTranscriber{name: "api", t: good},
			},
			wantLang: "English",
		},
		{
			name: "falls back on empty text",
			backends: []Transcriber{
				stubTranscriber{name: "local", t: &Transcript{}},
				stubTranscriber{name: "api", t: good},
			},
			wantLang: "English",
		},
		{
			name: "all fail",
			backends: []Transcriber{
				stubTranscriber{name: "local", err: errors.New("boom")},
				stubTranscriber{name: "api", t: &Transcript{}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChain(quiet(), stubDetector("English"), tt.backends...)
			got, err := c.Transcribe(context.Background(), "a.wav")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Transcribe() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrNoTranscript) {
					t.Errorf("error %v is not ErrNoTranscript", err)
				}
				return
			}
			if got.Language != tt.wantLang {
				t.Errorf("Language = %q, want %q", got.Language, tt.wantLang)
			}
		})
	}
}

func TestLinguaDetector(t *testing.T) {
	lang, ok := NewLanguageDetector().Detect("Today we walk through the quarterly sales dashboard and the open action items for the team.")
	if !ok || lang != "English" {
		t.Errorf("Detect() = %q, %v; want English", lang, ok)
	}
}
