package capture

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nguyentantai21042004/mdoc/internal/config"
	"github.com/nguyentantai21042004/mdoc/internal/logger"
	"github.com/nguyentantai21042004/mdoc/internal/media"
	"github.com/nguyentantai21042004/mdoc/internal/transcribe"
	"github.com/nguyentantai21042004/mdoc/pkg/executor"
)

func TestKeywordTriggers(t *testing.T) {
	segments := []transcribe.Segment{
		{Start: 0, End: 4, Text: "Good morning everyone"},
		{Start: 10, End: 14, Text: "As you can see on the screen, sales are up"},
		{Start: 20, End: 20, Text: "Now CLICK ON the export button"},
	}

	triggers, results := KeywordTriggers(segments, []string{"as you can see", "on the screen", "click on"})

	wantTriggers := []Trigger{
		{Timestamp: 12, Reason: "keyword: as you can see"},
		{Timestamp: 20, Reason: "keyword: click on"},
	}
	if diff := cmp.Diff(wantTriggers, triggers); diff != "" {
		t.Errorf("triggers mismatch (-want +got):\n%s", diff)
	}
	wantResults := []KeywordResult{
		{Keyword: "as you can see", Timestamp: 10, Text: "As you can see on the screen, sales are up"},
		{Keyword: "click on", Timestamp: 20, Text: "Now CLICK ON the export button"},
	}
	if diff := cmp.Diff(wantResults, results); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestSelect(t *testing.T) {
	triggers := []Trigger{
		{Timestamp: 30, Reason: "c"},
		{Timestamp: 5, Reason: "a"},
		{Timestamp: 12, Reason: "b"},
		{Timestamp: 14, Reason: "too close"},
		{Timestamp: 60, Reason: "d"},
	}

	tests := []struct {
		name        string
		minInterval float64
		max         int
		want        []string
	}{
		{"interval only", 5, 0, []string{"a", "b", "c", "d"}},
		{"capped", 5, 2, []string{"a", "b"}},
		{"wide interval", 20, 0, []string{"a", "c", "d"}},
		{"no interval", 0, 0, []string{"a", "b", "too close", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, tr := range Select(triggers, tt.minInterval, tt.max) {
				got = append(got, tr.Reason)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Select() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

type fakeToolkit struct {
	media.Toolkit

	mu          sync.Mutex
	threshold   float64
	scenes      []float64
	failAt      float64
	extractedAt []float64
}

func (f *fakeToolkit) SceneChanges(_ context.Context, _ string, threshold float64) ([]float64, error) {
	f.threshold = threshold
	return f.scenes, nil
}

func (f *fakeToolkit) ExtractFrame(_ context.Context, _ string, at float64, _ string) error {
	if at == f.failAt {
		return errors.New("seek past end")
	}
	f.mu.Lock()
	f.extractedAt = append(f.extractedAt, at)
	f.mu.Unlock()
	return nil
}

func newTestDetector(tk media.Toolkit, exec executor.Executor, ocr bool) Detector {
	return New(config.CaptureConfig{
		Keywords:       []string{"as you can see"},
		SceneThreshold: 0.3,
		MinInterval:    10,
		MaxScreenshots: 10,
		OCR:            ocr,
		OCRBinaryPath:  "tesseract",
		OCRLanguage:    "eng",
	}, tk, exec, logger.NewWithFormat("error", "text", io.Discard))
}

func TestSceneChangesModes(t *testing.T) {
	tk := &fakeToolkit{scenes: []float64{3, 40}}
	d := newTestDetector(tk, &executor.Fake{}, false)

	got, err := d.SceneChanges(context.Background(), "v.mp4", Options{UseScene: false})
	if err != nil || got != nil {
		t.Fatalf("disabled SceneChanges() = %v, %v", got, err)
	}

	got, err = d.SceneChanges(context.Background(), "v.mp4", Options{UseScene: true, DetectionMode: ModeAdvanced})
	if err != nil {
		t.Fatalf("SceneChanges() error = %v", err)
	}
	if len(got) != 2 || got[0].Reason != "scene change" {
		t.Errorf("SceneChanges() = %+v", got)
	}
	if tk.threshold < 0.19 || tk.threshold > 0.21 {
		t.Errorf("advanced threshold = %v, want 0.2", tk.threshold)
	}
}

func TestCapture(t *testing.T) {
	tk := &fakeToolkit{failAt: 40}
	ocr := &executor.Fake{Handler: func(c executor.Call) (string, error) {
		return "  Revenue\n  Q3  \n", nil
	}}
	d := newTestDetector(tk, ocr, true)

	segments := []transcribe.Segment{{Start: 20, End: 24, Text: "As you can see here"}}
	scenes := []Trigger{{Timestamp: 3, Reason: "scene change"}, {Timestamp: 25, Reason: "scene change"}, {Timestamp: 40, Reason: "scene change"}}

	res, err := d.Capture(context.Background(), "v.mp4", segments, scenes, Options{
		UseSpeech: true,
		UseMouse:  true,
		OutputDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}

	var got []Screenshot
	for _, s := range res.Screenshots {
		if !strings.HasSuffix(s.Path, ".png") {
			t.Errorf("path %q is not a png", s.Path)
		}
		s.Path = ""
		got = append(got, s)
	}
	// 25 is within 10s of the keyword trigger at 22; 40 fails to extract.
	want := []Screenshot{
		{Timestamp: 3, Reason: "scene change", OCRText: "Revenue Q3"},
		{Timestamp: 22, Reason: "keyword: as you can see", OCRText: "Revenue Q3"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("screenshots mismatch (-want +got):\n%s", diff)
	}
	if len(res.KeywordResults) != 1 {
		t.Errorf("KeywordResults = %+v", res.KeywordResults)
	}
	if calls := ocr.Calls(); len(calls) != 2 || calls[0].Args[1] != "stdout" {
		t.Errorf("ocr calls = %+v", calls)
	}
}

func TestCaptureNoTriggers(t *testing.T) {
	d := newTestDetector(&fakeToolkit{}, &executor.Fake{}, false)
	res, err := d.Capture(context.Background(), "v.mp4", nil, nil, Options{UseSpeech: true})
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}
	if len(res.Screenshots) != 0 {
		t.Errorf("Screenshots = %+v", res.Screenshots)
	}
}
