package analysis

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nguyentantai21042004/mdoc/internal/capture"
	"github.com/nguyentantai21042004/mdoc/internal/llm"
	"github.com/nguyentantai21042004/mdoc/internal/logger"
	"github.com/nguyentantai21042004/mdoc/internal/transcribe"
)

type fakeClient struct {
	reply string
	err   error
	reqs  []llm.Request
}

func (f *fakeClient) Available() bool { return true }

func (f *fakeClient) Generate(_ context.Context, req llm.Request) (*llm.Response, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Response{Text: f.reply}, nil
}

var testTranscript = &transcribe.Transcript{
	Language: "English",
	Segments: []transcribe.Segment{
		{Start: 0, End: 5, Text: "Welcome to the onboarding call."},
		{Start: 65, End: 70, Text: "As you can see, the invoice screen has three tabs."},
	},
}

func quiet() logger.Logger { return logger.NewWithFormat("error", "text", io.Discard) }

func TestAnalyze(t *testing.T) {
	client := &fakeClient{reply: "```json\n" + `{
		"title": "Onboarding",
		"executive_summary": "Walkthrough of invoicing.",
		"key_points": ["Invoice screen has three tabs"],
		"action_items": [{"owner": "Ana", "task": "Send access", "due": "Friday"}],
		"process_steps": [{"id": "a", "label": "Create invoice", "next": ["b"]}, {"id": "b", "label": "Approve"}],
		"missing_questions": ["Who approves credit notes?"]
	}` + "\n```"}

	got, err := New(client, quiet()).Analyze(context.Background(), KnowledgeTransfer, testTranscript, []capture.Screenshot{
		{Timestamp: 66, OCRText: "Invoices | Drafts | Sent"},
		{Timestamp: 90},
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	want := &Analysis{
		Title:            "Onboarding",
		ExecutiveSummary: "Walkthrough of invoicing.",
		KeyPoints:        []string{"Invoice screen has three tabs"},
		ActionItems:      []ActionItem{{Owner: "Ana", Task: "Send access", Due: "Friday"}},
		ProcessSteps:     []ProcessStep{{ID: "a", Label: "Create invoice", Next: []string{"b"}}, {ID: "b", Label: "Approve"}},
		MissingQuestions: []string{"Who approves credit notes?"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Analyze() mismatch (-want +got):\n%s", diff)
	}

	req := client.reqs[0]
	if req.Operation != "analyze_knowledge_transfer" || !req.JSON || req.Temperature != 0.3 {
		t.Errorf("request = %+v", req)
	}
	if !strings.Contains(req.System, "knowledge-transfer") || !strings.Contains(req.System, "Write all text values in English.") {
		t.Errorf("system prompt = %q", req.System)
	}
	for _, want := range []string{"[00:00] Welcome", "[01:05] As you can see", "Text visible on screen:\n[01:06] Invoices | Drafts | Sent"} {
		if !strings.Contains(req.Prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, req.Prompt)
		}
	}
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name       string
		client     *fakeClient
		docType    DocType
		transcript *transcribe.Transcript
		wantErr    error
	}{
		{"unknown doc type", &fakeClient{}, DocType("memo"), testTranscript, ErrUnknownDocType},
		{"empty transcript", &fakeClient{}, MeetingSummary, &transcribe.Transcript{}, transcribe.ErrNoTranscript},
		{"not configured", &fakeClient{err: llm.ErrNotConfigured}, MeetingSummary, testTranscript, llm.ErrNotConfigured},
		{"prose reply", &fakeClient{reply: "Sorry, I can't help."}, MeetingSummary, testTranscript, ErrBadResponse},
		{"empty object", &fakeClient{reply: "{}"}, MeetingSummary, testTranscript, ErrBadResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.client, quiet()).Analyze(context.Background(), tt.docType, tt.transcript, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Analyze() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTopics(t *testing.T) {
	results := []capture.KeywordResult{
		{Keyword: "as you can see", Text: "As you can see the dashboard"},
		{Keyword: "click on", Text: "Click on export"},
	}

	got, err := New(&fakeClient{reply: `["Dashboard overview", "Export"]`}, quiet()).Topics(context.Background(), results)
	if err != nil {
		t.Fatalf("Topics() error = %v", err)
	}
	if got[0].Topic != "Dashboard overview" || got[1].Topic != "Export" {
		t.Errorf("Topics() = %+v", got)
	}
	if results[0].Topic != "" {
		t.Error("Topics() modified its input")
	}

	got, err = New(&fakeClient{reply: `["only one"]`}, quiet()).Topics(context.Background(), results)
	if err != nil || got[0].Topic != "" {
		t.Errorf("mismatched count should return input unchanged, got %+v, %v", got, err)
	}
}

func TestParseDocType(t *testing.T) {
	tests := []struct {
		in      string
		want    DocType
		wantErr bool
	}{
		{"meeting-summary", MeetingSummary, false},
		{"Knowledge_Transfer", KnowledgeTransfer, false},
		{"user_stories", UserStories, false},
		{"minutes", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDocType(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseDocType(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestUserStoryString(t *testing.T) {
	u := UserStory{AsA: "finance clerk", IWant: "to export invoices", SoThat: "I can reconcile them"}
	if got := u.String(); got != "As a finance clerk, I want to export invoices, so that I can reconcile them." {
		t.Errorf("String() = %q", got)
	}
}
