package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/mdoc/internal/capture"
	"github.com/nguyentantai21042004/mdoc/internal/llm"
	"github.com/nguyentantai21042004/mdoc/internal/logger"
	"github.com/nguyentantai21042004/mdoc/internal/media"
	"github.com/nguyentantai21042004/mdoc/internal/transcribe"
)

const analysisTemperature = 0.3

// Analyzer asks the language model to structure a meeting.
type Analyzer interface {
	Available() bool
	Analyze(ctx context.Context, docType DocType, transcript *transcribe.Transcript, screenshots []capture.Screenshot) (*Analysis, error)
	Topics(ctx context.Context, results []capture.KeywordResult) ([]capture.KeywordResult, error)
}

type implAnalyzer struct {
	client llm.Client
	logger logger.Logger
}

// New creates an Analyzer on top of client.
func New(client llm.Client, log logger.Logger) Analyzer {
	return &implAnalyzer{client: client, logger: log}
}

func (a *implAnalyzer) Available() bool {
	return a.client.Available()
}

// Analyze builds the doc-type prompt from the timestamped transcript and any
// OCR text, and decodes the model's JSON reply.
func (a *implAnalyzer) Analyze(ctx context.Context, docType DocType, transcript *transcribe.Transcript, screenshots []capture.Screenshot) (*Analysis, error) {
	system, ok := systemPrompts[docType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDocType, docType)
	}
	if transcript.Empty() {
		return nil, fmt.Errorf("analyze %s: %w", docType, transcribe.ErrNoTranscript)
	}

	system += "\n\n" + schema
	if transcript.Language != "" {
		system += "\nWrite all text values in " + transcript.Language + "."
	}

	a.logger.Info(ctx, "Analyzing transcript for %s (%d segments)", docType, len(transcript.Segments))

	resp, err := a.client.Generate(ctx, llm.Request{
		Operation:   "analyze_" + string(docType),
		System:      system,
		Prompt:      BuildPrompt(transcript, screenshots),
		Temperature: analysisTemperature,
		JSON:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", docType, err)
	}

	var out Analysis
	if err := llm.DecodeJSON(resp.Text, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadResponse, err)
	}
	if out.empty() {
		return nil, fmt.Errorf("%w: no content", ErrBadResponse)
	}
	return &out, nil
}

// Topics labels each keyword result. Results come back unchanged when the
// model reply doesn't line up with the input.
func (a *implAnalyzer) Topics(ctx context.Context, results []capture.KeywordResult) ([]capture.KeywordResult, error) {
	if len(results) == 0 {
		return results, nil
	}

	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r.Text)
	}

	resp, err := a.client.Generate(ctx, llm.Request{
		Operation: "keyword_topics",
		System:    topicsPrompt,
		Prompt:    b.String(),
		JSON:      true,
	})
	if err != nil {
		return results, fmt.Errorf("label topics: %w", err)
	}

	var topics []string
	if err := llm.DecodeJSON(resp.Text, &topics); err != nil {
		return results, fmt.Errorf("%w: %w", ErrBadResponse, err)
	}
	if len(topics) != len(results) {
		a.logger.Warn(ctx, "Topic count %d does not match %d keyword results", len(topics), len(results))
		return results, nil
	}

	out := make([]capture.KeywordResult, len(results))
	for i, r := range results {
		r.Topic = strings.TrimSpace(topics[i])
		out[i] = r
	}
	return out, nil
}

// BuildPrompt renders the transcript as "[MM:SS] text" lines followed by the
// text read from screenshots.
func BuildPrompt(transcript *transcribe.Transcript, screenshots []capture.Screenshot) string {
	var b strings.Builder
	b.WriteString("Meeting transcript:\n")
	for _, s := range transcript.Segments {
		fmt.Fprintf(&b, "[%s] %s\n", media.FormatTimestamp(s.Start, false), s.Text)
	}

	var ocr []capture.Screenshot
	for _, s := range screenshots {
		if strings.TrimSpace(s.OCRText) != "" {
			ocr = append(ocr, s)
		}
	}
	if len(ocr) > 0 {
		b.WriteString("\nText visible on screen:\n")
		for _, s := range ocr {
			fmt.Fprintf(&b, "[%s] %s\n", media.FormatTimestamp(s.Timestamp, false), s.OCRText)
		}
	}
	return b.String()
}
