package transcribe

import (
	"context"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nguyentantai21042004/mdoc/internal/logger"
	"github.com/nguyentantai21042004/mdoc/internal/media"
	"github.com/nguyentantai21042004/mdoc/internal/usage"
)

// audioClient is the slice of *openai.Client used here.
type audioClient interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

type openAIWhisper struct {
	client       audioClient
	media        media.Toolkit
	chunkSeconds int
	language     string
	prompt       string
	tracker      usage.Tracker
	logger       logger.Logger
}

// NewOpenAI creates a Transcriber using the hosted Whisper API. Long audio is
// split into chunkSeconds pieces and the segment times shifted back.
func NewOpenAI(apiKey string, chunkSeconds int, language, prompt string, tk media.Toolkit, tracker usage.Tracker, log logger.Logger) Transcriber {
	if language == "auto" {
		language = ""
	}
	return &openAIWhisper{
		client:       openai.NewClient(apiKey),
		media:        tk,
		chunkSeconds: chunkSeconds,
		language:     language,
		prompt:       prompt,
		tracker:      tracker,
		logger:       log,
	}
}

func (o *openAIWhisper) Name() string { return usage.ServiceWhisperAPI }

func (o *openAIWhisper) Transcribe(ctx context.Context, audioPath string) (*Transcript, error) {
	chunks, err := o.media.SplitAudio(ctx, audioPath, o.chunkSeconds)
	if err != nil {
		return nil, fmt.Errorf("split audio: %w", err)
	}
	defer func() {
		for _, c := range chunks {
			if c.Path != audioPath {
				os.Remove(c.Path)
			}
		}
	}()

	t := &Transcript{}
	for i, chunk := range chunks {
		o.logger.Info(ctx, "[%d/%d] Uploading audio chunk to Whisper API", i+1, len(chunks))

		resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
			Model:    openai.Whisper1,
			FilePath: chunk.Path,
			Format:   openai.AudioResponseFormatVerboseJSON,
			Language: o.language,
			Prompt:   o.prompt,
		})
		if err != nil {
			return nil, fmt.Errorf("transcribe chunk %d: %w", i, err)
		}

		if t.Language == "" {
			t.Language = resp.Language
		}
		if len(resp.Segments) == 0 && strings.TrimSpace(resp.Text) != "" {
			t.Segments = append(t.Segments, Segment{
				Start: chunk.Offset,
				End:   chunk.Offset + resp.Duration,
				Text:  strings.TrimSpace(resp.Text),
			})
		}
		for _, s := range resp.Segments {
			t.Segments = append(t.Segments, Segment{
				Start: chunk.Offset + s.Start,
				End:   chunk.Offset + s.End,
				Text:  strings.TrimSpace(s.Text),
			})
		}
		t.Duration = chunk.Offset + resp.Duration
	}

	o.tracker.Transcription(ctx, o.Name(), openai.Whisper1, t.Duration)
	return t, nil
}
