package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/mdoc/internal/config"
	"github.com/nguyentantai21042004/mdoc/internal/logger"
	"github.com/nguyentantai21042004/mdoc/internal/usage"
)

// generator is the part of genai.Models we call.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type geminiClient struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	clients    map[string]generator

	model       string
	temperature float32
	tracker     usage.Tracker
	logger      logger.Logger
	newModels   func(ctx context.Context, key string) (generator, error)
}

// NewGemini creates a Client that rotates through the configured Gemini API
// keys when one is rate limited.
func NewGemini(cfg config.GeminiConfig, tracker usage.Tracker, log logger.Logger) Client {
	return &geminiClient{
		apiKeys:     cfg.APIKeys,
		clients:     make(map[string]generator),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		tracker:     tracker,
		logger:      log,
		newModels: func(ctx context.Context, key string) (generator, error) {
			client, err := genai.NewClient(ctx, &genai.ClientConfig{
				APIKey:  key,
				Backend: genai.BackendGeminiAPI,
			})
			if err != nil {
				return nil, err
			}
			return client.Models, nil
		},
	}
}

func (g *geminiClient) Available() bool {
	return len(g.apiKeys) > 0
}

// Generate sends the request, rotating API keys on 429 / quota errors.
func (g *geminiClient) Generate(ctx context.Context, req Request) (*Response, error) {
	if !g.Available() {
		return nil, ErrNotConfigured
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = g.temperature
	}
	cfg := &genai.GenerateContentConfig{Temperature: &temperature}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	var lastErr error
	for range len(g.apiKeys) {
		idx, models, err := g.current(ctx)
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			g.rotateKey()
			continue
		}

		result, err := models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), cfg)
		if err != nil {
			if isRateLimited(err) {
				g.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
				g.rotateKey()
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("generate content: %w", err)
		}

		resp := &Response{Model: g.model, Text: responseText(result)}
		if result != nil && result.UsageMetadata != nil {
			resp.InputTokens = int(result.UsageMetadata.PromptTokenCount)
			resp.OutputTokens = int(result.UsageMetadata.CandidatesTokenCount)
		}
		g.tracker.LLM(ctx, req.Operation, g.model, resp.InputTokens, resp.OutputTokens)

		if resp.Text == "" {
			return nil, ErrEmptyResponse
		}
		return resp, nil
	}

	return nil, fmt.Errorf("%w: %w", ErrKeysExhausted, lastErr)
}

func (g *geminiClient) current(ctx context.Context) (int, generator, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := g.currentKey
	key := g.apiKeys[idx]
	if c, ok := g.clients[key]; ok {
		return idx, c, nil
	}
	c, err := g.newModels(ctx, key)
	if err != nil {
		return idx, nil, err
	}
	g.clients[key] = c
	return idx, c, nil
}

func (g *geminiClient) rotateKey() {
	g.mu.Lock()
	g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
	g.mu.Unlock()
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func responseText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}
	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	return text.String()
}
