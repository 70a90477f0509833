package usage

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/mdoc/internal/config"
	"github.com/nguyentantai21042004/mdoc/internal/logger"
)

type implTracker struct {
	store   Store
	pricing config.PricingConfig
	logger  logger.Logger
	now     func() time.Time
}

// NewTracker creates a Tracker. A nil store only logs.
func NewTracker(store Store, pricing config.PricingConfig, log logger.Logger) Tracker {
	return &implTracker{
		store:   store,
		pricing: pricing,
		logger:  log,
		now:     time.Now,
	}
}

func (t *implTracker) LLM(ctx context.Context, operation, model string, inputTokens, outputTokens int) {
	cost := float64(inputTokens)/1e6*t.pricing.GeminiInputPerMTok +
		float64(outputTokens)/1e6*t.pricing.GeminiOutputPerMTok

	t.logger.Info(ctx, "LLM usage [%s] %s: %d in / %d out tokens, est. $%.4f",
		operation, model, inputTokens, outputTokens, cost)

	t.record(ctx, Entry{
		Service:      ServiceGemini,
		Model:        model,
		Operation:    operation,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		Cost:         cost,
	})
}

func (t *implTracker) Transcription(ctx context.Context, service, model string, audioSeconds float64) {
	var cost float64
	if service == ServiceWhisperAPI {
		cost = audioSeconds / 60 * t.pricing.WhisperAPIPerMinute
	}

	t.logger.Info(ctx, "Transcription usage [%s] %s: %.1f min audio, est. $%.4f",
		service, model, audioSeconds/60, cost)

	t.record(ctx, Entry{
		Service:      service,
		Model:        model,
		Operation:    "transcribe",
		AudioSeconds: audioSeconds,
		Cost:         cost,
	})
}

func (t *implTracker) Summary(ctx context.Context, since time.Time) ([]Total, error) {
	if t.store == nil {
		return nil, nil
	}
	return t.store.UsageSummary(ctx, since)
}

func (t *implTracker) record(ctx context.Context, e Entry) {
	if t.store == nil {
		return
	}
	e.SessionGUID = SessionFrom(ctx)
	e.CreatedAt = t.now().UTC()
	if err := t.store.RecordUsage(ctx, e); err != nil {
		t.logger.Warn(ctx, "Failed to record usage for %s: %v", e.Service, err)
	}
}
