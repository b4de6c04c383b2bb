// Package vision wraps the AI vision model that turns a label photo into
// structured price, weight, and product fields.
package vision

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shelfwise/pricescan/internal/model"
)

// Client is the single outbound dependency of the extraction pipeline.
type Client interface {
	// AnalyzeImage sends image bytes to the vision model and returns the
	// structured fields read from the label. Failures are classified into
	// the apperr taxonomy.
	AnalyzeImage(ctx context.Context, image []byte, mimeType string) (*model.ExtractedData, error)
}

// Config holds settings for the SDK-backed client.
type Config struct {
	APIKey string
	Model  string

	// MaxTokens bounds the model response. Default: 1024.
	MaxTokens int64

	// CallTimeout bounds a single AnalyzeImage call. Default: 30s.
	CallTimeout time.Duration

	// RequestsPerMinute throttles outbound calls. Default: 30.
	RequestsPerMinute float64
}

func (c Config) withDefaults() Config {
	if c.MaxTokens <= 0 {
		c.MaxTokens = 1024
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = 30 * time.Second
	}
	if c.RequestsPerMinute <= 0 {
		c.RequestsPerMinute = 30
	}
	return c
}

// TokenUsage tracks token consumption for one call.
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
}

// modelPricing holds per-million-token pricing for known models.
var modelPricing = map[string][2]float64{
	// model → {input $/MTok, output $/MTok}
	"claude-haiku-4-5-20251001":  {0.80, 4.00},
	"claude-sonnet-4-5-20250929": {3.00, 15.00},
}

// EstimateCost computes an estimated cost in USD from a TokenUsage and
// model ID. Returns 0 for unknown models.
func (u TokenUsage) EstimateCost(modelID string) float64 {
	pricing, ok := modelPricing[modelID]
	if !ok {
		return 0
	}
	inCost := (float64(u.InputTokens) / 1e6) * pricing[0]
	outCost := (float64(u.OutputTokens) / 1e6) * pricing[1]
	return inCost + outCost
}

// LogCost logs token usage and estimated cost with structured fields.
func (u TokenUsage) LogCost(modelID string) {
	zap.L().Info("cost attribution",
		zap.String("model", modelID),
		zap.Int64("input_tokens", u.InputTokens),
		zap.Int64("output_tokens", u.OutputTokens),
		zap.Float64("estimated_cost_usd", u.EstimateCost(modelID)),
	)
}
