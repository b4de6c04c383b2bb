// Package extract runs the full extraction pipeline for one label photo:
// input validation, the breaker-guarded retryable vision call, result
// validation, unit normalization, and unit price calculation.
package extract

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shelfwise/pricescan/internal/apperr"
	"github.com/shelfwise/pricescan/internal/model"
	"github.com/shelfwise/pricescan/internal/monitoring"
	"github.com/shelfwise/pricescan/internal/pricing"
	"github.com/shelfwise/pricescan/internal/resilience"
	"github.com/shelfwise/pricescan/internal/units"
	"github.com/shelfwise/pricescan/pkg/vision"
)

// DefaultMaxImageBytes is the API-side upload limit (10 MiB).
const DefaultMaxImageBytes = 10 << 20

// Stage identifies a completed pipeline step, reported through the
// progress hook. Stages are cosmetic notifications, not pacing.
type Stage string

const (
	StageValidating       Stage = "validating"
	StageCalling          Stage = "calling"
	StageValidatingResult Stage = "validating_result"
	StageNormalizing      Stage = "normalizing"
	StageCalculating      Stage = "calculating"
	StageDone             Stage = "done"
)

// Result is the outcome of one successful extraction.
type Result struct {
	RequestID string                 `json:"request_id"`
	Data      model.ExtractedData    `json:"data"`
	Weight    model.NormalizedWeight `json:"weight"`
	UnitPrice model.UnitPriceResult  `json:"unit_price"`
	Elapsed   time.Duration          `json:"elapsed_ns"`
}

// Options tunes an Orchestrator.
type Options struct {
	// MaxImageBytes is the API-side size limit. Default: 10 MiB. The
	// stricter upload-side limit is enforced separately by the transport.
	MaxImageBytes int64

	// Retry configures the backoff around the vision call.
	Retry resilience.RetryConfig

	// OnStage, if set, is invoked after each pipeline stage completes.
	OnStage func(Stage)

	// AggregateValidation switches result validation to the API-facing
	// variant that names every invalid field in one message, instead of
	// first-failure-wins.
	AggregateValidation bool

	// Metrics, if set, records extraction outcomes and retries.
	Metrics *monitoring.Collector
}

// Orchestrator owns the end-to-end pipeline. All dependencies are
// injected at construction; there is no lazily initialized global state.
type Orchestrator struct {
	client  vision.Client
	breaker *resilience.CircuitBreaker
	opts    Options
}

// New creates an Orchestrator. The breaker is shared process-wide; each
// call's retry loop is independent per-request state.
func New(client vision.Client, breaker *resilience.CircuitBreaker, opts Options) *Orchestrator {
	if opts.MaxImageBytes <= 0 {
		opts.MaxImageBytes = DefaultMaxImageBytes
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = resilience.DefaultRetryConfig()
	}
	return &Orchestrator{client: client, breaker: breaker, opts: opts}
}

func (o *Orchestrator) notify(stage Stage) {
	if o.opts.OnStage != nil {
		o.opts.OnStage(stage)
	}
}

// Extract runs the pipeline for one image. Every failure is an
// *apperr.Error carrying a code, user message, and suggestions.
func (o *Orchestrator) Extract(ctx context.Context, image []byte, mimeType string) (*Result, error) {
	requestID := uuid.NewString()
	start := time.Now()
	log := zap.L().With(zap.String("request_id", requestID))

	res, err := o.extract(ctx, log, image, mimeType)
	if err != nil {
		appErr := apperr.From(err, apperr.CodeAPIError)
		o.opts.Metrics.RecordFailure(appErr.Code)
		log.Warn("extraction failed",
			zap.String("code", string(appErr.Code)),
			zap.String("category", appErr.Category().String()),
			zap.Error(appErr),
		)
		return nil, appErr
	}

	res.RequestID = requestID
	res.Elapsed = time.Since(start)
	o.opts.Metrics.RecordSuccess()
	o.notify(StageDone)
	log.Info("extraction complete",
		zap.String("product", res.Data.Product.Name),
		zap.Float64("price_per_unit", res.UnitPrice.PricePerUnit),
		zap.String("unit", string(res.UnitPrice.Unit)),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

func (o *Orchestrator) extract(ctx context.Context, log *zap.Logger, image []byte, mimeType string) (*Result, error) {
	if err := ValidateImage(int64(len(image)), mimeType, o.opts.MaxImageBytes); err != nil {
		return nil, err
	}
	o.notify(StageValidating)

	data, err := o.callVision(ctx, image, mimeType)
	if err != nil {
		return nil, err
	}
	o.notify(StageCalling)

	validate := ValidateData
	if o.opts.AggregateValidation {
		validate = ValidateDataAggregate
	}
	if err := validate(data); err != nil {
		return nil, err
	}
	o.notify(StageValidatingResult)

	weight, err := units.Normalize(data.Weight)
	if err != nil {
		// Should not happen once validation passed.
		return nil, apperr.Wrap(apperr.CodeAPIError, err).WithMessage("normalize weight")
	}
	o.notify(StageNormalizing)

	unitPrice, err := pricing.Calculate(data.Price, weight)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeAPIError, err).WithMessage("calculate unit price")
	}
	o.notify(StageCalculating)

	log.Debug("pipeline stages complete",
		zap.Float64("normalized_weight", weight.Value),
		zap.String("canonical_unit", string(weight.Unit)),
	)

	return &Result{Data: *data, Weight: weight, UnitPrice: unitPrice}, nil
}

// callVision wraps the external call: the circuit breaker guards the
// whole retry sequence, so one exhausted sequence counts as one failure.
func (o *Orchestrator) callVision(ctx context.Context, image []byte, mimeType string) (*model.ExtractedData, error) {
	retryCfg := o.opts.Retry
	if retryCfg.OnRetry == nil {
		logRetry := resilience.RetryLogger("vision", "analyze_image")
		retryCfg.OnRetry = func(attempt int, err error) {
			o.opts.Metrics.RecordRetry()
			logRetry(attempt, err)
		}
	}

	data, err := resilience.ExecuteVal(ctx, o.breaker, func(ctx context.Context) (*model.ExtractedData, error) {
		return resilience.DoVal(ctx, retryCfg, func(ctx context.Context) (*model.ExtractedData, error) {
			return o.client.AnalyzeImage(ctx, image, mimeType)
		})
	})
	if err != nil {
		if errors.Is(err, resilience.ErrCircuitOpen) {
			return nil, apperr.Wrap(apperr.CodeNetworkError, err).
				WithMessage("circuit breaker open").
				WithUserMessage("The analysis service is temporarily unavailable.").
				WithSuggestions("Wait a minute before trying again")
		}
		return nil, apperr.FromAPICall(err)
	}
	return data, nil
}
