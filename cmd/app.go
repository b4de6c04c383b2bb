package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/shelfwise/pricescan/internal/config"
	"github.com/shelfwise/pricescan/internal/extract"
	"github.com/shelfwise/pricescan/internal/history"
	"github.com/shelfwise/pricescan/internal/monitoring"
	"github.com/shelfwise/pricescan/internal/resilience"
	"github.com/shelfwise/pricescan/pkg/vision"
)

// appEnv wires the process-lifetime dependencies: one vision client, one
// circuit breaker guarding it, the metrics collector, and the ephemeral
// scan history.
type appEnv struct {
	Orchestrator *extract.Orchestrator
	Breaker      *resilience.CircuitBreaker
	Metrics      *monitoring.Collector
	History      *history.Store
}

// newAppEnv constructs the pipeline from config. Everything is explicit;
// nothing is lazily initialized. aggregateValidation selects the
// API-facing multi-field validation used by the server.
func newAppEnv(cfg *config.Config, aggregateValidation bool) *appEnv {
	client := vision.NewClient(vision.Config{
		APIKey:            cfg.Anthropic.Key,
		Model:             cfg.Anthropic.Model,
		MaxTokens:         cfg.Anthropic.MaxTokens,
		CallTimeout:       time.Duration(cfg.Anthropic.CallTimeoutSecs) * time.Second,
		RequestsPerMinute: cfg.Anthropic.RequestsPerMinute,
	})

	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		FailureThreshold: cfg.Breaker.FailureThreshold,
		RecoveryTimeout:  time.Duration(cfg.Breaker.RecoveryTimeoutSecs) * time.Second,
		OnStateChange: func(from, to resilience.CircuitState) {
			zap.L().Warn("circuit breaker state change",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	metrics := monitoring.NewCollector()

	orch := extract.New(client, breaker, extract.Options{
		MaxImageBytes: cfg.Limits.MaxImageBytes,
		Retry: resilience.RetryConfig{
			MaxAttempts: cfg.Retry.MaxAttempts,
			BaseDelay:   time.Duration(cfg.Retry.BaseDelayMS) * time.Millisecond,
			MaxDelay:    time.Duration(cfg.Retry.MaxDelayMS) * time.Millisecond,
			Multiplier:  cfg.Retry.Multiplier,
		},
		Metrics:             metrics,
		AggregateValidation: aggregateValidation,
	})

	return &appEnv{
		Orchestrator: orch,
		Breaker:      breaker,
		Metrics:      metrics,
		History:      history.NewStore(cfg.History.Capacity),
	}
}
