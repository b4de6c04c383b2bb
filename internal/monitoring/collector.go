// Package monitoring gathers process-local extraction metrics. All state
// is in-memory and resets on restart.
package monitoring

import (
	"sync"
	"time"

	"github.com/shelfwise/pricescan/internal/apperr"
)

// Collector counts extraction outcomes and retries. A nil *Collector is
// a valid no-op, so callers never have to guard recording calls.
type Collector struct {
	mu             sync.Mutex
	total          int
	succeeded      int
	failed         int
	retries        int
	failuresByCode map[apperr.Code]int
	startedAt      time.Time
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		failuresByCode: make(map[apperr.Code]int),
		startedAt:      time.Now().UTC(),
	}
}

// RecordSuccess counts one completed extraction.
func (c *Collector) RecordSuccess() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total++
	c.succeeded++
}

// RecordFailure counts one failed extraction under its error code.
func (c *Collector) RecordFailure(code apperr.Code) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total++
	c.failed++
	c.failuresByCode[code]++
}

// RecordRetry counts one retried vision call attempt.
func (c *Collector) RecordRetry() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.retries++
}

// Snapshot is a point-in-time view of extraction health.
type Snapshot struct {
	Total          int            `json:"total"`
	Succeeded      int            `json:"succeeded"`
	Failed         int            `json:"failed"`
	FailRate       float64        `json:"fail_rate"`
	Retries        int            `json:"retries"`
	FailuresByCode map[string]int `json:"failures_by_code,omitempty"`
	StartedAt      time.Time      `json:"started_at"`
	CollectedAt    time.Time      `json:"collected_at"`
}

// Collect returns a snapshot of the current counters.
func (c *Collector) Collect() Snapshot {
	if c == nil {
		return Snapshot{CollectedAt: time.Now().UTC()}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Total:       c.total,
		Succeeded:   c.succeeded,
		Failed:      c.failed,
		Retries:     c.retries,
		StartedAt:   c.startedAt,
		CollectedAt: time.Now().UTC(),
	}
	if c.total > 0 {
		snap.FailRate = float64(c.failed) / float64(c.total)
	}
	if len(c.failuresByCode) > 0 {
		snap.FailuresByCode = make(map[string]int, len(c.failuresByCode))
		for code, n := range c.failuresByCode {
			snap.FailuresByCode[string(code)] = n
		}
	}
	return snap
}
