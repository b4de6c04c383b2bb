package monitoring

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shelfwise/pricescan/internal/apperr"
)

func TestCollector_Counts(t *testing.T) {
	c := NewCollector()
	c.RecordSuccess()
	c.RecordSuccess()
	c.RecordFailure(apperr.CodeNoPriceDetected)
	c.RecordFailure(apperr.CodeNetworkError)
	c.RecordFailure(apperr.CodeNetworkError)
	c.RecordRetry()

	snap := c.Collect()
	assert.Equal(t, 5, snap.Total)
	assert.Equal(t, 2, snap.Succeeded)
	assert.Equal(t, 3, snap.Failed)
	assert.Equal(t, 1, snap.Retries)
	assert.InDelta(t, 0.6, snap.FailRate, 1e-9)
	assert.Equal(t, 2, snap.FailuresByCode["NETWORK_ERROR"])
	assert.Equal(t, 1, snap.FailuresByCode["NO_PRICE_DETECTED"])
}

func TestCollector_EmptySnapshot(t *testing.T) {
	snap := NewCollector().Collect()
	assert.Zero(t, snap.Total)
	assert.Zero(t, snap.FailRate)
	assert.Nil(t, snap.FailuresByCode)
}

func TestCollector_NilIsNoOp(t *testing.T) {
	var c *Collector
	c.RecordSuccess()
	c.RecordFailure(apperr.CodeAPIError)
	c.RecordRetry()
	assert.Zero(t, c.Collect().Total)
}

func TestCollector_ConcurrentRecording(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RecordSuccess()
			c.RecordFailure(apperr.CodeNetworkError)
		}()
	}
	wg.Wait()

	snap := c.Collect()
	assert.Equal(t, 100, snap.Total)
	assert.Equal(t, 50, snap.Succeeded)
	assert.Equal(t, 50, snap.Failed)
}
