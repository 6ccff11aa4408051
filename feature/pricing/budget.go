package pricing

import (
	"context"
	"sync/atomic"
	"time"

	"collection-pricer/core/clock"
	"collection-pricer/core/metrics"

	"go.uber.org/zap"
)

// BudgetGuard caps scraped fetches per refresh run. Each consumed unit is followed
// by a fixed delay to keep the request rate polite.
type BudgetGuard struct {
	max     int64
	used    atomic.Int64
	delay   time.Duration
	logger  *zap.Logger
	metrics *metrics.Manager
}

// NewBudgetGuard returns a guard allowing cfg.MaxFetchPerRun units per run.
func NewBudgetGuard(cfg BudgetConfig, logger *zap.Logger, m *metrics.Manager) *BudgetGuard {
	return &BudgetGuard{
		max:     int64(cfg.MaxFetchPerRun),
		delay:   cfg.FetchDelay,
		logger:  logger,
		metrics: m,
	}
}

// TryConsume takes one unit if any remain. A denial is a normal outcome, not an
// error. The delay after a granted unit honours ctx; if ctx ends during it the
// unit stays spent and false is returned.
func (b *BudgetGuard) TryConsume(ctx context.Context) bool {
	for {
		n := b.used.Load()
		if n >= b.max {
			b.metrics.BudgetDenied()
			b.logger.Debug("Scraped fetch budget exhausted", zap.Int64("max", b.max))
			return false
		}
		if b.used.CompareAndSwap(n, n+1) {
			b.metrics.BudgetUsed(int(n + 1))
			break
		}
	}
	return clock.Sleep(ctx, b.delay) == nil
}

// Reset zeroes the counter at the start of a run.
func (b *BudgetGuard) Reset() {
	b.used.Store(0)
	b.metrics.BudgetUsed(0)
}

// Restore sets the counter to n when resuming a run.
func (b *BudgetGuard) Restore(n int) {
	if n < 0 {
		n = 0
	}
	b.used.Store(int64(n))
	b.metrics.BudgetUsed(n)
}

// Used returns the units consumed so far.
func (b *BudgetGuard) Used() int {
	return int(b.used.Load())
}

// Remaining returns the units left in this run.
func (b *BudgetGuard) Remaining() int {
	r := b.max - b.used.Load()
	if r < 0 {
		return 0
	}
	return int(r)
}
