package session

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBatchSize  = 500
	defaultBatchPause = 250 * time.Millisecond
)

// Cleaner reclaims expired sessions on a fixed timer, deleting in bounded
// batches with a pause between them so a backlog never stalls concurrent
// session reads.
type Cleaner struct {
	store      Store
	interval   time.Duration
	batchSize  int
	batchPause time.Duration
	lg         *zap.SugaredLogger
}

func NewCleaner(store Store, interval time.Duration, lg *zap.SugaredLogger) *Cleaner {
	return &Cleaner{
		store:      store,
		interval:   interval,
		batchSize:  defaultBatchSize,
		batchPause: defaultBatchPause,
		lg:         lg,
	}
}

// Run blocks until ctx is cancelled. Start it on its own goroutine.
func (c *Cleaner) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sweep(ctx)
		}
	}
}

func (c *Cleaner) sweep(ctx context.Context) {
	var total int64
	for {
		n, err := c.store.DeleteExpired(ctx, c.batchSize)
		if err != nil {
			c.lg.Warnw("session cleanup pass failed", "error", err)
			return
		}
		total += n
		if n < int64(c.batchSize) {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(c.batchPause):
		}
	}
	if total > 0 {
		c.lg.Infow("reclaimed expired sessions", "count", total)
	}
}
