package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds transfer limits.
type Config struct {
	// IOBytesPerSec caps session read and write throughput.
	// If 0, unlimited.
	IOBytesPerSec int64

	// BufferBytes caps the blob bytes held in memory by concurrent loads.
	// If 0, only tracking is done.
	BufferBytes int64
}

// Controller enforces Config across all transfers that share it.
// A nil Controller enforces nothing.
type Controller struct {
	cfg Config

	bufSem  *semaphore.Weighted // nil if unlimited
	bufUsed atomic.Int64

	io *rate.Limiter
}

// NewController creates a controller, or returns nil when cfg sets no limit.
func NewController(cfg Config) *Controller {
	if cfg.IOBytesPerSec <= 0 && cfg.BufferBytes <= 0 {
		return nil
	}
	c := &Controller{cfg: cfg}
	if cfg.BufferBytes > 0 {
		c.bufSem = semaphore.NewWeighted(cfg.BufferBytes)
	}
	if cfg.IOBytesPerSec > 0 {
		c.io = rate.NewLimiter(rate.Limit(cfg.IOBytesPerSec), burst(cfg.IOBytesPerSec))
	}
	return c
}

func burst(perSec int64) int {
	const maxBurst = 1 << 30
	return int(min(perSec, maxBurst))
}

// AcquireBuffer blocks until n bytes fit into the buffer budget.
// Requests larger than the whole budget are clamped so they run alone.
// The returned func releases the reservation and must be called exactly once.
func (c *Controller) AcquireBuffer(ctx context.Context, n int64) (func(), error) {
	if c == nil || n <= 0 {
		return func() {}, nil
	}
	w := n
	if c.bufSem != nil {
		w = min(n, c.cfg.BufferBytes)
		if err := c.bufSem.Acquire(ctx, w); err != nil {
			return nil, err
		}
	}
	c.bufUsed.Add(n)

	var once atomic.Bool
	return func() {
		if !once.CompareAndSwap(false, true) {
			return
		}
		c.bufUsed.Add(-n)
		if c.bufSem != nil {
			c.bufSem.Release(w)
		}
	}, nil
}

// BufferUsage returns the bytes currently reserved by AcquireBuffer.
func (c *Controller) BufferUsage() int64 {
	if c == nil {
		return 0
	}
	return c.bufUsed.Load()
}

// WaitIO blocks until the rate limit admits n bytes.
func (c *Controller) WaitIO(ctx context.Context, n int) error {
	if c == nil || c.io == nil {
		return ctx.Err()
	}
	b := c.io.Burst()
	for n > 0 {
		k := min(n, b)
		if err := c.io.WaitN(ctx, k); err != nil {
			return err
		}
		n -= k
	}
	return nil
}
