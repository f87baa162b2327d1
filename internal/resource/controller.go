package resource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrMemoryLimitExceeded is returned when a single request is larger than the
// whole memory budget.
var ErrMemoryLimitExceeded = errors.New("resource: memory limit exceeded")

// Config holds resource limits. Zero values disable a limit.
type Config struct {
	// MemoryLimitBytes caps memory held by in-flight transfers and caches.
	MemoryLimitBytes int64
	// MaxConcurrency caps parallel transfers. Defaults to 1.
	MaxConcurrency int64
	// BytesPerSec caps transfer bandwidth.
	BytesPerSec int64
}

// Controller enforces a Config.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	workers *semaphore.Weighted

	limiter *rate.Limiter // nil if unlimited
}

// NewController creates a controller for cfg.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 1
	}

	c := &Controller{
		cfg:     cfg,
		workers: semaphore.NewWeighted(cfg.MaxConcurrency),
	}
	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}
	if cfg.BytesPerSec > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.BytesPerSec), burst(cfg.BytesPerSec))
	}
	return c
}

func burst(bytesPerSec int64) int {
	const maxBurst = 1 << 30
	return int(min(bytesPerSec, maxBurst))
}

// Config returns the limits in effect.
func (c *Controller) Config() Config {
	if c == nil {
		return Config{MaxConcurrency: 1}
	}
	return c.cfg
}

// AcquireMemory blocks until n bytes fit in the budget or ctx is done.
func (c *Controller) AcquireMemory(ctx context.Context, n int64) error {
	if c == nil || n <= 0 {
		return nil
	}
	if c.memSem != nil {
		if n > c.cfg.MemoryLimitBytes {
			return fmt.Errorf("%w: %d > %d", ErrMemoryLimitExceeded, n, c.cfg.MemoryLimitBytes)
		}
		if err := c.memSem.Acquire(ctx, n); err != nil {
			return err
		}
	}
	c.memUsed.Add(n)
	return nil
}

// TryAcquireMemory reserves n bytes without blocking.
func (c *Controller) TryAcquireMemory(n int64) bool {
	if c == nil || n <= 0 {
		return true
	}
	if c.memSem != nil && !c.memSem.TryAcquire(n) {
		return false
	}
	c.memUsed.Add(n)
	return true
}

// ReleaseMemory returns n bytes to the budget.
func (c *Controller) ReleaseMemory(n int64) {
	if c == nil || n <= 0 {
		return
	}
	if c.memSem != nil {
		c.memSem.Release(n)
	}
	c.memUsed.Add(-n)
}

// MemoryUsage returns the bytes currently reserved.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// Acquire blocks until a worker slot is free or ctx is done.
func (c *Controller) Acquire(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.workers.Acquire(ctx, 1)
}

// TryAcquire takes a worker slot without blocking.
func (c *Controller) TryAcquire() bool {
	if c == nil {
		return true
	}
	return c.workers.TryAcquire(1)
}

// Release frees a worker slot.
func (c *Controller) Release() {
	if c == nil {
		return
	}
	c.workers.Release(1)
}

// WaitIO blocks until n bytes may be transferred.
func (c *Controller) WaitIO(ctx context.Context, n int) error {
	if c == nil || c.limiter == nil {
		return nil
	}
	b := c.limiter.Burst()
	for n > 0 {
		chunk := min(n, b)
		if err := c.limiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// NewWriter returns w throttled to the bandwidth limit.
func (c *Controller) NewWriter(ctx context.Context, w io.Writer) io.Writer {
	if c == nil || c.limiter == nil {
		return w
	}
	return &limitedWriter{ctx: ctx, w: w, c: c}
}

// NewReader returns r throttled to the bandwidth limit.
func (c *Controller) NewReader(ctx context.Context, r io.Reader) io.Reader {
	if c == nil || c.limiter == nil {
		return r
	}
	return &limitedReader{ctx: ctx, r: r, c: c}
}

type limitedWriter struct {
	ctx context.Context
	w   io.Writer
	c   *Controller
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	if err := lw.c.WaitIO(lw.ctx, len(p)); err != nil {
		return 0, err
	}
	return lw.w.Write(p)
}

type limitedReader struct {
	ctx context.Context
	r   io.Reader
	c   *Controller
}

func (lr *limitedReader) Read(p []byte) (int, error) {
	n, err := lr.r.Read(p)
	if n > 0 {
		if werr := lr.c.WaitIO(lr.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}
