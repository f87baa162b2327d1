// Package resource budgets the memory, concurrency and bandwidth used when
// moving arena buffers to and from blob stores.
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 256 << 20,
//	    MaxConcurrency:   4,
//	    BytesPerSec:      50 << 20,
//	})
//
//	if err := rc.AcquireMemory(ctx, n); err != nil {
//	    return err
//	}
//	defer rc.ReleaseMemory(n)
//
//	w := rc.NewWriter(ctx, dst) // rate limited
//
// Memory is held in a weighted semaphore, worker slots in a second one and
// bandwidth in a token bucket. Every method is safe on a nil *Controller and
// then grants everything immediately.
package resource
