package snapshot

import (
	"log/slog"
	"runtime"

	"github.com/hupe1980/nindex/internal/resource"
)

// Option configures snapshot operations.
type Option func(*options)

type options struct {
	codec       Codec
	logger      *slog.Logger
	controller  *resource.Controller
	rateLimit   int64
	concurrency int
	maxRawSize  int64
}

// DefaultMaxRawSize is the largest snapshot Decode and Restore allocate by
// default.
const DefaultMaxRawSize = 16 << 30

func applyOptions(opts []Option) options {
	o := options{
		codec:       CodecLZ4,
		logger:      slog.New(slog.DiscardHandler),
		concurrency: runtime.GOMAXPROCS(0),
		maxRawSize:  DefaultMaxRawSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.controller == nil && o.rateLimit > 0 {
		o.controller = resource.NewController(resource.Config{
			MaxConcurrency: int64(o.concurrency),
			BytesPerSec:    o.rateLimit,
		})
	}
	return o
}

// WithCompression selects the payload codec. Default: CodecLZ4.
func WithCompression(c Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithLogger logs completed saves and restores at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRateLimit caps transfer bandwidth in bytes per second. It is ignored
// when WithController is given.
func WithRateLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.rateLimit = bytesPerSec
	}
}

// WithController shares memory, concurrency and bandwidth limits with other
// users of c.
func WithController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// WithConcurrency bounds the parallel uploads of SaveAll.
// Default: GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithMaxRawSize rejects snapshots whose frame announces more than n raw
// bytes, before anything is allocated. Default: DefaultMaxRawSize.
func WithMaxRawSize(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxRawSize = n
		}
	}
}
