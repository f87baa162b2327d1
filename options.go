package nindex

import (
	"log/slog"

		"github.com/hupe1980/nindex/rbtree"
	"github.com/hupe1980/nindex/snapshot"
	"github.com/hupe1980/nindex/storage"
)

type options struct {
	name             string
	rollups          []rbtree.Rollup
	headSize         int
	metricsCollector MetricsCollector
	logger           *Logger
	snapshotOptions  []snapshot.Option
	accessPattern    storage.AccessPattern
}

// Option configures Index constructors.
type Option func(*options)

// WithName names the index. The name tags log records and prefixes
// snapshot blob names. Default: "index".
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithRollups attaches extra rollups after the built-in subtree count.
// A stored index must be reopened with the same rollups in the same order.
func WithRollups(rollups ...rbtree.Rollup) Option {
	return func(o *options) {
		o.rollups = append(o.rollups, rollups...)
	}
}

// WithHeadSize reserves n bytes of caller-defined header, available through
// Index.Head.
func WithHeadSize(n int) Option {
	return func(o *options) {
		o.headSize = n
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &nindex.BasicMetricsCollector{}
//	idx, _ := nindex.New[int, int64](n, keys, values, cmp.Compare[int], nindex.WithMetricsCollector(metrics))
//	// ... use idx ...
//	stats := metrics.GetStats()
//	fmt.Printf("Inserts: %d, Avg latency: %dns\n", stats.InsertCount, stats.InsertAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := nindex.NewJSONLogger(slog.LevelInfo)
//	idx, _ := nindex.OpenFile[int, int64](path, n, keys, values, cmp.Compare[int], nindex.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithSnapshotOptions sets the options used by Snapshot and Restore, e.g.
// snapshot.WithCompression or snapshot.WithRateLimit.
func WithSnapshotOptions(opts ...snapshot.Option) Option {
	return func(o *options) {
		o.snapshotOptions = append(o.snapshotOptions, opts...)
	}
}

// WithAccessPattern passes a madvise hint to file-backed indexes.
// Default: storage.AccessRandom.
func WithAccessPattern(p storage.AccessPattern) Option {
	return func(o *options) {
		o.accessPattern = p
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		name:             "index",
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		accessPattern:    storage.AccessRandom,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o *options) treeOptions() []rbtree.Option {
	rollups := append([]rbtree.Rollup{rbtree.NewCount()}, o.rollups...)
	return []rbtree.Option{
		rbtree.WithRollups(rollups...),
		rbtree.WithHeadSize(o.headSize),
	}
}
