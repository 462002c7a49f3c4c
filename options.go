package faqrag

import (
	"log/slog"

	"github.com/growbot/faqrag/codec"
	"github.com/growbot/faqrag/internal/compress"
	"github.com/growbot/faqrag/knowledge"
	"github.com/growbot/faqrag/resource"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	rc               *resource.Controller
	compression      compress.Type
	codec            codec.Codec
	buildID          string
	prune            bool
	skipVerify       bool
}

// Option configures Open, New and Build.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &faqrag.BasicMetricsCollector{}
//	kb, _ := faqrag.Open(ctx, store, emb, faqrag.WithMetricsCollector(metrics))
//	// ... use kb ...
//	stats := metrics.GetStats()
//	fmt.Printf("Retrievals: %d, Avg latency: %dns\n", stats.RetrieveCount, stats.RetrieveAvgNanos)
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

// WithResourceController bounds embedding workers and paces artifact IO.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) { o.rc = rc }
}

// WithCompression sets the artifact compression used by Build. The default is LZ4.
func WithCompression(t compress.Type) Option {
	return func(o *options) { o.compression = t }
}

// WithCodec sets the record codec used by Build.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithBuildID fixes the id of the next build instead of generating one.
func WithBuildID(id string) Option {
	return func(o *options) { o.buildID = id }
}

// WithPrune makes Build delete superseded builds after committing.
func WithPrune() Option {
	return func(o *options) { o.prune = true }
}

// WithoutManifestVerification skips comparing artifact sizes and checksums
// with the manifest on load.
func WithoutManifestVerification() Option {
	return func(o *options) { o.skipVerify = true }
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		compression:      compress.LZ4,
		codec:            codec.Default,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o options) knowledgeOptions() []knowledge.Option {
	opts := []knowledge.Option{
		knowledge.WithLogger(o.logger.Logger),
		knowledge.WithResourceController(o.rc),
		knowledge.WithCompression(o.compression),
		knowledge.WithCodec(o.codec),
	}
	if o.buildID != "" {
		opts = append(opts, knowledge.WithBuildID(o.buildID))
	}
	if o.skipVerify {
		opts = append(opts, knowledge.WithoutManifestVerification())
	}
	return opts
}
