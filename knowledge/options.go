package knowledge

import (
	"log/slog"

	"github.com/growbot/faqrag/codec"
	"github.com/growbot/faqrag/internal/compress"
	"github.com/growbot/faqrag/resource"
)

type options struct {
	compression compress.Type
	codec       codec.Codec
	rc          *resource.Controller
	logger      *slog.Logger
	buildID     string
	verify      bool
}

func defaultOptions() options {
	return options{
		compression: compress.LZ4,
		codec:       codec.Default,
		logger:      slog.New(slog.DiscardHandler),
		verify:      true,
	}
}

// Option configures loading and building.
type Option func(*options)

// WithCompression sets the artifact compression for builds.
func WithCompression(t compress.Type) Option {
	return func(o *options) { o.compression = t }
}

// WithCodec sets the record codec for builds.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithResourceController paces artifact IO and bounds embedding workers.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) { o.rc = rc }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithBuildID fixes the build id instead of generating one.
func WithBuildID(id string) Option {
	return func(o *options) { o.buildID = id }
}

// WithoutManifestVerification skips checking artifact sizes and checksums
// against the manifest on Load. Artifact headers are still verified.
func WithoutManifestVerification() Option {
	return func(o *options) { o.verify = false }
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
