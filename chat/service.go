package chat

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/growbot/faqrag/embed"
	"github.com/growbot/faqrag/generate"
	"github.com/growbot/faqrag/knowledge"
)

// ErrEmptyMessage is returned by Answer for an empty message.
var ErrEmptyMessage = errors.New("chat: no message provided")

// Retriever returns the k records nearest to a query vector.
// *knowledge.Store and *knowledge.Handle implement it.
type Retriever interface {
	Retrieve(ctx context.Context, query []float32, k int) ([]knowledge.Record, error)
}

// Metrics receives per-stage timings. A faqrag.MetricsCollector satisfies it.
type Metrics interface {
	RecordEmbed(d time.Duration, err error)
	RecordRetrieve(d time.Duration, results int, err error)
	RecordGenerate(d time.Duration, err error)
}

type noopMetrics struct{}

func (noopMetrics) RecordEmbed(time.Duration, error)         {}
func (noopMetrics) RecordRetrieve(time.Duration, int, error) {}
func (noopMetrics) RecordGenerate(time.Duration, error)      {}

// Service answers questions against a knowledge base.
type Service struct {
	emb     embed.Embedder
	store   Retriever
	gen     generate.Generator
	k       int
	logger  *slog.Logger
	metrics Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithTopK sets how many records feed the prompt. The default is 1.
func WithTopK(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.k = k
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// NewService creates a Service.
func NewService(emb embed.Embedder, store Retriever, gen generate.Generator, opts ...Option) *Service {
	s := &Service{
		emb:     emb,
		store:   store,
		gen:     gen,
		k:       1,
		logger:  slog.New(slog.DiscardHandler),
		metrics: noopMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Answer returns the reply to message. The only error is ErrEmptyMessage;
// every other failure is logged and answered with a fallback text.
func (s *Service) Answer(ctx context.Context, message string) (string, error) {
	if message == "" {
		return "", ErrEmptyMessage
	}

	start := time.Now()
	query, err := s.emb.Embed(ctx, message)
	s.metrics.RecordEmbed(time.Since(start), err)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "embed question failed", slog.String("error", err.Error()))
		return FallbackUpstream, nil
	}

	start = time.Now()
	records, err := s.store.Retrieve(ctx, query, s.k)
	s.metrics.RecordRetrieve(time.Since(start), len(records), err)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "retrieve failed", slog.String("error", err.Error()))
		if isUnavailable(err) {
			return FallbackUnavailable, nil
		}
		return FallbackUpstream, nil
	}

	attrs := []slog.Attr{slog.Int("results", len(records))}
	if len(records) > 0 {
		attrs = append(attrs, slog.Int("record_id", records[0].ID))
	}
	s.logger.LogAttrs(ctx, slog.LevelDebug, "retrieved context", attrs...)

	prompt := BuildPrompt(ContextFor(records), message)

	start = time.Now()
	answer, err := s.gen.Generate(ctx, prompt)
	s.metrics.RecordGenerate(time.Since(start), err)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "generate failed",
			slog.String("model", s.gen.Name()),
			slog.String("error", err.Error()),
		)
		return FallbackUpstream, nil
	}
	return answer, nil
}

func isUnavailable(err error) bool {
	return errors.Is(err, knowledge.ErrNotLoaded) ||
		errors.Is(err, knowledge.ErrNotFound) ||
		errors.Is(err, knowledge.ErrCorruptArtifact)
}
