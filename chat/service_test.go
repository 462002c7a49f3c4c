package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/growbot/faqrag/blobstore"
	"github.com/growbot/faqrag/embed"
	"github.com/growbot/faqrag/generate"
	"github.com/growbot/faqrag/knowledge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (s *stubEmbedder) Name() string { return "stub" }
func (s *stubEmbedder) Dim() int     { return 2 }

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return []float32{0.5, 0.5}, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := s.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func newStubEmbedder() *stubEmbedder {
	return &stubEmbedder{vectors: map[string][]float32{
		"app crashes on login":  {1, 0},
		"cannot reset password": {0, 1},
		"I can't log in":        {0.9, 0.1},
	}}
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Name() string { return "mock" }

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type retrieverFunc func(ctx context.Context, q []float32, k int) ([]knowledge.Record, error)

func (f retrieverFunc) Retrieve(ctx context.Context, q []float32, k int) ([]knowledge.Record, error) {
	return f(ctx, q, k)
}

type recordingMetrics struct {
	embeds, retrieves, generates int
	lastResults                  int
}

func (m *recordingMetrics) RecordEmbed(time.Duration, error) { m.embeds++ }
func (m *recordingMetrics) RecordRetrieve(_ time.Duration, n int, _ error) {
	m.retrieves++
	m.lastResults = n
}
func (m *recordingMetrics) RecordGenerate(time.Duration, error) { m.generates++ }

func buildStore(t *testing.T, emb embed.Embedder) *knowledge.Store {
	t.Helper()
	s, err := knowledge.BuildAndPersist(context.Background(), blobstore.NewMemoryStore(), []knowledge.RawRecord{
		{Problem: "app crashes on login", Solution: "reinstall the app"},
		{Problem: "cannot reset password", Solution: "use the forgot-password link"},
	}, emb)
	require.NoError(t, err)
	return s
}

func TestAnswerUsesNearestSolution(t *testing.T) {
	emb := newStubEmbedder()
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "reinstall the app") &&
			!strings.Contains(p, "forgot-password") &&
			strings.Contains(p, "I can't log in")
	})).Return("Try reinstalling the app.", nil).Once()

	m := &recordingMetrics{}
	svc := NewService(emb, buildStore(t, emb), gen, WithMetrics(m))

	answer, err := svc.Answer(context.Background(), "  I can't log in  ")
	require.NoError(t, err)
	assert.Equal(t, "Try reinstalling the app.", answer)
	gen.AssertExpectations(t)

	assert.Equal(t, 1, m.embeds)
	assert.Equal(t, 1, m.retrieves)
	assert.Equal(t, 1, m.generates)
	assert.Equal(t, 1, m.lastResults)
}

func TestAnswerTopK(t *testing.T) {
	emb := newStubEmbedder()
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "reinstall the app") && strings.Contains(p, "forgot-password")
	})).Return("ok", nil).Once()

	svc := NewService(emb, buildStore(t, emb), gen, WithTopK(2))
	answer, err := svc.Answer(context.Background(), "I can't log in")
	require.NoError(t, err)
	assert.Equal(t, "ok", answer)
	gen.AssertExpectations(t)
}

func TestAnswerEmptyMessage(t *testing.T) {
	gen := &mockGenerator{}
	svc := NewService(newStubEmbedder(), retrieverFunc(nil), gen)

	_, err := svc.Answer(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestAnswerWhitespaceMessage(t *testing.T) {
	emb := newStubEmbedder()
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything).Return("How can I help?", nil).Once()

	svc := NewService(emb, buildStore(t, emb), gen)
	answer, err := svc.Answer(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, "How can I help?", answer)
	gen.AssertExpectations(t)
}

func TestAnswerNoMatchUsesFallbackContext(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, FallbackNoMatch)
	})).Return("Please contact support.", nil).Once()

	empty := retrieverFunc(func(context.Context, []float32, int) ([]knowledge.Record, error) {
		return []knowledge.Record{}, nil
	})
	svc := NewService(newStubEmbedder(), empty, gen)

	answer, err := svc.Answer(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "Please contact support.", answer)
	gen.AssertExpectations(t)
}

func TestAnswerFallbacks(t *testing.T) {
	secret := "dial tcp 10.0.0.1:443: connection refused"

	tests := []struct {
		name      string
		embErr    error
		retriever Retriever
		genErr    error
		want      string
	}{
		{
			name:   "embedding failure",
			embErr: fmt.Errorf("%w: %s", embed.ErrEmbedding, secret),
			want:   FallbackUpstream,
		},
		{
			name:      "handle not loaded",
			retriever: knowledge.NewHandle(nil),
			want:      FallbackUnavailable,
		},
		{
			name: "artifact missing",
			retriever: retrieverFunc(func(context.Context, []float32, int) ([]knowledge.Record, error) {
				return nil, fmt.Errorf("%w: CURRENT", knowledge.ErrNotFound)
			}),
			want: FallbackUnavailable,
		},
		{
			name: "retrieve failure",
			retriever: retrieverFunc(func(context.Context, []float32, int) ([]knowledge.Record, error) {
				return nil, errors.New(secret)
			}),
			want: FallbackUpstream,
		},
		{
			name:   "generation failure",
			genErr: fmt.Errorf("%w: %s", generate.ErrGeneration, secret),
			want:   FallbackUpstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emb := newStubEmbedder()
			emb.err = tt.embErr

			r := tt.retriever
			if r == nil {
				r = retrieverFunc(func(context.Context, []float32, int) ([]knowledge.Record, error) {
					return []knowledge.Record{{ID: 0, Problem: "p", Solution: "s"}}, nil
				})
			}

			svc := NewService(emb, r, generate.Static{Answer: "fine", Err: tt.genErr})
			answer, err := svc.Answer(context.Background(), "help")
			require.NoError(t, err)
			assert.Equal(t, tt.want, answer)
			assert.NotContains(t, answer, "10.0.0.1")
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("use {{question}} literally", "what about {{context}}?")
	assert.Contains(t, p, "Grow Chatbot")
	assert.Contains(t, p, "use {{question}} literally")
	assert.Contains(t, p, "what about {{context}}?")
	assert.Less(t, strings.Index(p, "use {{question}}"), strings.Index(p, "what about"))
}

func TestContextFor(t *testing.T) {
	assert.Equal(t, FallbackNoMatch, ContextFor(nil))
	assert.Equal(t, "a\n\nb", ContextFor([]knowledge.Record{{Solution: "a"}, {Solution: "b"}}))
}
