package embed

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"

	"github.com/growbot/faqrag/distance"
)

// Hashing is a deterministic bag-of-words feature hashing embedder.
// Words are lower-cased, stripped of punctuation, filtered against a stop
// word list, optionally mapped through synonyms, and hashed (FNV-1a) into
// dim buckets. The result is L2 normalized.
type Hashing struct {
	name     string
	dim      int
	synonyms map[string]string
}

// HashingOption configures a Hashing embedder.
type HashingOption func(*Hashing)

// WithSynonyms maps words to a canonical form before hashing.
func WithSynonyms(synonyms map[string]string) HashingOption {
	return func(h *Hashing) {
		for k, v := range synonyms {
			h.synonyms[strings.ToLower(k)] = strings.ToLower(v)
		}
	}
}

// WithName overrides the model name recorded in manifests.
func WithName(name string) HashingOption {
	return func(h *Hashing) { h.name = name }
}

// NewHashing creates a hashing embedder with dim buckets.
func NewHashing(dim int, opts ...HashingOption) *Hashing {
	if dim <= 0 {
		dim = 256
	}
	h := &Hashing{
		name:     fmt.Sprintf("hashing-%d", dim),
		dim:      dim,
		synonyms: make(map[string]string),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Name returns the name of the embedder.
func (h *Hashing) Name() string { return h.name }

// Dim returns the dimension of the embeddings.
func (h *Hashing) Dim() int { return h.dim }

// Embed embeds one text. Text without any indexable word maps to the zero vector.
func (h *Hashing) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float32, h.dim)
	for _, w := range Tokenize(text) {
		if canonical, ok := h.synonyms[w]; ok {
			w = canonical
		}
		if w == "" || isStopWord(w) {
			continue
		}
		f := fnv.New32a()
		_, _ = f.Write([]byte(w))
		vec[f.Sum32()%uint32(h.dim)] += 1
	}

	distance.NormalizeL2InPlace(vec)
	return vec, nil
}

// EmbedBatch embeds texts in order.
func (h *Hashing) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := h.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Tokenize lower-cases text and splits it into words. Apostrophes inside a
// word are kept ("can't"), all other punctuation separates words.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

var stopWords = map[string]bool{
	"i": true, "me": true, "my": true, "myself": true, "we": true, "our": true, "ours": true, "ourselves": true,
	"you": true, "your": true, "yours": true, "yourself": true, "yourselves": true, "he": true, "him": true,
	"his": true, "himself": true, "she": true, "her": true, "hers": true, "herself": true, "it": true, "its": true,
	"itself": true, "they": true, "them": true, "their": true, "theirs": true, "themselves": true, "what": true,
	"which": true, "who": true, "whom": true, "this": true, "that": true, "these": true, "those": true, "am": true,
	"is": true, "are": true, "was": true, "were": true, "be": true, "been": true, "being": true, "have": true,
	"has": true, "had": true, "having": true, "do": true, "does": true, "did": true, "doing": true, "a": true,
	"an": true, "the": true, "and": true, "but": true, "if": true, "or": true, "because": true, "as": true,
	"until": true, "while": true, "of": true, "at": true, "by": true, "for": true, "with": true, "about": true,
	"against": true, "between": true, "into": true, "through": true, "during": true, "before": true, "after": true,
	"above": true, "below": true, "to": true, "from": true, "up": true, "down": true, "in": true, "out": true,
	"on": true, "off": true, "over": true, "under": true, "again": true, "further": true, "then": true, "once": true,
	"here": true, "there": true, "when": true, "where": true, "why": true, "how": true, "all": true, "any": true,
	"both": true, "each": true, "few": true, "more": true, "most": true, "other": true, "some": true, "such": true,
	"nor": true, "only": true, "own": true, "same": true, "so": true, "than": true,
	"too": true, "very": true, "s": true, "t": true, "will": true, "just": true, "don": true,
	"should": true, "now": true, "please": true, "help": true,
}

func isStopWord(w string) bool {
	return stopWords[w]
}
