package cli

import (
	"context"
	"strings"

	"github.com/growbot/faqrag/generate"
)

// offlineGenerator answers with the context section of the prompt, which
// holds the retrieved solution text.
type offlineGenerator struct{}

func (offlineGenerator) Name() string { return "offline" }

func (offlineGenerator) Generate(_ context.Context, prompt string) (string, error) {
	const (
		start = "**Context from our knowledge base:**\n"
		end   = "\n\n**User's Question:**"
	)
	i := strings.Index(prompt, start)
	if i < 0 {
		return "", generate.ErrEmptyResponse
	}
	rest := prompt[i+len(start):]
	if j := strings.Index(rest, end); j >= 0 {
		rest = rest[:j]
	}
	return strings.TrimSpace(rest), nil
}
