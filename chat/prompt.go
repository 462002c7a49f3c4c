package chat

import (
	"strings"

	"github.com/growbot/faqrag/knowledge"
)

// User-facing fallback texts. They never carry internal error detail.
const (
	// FallbackUnavailable answers when no knowledge base is loaded.
	FallbackUnavailable = "Sorry, the knowledge base is currently unavailable."
	// FallbackNoMatch replaces the context when retrieval finds nothing.
	FallbackNoMatch = "I could not find a specific solution in my knowledge base. Please try rephrasing your question."
	// FallbackUpstream answers when embedding or generation fails.
	FallbackUpstream = "I'm having trouble connecting to my brain right now. Please try again in a moment."
)

const promptTemplate = `You are 'Grow Chatbot', a friendly and professional customer support assistant for the Grow app.
Your goal is to provide helpful and concise answers to user questions based on the provided context.

**Context from our knowledge base:**
{{context}}

**User's Question:**
{{question}}

**Instruction:**
Based on the context above, answer the user's question in a helpful and clear manner.
If the context doesn't seem to directly answer the question, politely state that you couldn't find a precise answer and suggest they contact a human agent.
Do not mention the "context" in your response. Just answer the question directly.
`

// BuildPrompt fills the support prompt with context and question.
func BuildPrompt(context, question string) string {
	// Replacer makes a single pass, so placeholders inside user text stay literal.
	return strings.NewReplacer("{{context}}", context, "{{question}}", question).Replace(promptTemplate)
}

// ContextFor joins the solutions of records, or returns FallbackNoMatch.
func ContextFor(records []knowledge.Record) string {
	if len(records) == 0 {
		return FallbackNoMatch
	}
	parts := make([]string, len(records))
	for i, r := range records {
		parts[i] = r.Solution
	}
	return strings.Join(parts, "\n\n")
}
