// Package generate defines the generative-answer boundary: a prompt goes in,
// answer text comes out. The chat layer owns mapping failures to user text.
package generate

import (
	"context"
	"errors"
)

// Generator produces answer text for a prompt.
type Generator interface {
	// Name identifies the model.
	Name() string
	// Generate returns the model's answer for prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

var (
	// ErrGeneration wraps failures of the underlying model or service.
	ErrGeneration = errors.New("generation failed")

	// ErrEmptyResponse is returned when the model produced no text.
	ErrEmptyResponse = errors.New("generate: empty response")
)

// Static returns a fixed answer or error. It is used offline and in tests.
type Static struct {
	Answer string
	Err    error
}

// Name returns "static".
func (Static) Name() string { return "static" }

// Generate returns s.Answer or s.Err.
func (s Static) Generate(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Err != nil {
		return "", s.Err
	}
	return s.Answer, nil
}

// Func adapts a function to Generator.
type Func func(ctx context.Context, prompt string) (string, error)

// Name returns "func".
func (Func) Name() string { return "func" }

// Generate calls f.
func (f Func) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
