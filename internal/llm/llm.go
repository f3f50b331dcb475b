// Package llm wraps the hosted text-generation models behind one small interface.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Generator turns a prompt into a single completion.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
	Model() string
}

// Options configure a Generator.
type Options struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
}

// ErrMissingAPIKey is returned when a provider is selected without credentials.
var ErrMissingAPIKey = errors.New("llm: api key not set")

// New builds the Generator named by opts.Provider ("openai" or "gemini").
func New(ctx context.Context, opts Options) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case "", "openai":
		return NewOpenAI(opts)
	case "gemini":
		return NewGemini(ctx, opts)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", opts.Provider)
	}
}
