// Package entity asks a text-generation model to pull entities out of a message.
//
// The model's reply is returned as-is. It is meant to be JSON but is never
// checked on the way through; callers that need structure must call Parse.
package entity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"intentd/internal/llm"
)

const promptTemplate = `
Extract useful entities like location, date, destination from this message:
"%s"

Return as JSON.
`

// Entities is the opaque, possibly-invalid JSON blob produced by extraction.
type Entities string

// ErrMalformedEntities reports that an Entities blob is not a JSON object.
var ErrMalformedEntities = errors.New("entities: not a JSON object")

// Parse decodes the blob into a JSON object. Markdown code fences around the
// object are tolerated.
func (e Entities) Parse() (map[string]any, error) {
	s := strings.TrimSpace(string(e))
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	var out map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &out); err != nil || out == nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedEntities, truncate(string(e), 80))
	}
	return out, nil
}

// Extractor calls the generator once per message.
type Extractor struct {
	gen llm.Generator
}

// NewExtractor constructs an Extractor.
func NewExtractor(gen llm.Generator) *Extractor { return &Extractor{gen: gen} }

// Prompt renders the extraction instruction for text.
func Prompt(text string) string { return fmt.Sprintf(promptTemplate, text) }

// Extract returns the generator's raw output for text.
func (x *Extractor) Extract(ctx context.Context, text string) (Entities, error) {
	out, err := x.gen.Generate(ctx, Prompt(text))
	if err != nil {
		return "", err
	}
	return Entities(out), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
