// Package llm wraps the generative model backends behind a single Provider
// interface. One request in flight per call, no retry policy: cancellation
// is the caller's job via context.
package llm

import (
	"context"
)

// Provider is the interface for all LLM backends.
type Provider interface {
	// GenerateResponse sends one prompt and returns the raw model text.
	// Recognized options: "model" (string), "response_format"
	// (map with "type": "json_object"), "api_key" (string override).
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)

	// AdaptInstructions transforms raw instructions into model-specific
	// formats before sending.
	AdaptInstructions(rawInstructions string) string
}
