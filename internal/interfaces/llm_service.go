package interfaces

import (
	"context"
)

// CompletionRequest describes a single text-generation request. Every
// provider backend (Claude, Gemini) normalizes its reply to plain text
// behind this one boundary, so callers never see provider response shapes.
type CompletionRequest struct {
	// System is an optional system prompt prepended to the conversation.
	System string

	// Prompt is the user-role request text.
	Prompt string

	// MaxTokens caps the completion length. Zero means the provider's
	// configured default.
	MaxTokens int

	// Temperature controls sampling. Zero means the provider's configured
	// default.
	Temperature float32
}

// LLMService defines the interface for text-generation operations.
// Implementations wrap cloud APIs (Anthropic Claude, Google Gemini) and
// return either non-empty completion text or an error - never both.
type LLMService interface {
	// Complete generates a single text completion for the request.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - req: Prompt, optional system text, and sampling parameters
	//
	// Returns:
	//   - string: Generated completion text (non-empty on success)
	//   - error: Error if the generation call fails or returns no text
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// HealthCheck verifies the service is operational and can handle
	// requests. For cloud services this performs a minimal API probe.
	HealthCheck(ctx context.Context) error

	// Close releases resources and performs cleanup operations.
	Close() error
}
