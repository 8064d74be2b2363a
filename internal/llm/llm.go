// Package llm provides access to an OpenAI-compatible chat-completion service.
//
// This package defines the Completer interface consumed by the generation
// orchestrator and the conversation engine, and the Client implementation
// that talks to the service over HTTP.
//
// IMPORTANT: This package may import internal/constants, internal/errors,
// internal/config, and internal/ctxutil. It MUST NOT import internal/generation,
// internal/conversation, or internal/cli.
package llm

import "context"

// Completer turns a prompt into completion text.
//
// Implementations make exactly one upstream call per Complete and never retry.
// Callers that need a deadline impose it through ctx.
type Completer interface {
	// Complete returns the assistant text for req.
	// Returns an error wrapped with errors.ErrConfigurationMissing when no
	// credential can be resolved, or errors.ErrUpstreamUnavailable when the
	// service fails.
	Complete(ctx context.Context, req *Request) (string, error)
}

// Credential selects the API key used for one request.
type Credential struct {
	// UserSupplied means APIKey must be used instead of the platform key.
	UserSupplied bool

	// APIKey is the caller's own key. Ignored unless UserSupplied is set.
	APIKey string
}

// PlatformCredential returns a credential that uses the configured platform key.
func PlatformCredential() Credential {
	return Credential{}
}

// UserCredential returns a credential that uses the caller's own key.
func UserCredential(key string) Credential {
	return Credential{UserSupplied: true, APIKey: key}
}

// Request is a single chat-completion request.
type Request struct {
	// System is the optional system message.
	System string

	// Prompt is the user message.
	Prompt string

	// Model overrides the configured model when non-empty.
	Model string

	// JSON asks the service for a JSON object response.
	JSON bool

	// Credential selects the API key.
	Credential Credential
}
