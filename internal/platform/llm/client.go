// Package llm defines the model-agnostic generation contract every
// component in this module talks to, mirroring a structured-output
// generation shape (GenerateJSON/GenerateText) so a component
// never has to know whether it's ultimately calling OpenAI-compatible
// chat completions or the Anthropic Messages API.
package llm

import "context"

// Client is the boundary every domain component depends on for LLM calls.
// Implementations must be safe for concurrent use.
type Client interface {
	// GenerateJSON asks the model to return an object conforming to schema,
	// named schemaName for providers that require a discriminator.
	GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error)

	// GenerateText asks the model for plain, unstructured text.
	GenerateText(ctx context.Context, system, user string) (string, error)
}
