package llm

import "context"

// Inferencer is the external structured-inference capability. Each call
// is a single attempt; no retries happen below this interface.
type Inferencer interface {
	// Infer asks the provider for a payload conforming to the given
	// JSON Schema and returns the raw JSON bytes. Callers run their own
	// validation pass on the result.
	Infer(ctx context.Context, system, user string, schema map[string]any) ([]byte, error)

	// Generate asks the provider for free-form text (markdown).
	Generate(ctx context.Context, system, user string) (string, error)
}
