package llm

import "context"

type Provider interface {
	// GenerateJSON returns the raw JSON text the model produced for prompt.
	GenerateJSON(ctx context.Context, prompt string) (string, error)
	Model() string
	Close() error
}
