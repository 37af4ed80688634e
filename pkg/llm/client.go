package llm

import "context"

// Completer sends a single prompt to a text-generation model and returns the
// raw response text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}
