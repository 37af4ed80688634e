package llm

import (
	"context"
	"log/slog"
	"time"
)

// ErrorSentinel stands in for a summary when the model call fails.
const ErrorSentinel = "[error summarizing]"

const defaultSummarizeTimeout = 30 * time.Second

// Summarizer wraps a Completer so that failures never reach the caller.
type Summarizer struct {
	completer Completer
	timeout   time.Duration
}

func NewSummarizer(completer Completer) *Summarizer {
	return &Summarizer{completer: completer, timeout: defaultSummarizeTimeout}
}

func (s *Summarizer) Summarize(ctx context.Context, prompt string) string {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		slog.Error("summarization call failed", "provider", s.completer.Name(), "error", err)
		return ErrorSentinel
	}

	if text == "" {
		slog.Warn("summarization returned empty text", "provider", s.completer.Name())
		return ErrorSentinel
	}

	return text
}
