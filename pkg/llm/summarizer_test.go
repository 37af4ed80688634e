package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

type stubCompleter struct {
	text string
	err  error
	ctx  context.Context
}

func (s *stubCompleter) Name() string { return "stub" }

func (s *stubCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	s.ctx = ctx
	return s.text, s.err
}

func TestSummarizer_ReturnsText(t *testing.T) {
	s := NewSummarizer(&stubCompleter{text: "S1@#$%"})

	assert.Equal(t, "S1@#$%", s.Summarize(context.Background(), "prompt"))
}

func TestSummarizer_ErrorBecomesSentinel(t *testing.T) {
	s := NewSummarizer(&stubCompleter{err: errors.New("connection reset")})

	assert.Equal(t, ErrorSentinel, s.Summarize(context.Background(), "prompt"))
}

func TestSummarizer_EmptyBecomesSentinel(t *testing.T) {
	s := NewSummarizer(&stubCompleter{})

	assert.Equal(t, ErrorSentinel, s.Summarize(context.Background(), "prompt"))
}

func TestSummarizer_AppliesTimeout(t *testing.T) {
	stub := &stubCompleter{text: "ok"}
	s := NewSummarizer(stub)

	s.Summarize(context.Background(), "prompt")

	deadline, ok := stub.ctx.Deadline()
	assert.Equal(t, true, ok)
	remaining := time.Until(deadline)
	assert.Equal(t, true, remaining <= 30*time.Second)
	assert.Equal(t, true, remaining > 29*time.Second)
}
