package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"summarizehub/db"
	"summarizehub/internal/config"
	"summarizehub/internal/handler"
	"summarizehub/internal/pipeline"
	"summarizehub/internal/repository"
	"summarizehub/pkg/llm"
	"summarizehub/pkg/reddit"
)

func SetupLogging(cfg config.Config) {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
}

func NewRedditClient(cfg config.Config) *reddit.Client {
	return reddit.NewClient(reddit.Config{
		ClientID:     cfg.Reddit.ClientID,
		ClientSecret: cfg.Reddit.ClientSecret,
		RedirectURI:  cfg.Reddit.RedirectURI,
		UserAgent:    cfg.Reddit.UserAgent,
	})
}

func NewCompleter(cfg config.LLMConfig) llm.Completer {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	case config.ProviderAnthropic:
		return llm.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	case config.ProviderGemini:
		return llm.NewGeminiClient(cfg.GeminiURL, cfg.GeminiAPIKey)
	default:
		slog.Warn("unknown LLM provider, using gemini", "provider", cfg.Provider)
		return llm.NewGeminiClient(cfg.GeminiURL, cfg.GeminiAPIKey)
	}
}

func NewPipeline(cfg config.Config, client *reddit.Client) *pipeline.Pipeline {
	completer := NewCompleter(cfg.LLM)
	slog.Info("summarization provider", "provider", completer.Name())
	return pipeline.New(client, llm.NewSummarizer(completer))
}

// NewSessionStore connects the configured session backend. The returned
// function releases its connections.
func NewSessionStore(ctx context.Context, cfg config.SessionConfig) (handler.SessionStore, func(), error) {
	switch cfg.Backend {
	case config.BackendRedis:
		if err := db.ConnectRedis(ctx, cfg.RedisURL); err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return repository.NewRedisSessionRepository(db.Redis, cfg.TTL), db.CloseRedis, nil

	case config.BackendPostgres:
		if err := db.Connect(cfg.DatabaseURL); err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		repo := repository.NewPostgresSessionRepository(db.DB, cfg.TTL)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("create session schema: %w", err)
		}
		return repo, db.Close, nil

	case config.BackendMemory:
		return repository.NewMemorySessionRepository(cfg.TTL), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}
