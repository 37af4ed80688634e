package config

import (
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config is read once at startup and passed to constructors. Nothing below
// cmd/ reads the environment.
type Config struct {
	Port        string
	FrontendURL string
	LogLevel    string

	Reddit  RedditConfig
	LLM     LLMConfig
	Session SessionConfig
}

type RedditConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	UserAgent    string
}

type LLMConfig struct {
	Provider        string
	GeminiAPIKey    string
	GeminiURL       string
	OpenAIAPIKey    string
	OpenAIModel     string
	AnthropicAPIKey string
	AnthropicModel  string
}

type SessionConfig struct {
	Backend      string
	RedisURL     string
	DatabaseURL  string
	TTL          time.Duration
	CookieSecure bool
}

// Load reads .env when present, then the process environment.
func Load() Config {
	godotenv.Load()

	cfg := Config{
		Port:        getEnv("PORT", "5000"),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:8080"), "/"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Reddit: RedditConfig{
			ClientID:     os.Getenv("REDDIT_CLIENT_ID"),
			ClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
			RedirectURI:  getEnv("REDDIT_REDIRECT_URI", "http://localhost:5000/api/callback/"),
			UserAgent:    getEnv("REDDIT_USER_AGENT", "reddit_summarize_hub"),
		},
		LLM: LLMConfig{
			Provider:        strings.ToLower(getEnv("LLM_PROVIDER", ProviderGemini)),
			GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
			GeminiURL:       os.Getenv("GEMINI_URL"),
			OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:     os.Getenv("OPENAI_MODEL"),
			AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
			AnthropicModel:  os.Getenv("ANTHROPIC_MODEL"),
		},
		Session: SessionConfig{
			Backend:      strings.ToLower(getEnv("SESSION_BACKEND", BackendMemory)),
			RedisURL:     os.Getenv("REDIS_URL"),
			DatabaseURL:  os.Getenv("DATABASE_URL"),
			TTL:          getEnvDuration("SESSION_TTL", 7*24*time.Hour),
			CookieSecure: getEnvBool("COOKIE_SECURE", false),
		},
	}

	if missing := cfg.Missing(); len(missing) > 0 {
		slog.Warn("missing env vars", "vars", strings.Join(missing, ", "))
	}

	return cfg
}

// Missing lists the required variables that are unset for the chosen
// providers.
func (c Config) Missing() []string {
	required := map[string]string{
		"REDDIT_CLIENT_ID":     c.Reddit.ClientID,
		"REDDIT_CLIENT_SECRET": c.Reddit.ClientSecret,
	}

	switch c.LLM.Provider {
	case ProviderOpenAI:
		required["OPENAI_API_KEY"] = c.LLM.OpenAIAPIKey
	case ProviderAnthropic:
		required["ANTHROPIC_API_KEY"] = c.LLM.AnthropicAPIKey
	default:
		required["GEMINI_API_KEY"] = c.LLM.GeminiAPIKey
	}

	switch c.Session.Backend {
	case BackendRedis:
		required["REDIS_URL"] = c.Session.RedisURL
	case BackendPostgres:
		required["DATABASE_URL"] = c.Session.DatabaseURL
	}

	var missing []string
	for name, value := range required {
		if value == "" {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

func getEnv(name, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(name)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(name string, defaultValue bool) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Warn("invalid env var, using default", "var", name, "value", raw, "default", defaultValue)
		return defaultValue
	}
	return value
}

func getEnvDuration(name string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		slog.Warn("invalid env var, using default", "var", name, "value", raw, "default", defaultValue)
		return defaultValue
	}
	return value
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
