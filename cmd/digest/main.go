package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"os"
	"summarizehub/internal/app"
	"summarizehub/internal/config"
	"summarizehub/internal/pipeline"
)

// digest runs the summarization pipeline once for the account behind
// REDDIT_REFRESH_TOKEN and prints the result as JSON.
func main() {
	limit := flag.Int("limit", pipeline.DefaultLimit, "posts per subreddit (1-25)")
	flag.Parse()

	cfg := config.Load()

	app.SetupLogging(cfg)

	credential := os.Getenv("REDDIT_REFRESH_TOKEN")
	if credential == "" {
		log.Fatalf("REDDIT_REFRESH_TOKEN is not set")
	}

	subreddits := flag.Args()
	if len(subreddits) == 0 {
		log.Fatalf("usage: digest [-limit N] subreddit [subreddit...]")
	}

	summaryPipeline := app.NewPipeline(cfg, app.NewRedditClient(cfg))

	slog.Info("summarizing subreddits", "subreddits", subreddits, "limit", *limit)

	results, err := summaryPipeline.Run(context.Background(), credential, subreddits, *limit)
	if err != nil {
		log.Fatalf("error generating summaries: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		log.Fatalf("error writing summaries: %v", err)
	}
}
