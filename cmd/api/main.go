package main

import (
	"context"
	"log"
	"log/slog"
	"summarizehub/internal/app"
	"summarizehub/internal/config"
	"summarizehub/internal/handler"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	app.SetupLogging(cfg)

	sessions, closeSessions, err := app.NewSessionStore(context.Background(), cfg.Session)
	if err != nil {
		log.Fatalf("error connecting session store: %v", err)
	}
	defer closeSessions()

	redditClient := app.NewRedditClient(cfg)
	summaryPipeline := app.NewPipeline(cfg, redditClient)

	authHandler := handler.NewAuthHandler(sessions, redditClient, cfg.FrontendURL)
	summaryHandler := handler.NewSummaryHandler(sessions, summaryPipeline)
	healthHandler := handler.NewHealthHandler(sessions)

	r := gin.Default()

	slog.Info("AllowOrigins URL:", "urls", cfg.FrontendURL)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	api := r.Group("/api", handler.SessionMiddleware(handler.CookieConfig{
		Secure: cfg.Session.CookieSecure,
		MaxAge: cfg.Session.TTL,
	}))
	api.GET("/login/", authHandler.Login)
	api.GET("/callback/", authHandler.Callback)
	api.GET("/me/", authHandler.Me)
	api.POST("/logout/", authHandler.Logout)
	api.POST("/summaries/", summaryHandler.CreateSummaries)
	api.GET("/summaries/", summaryHandler.GetSummaries)

	r.GET("/health", healthHandler.GetHealth)

	err = r.Run(":" + cfg.Port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
