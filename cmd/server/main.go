package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yusunghyun/Kkondeokji-Capstone-v0-sub000/internal/ai"
	"github.com/yusunghyun/Kkondeokji-Capstone-v0-sub000/internal/config"
	"github.com/yusunghyun/Kkondeokji-Capstone-v0-sub000/internal/database"
	"github.com/yusunghyun/Kkondeokji-Capstone-v0-sub000/internal/handler"
	"github.com/yusunghyun/Kkondeokji-Capstone-v0-sub000/internal/middleware"
	"github.com/yusunghyun/Kkondeokji-Capstone-v0-sub000/internal/repository"
	"github.com/yusunghyun/Kkondeokji-Capstone-v0-sub000/internal/service"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize AI text generation client. An unset key is fine: the
	// client reports itself unconfigured and every consumer falls back
	// to its deterministic path.
	aiClient := ai.NewClient(ai.Config{
		BaseURL: cfg.AI.BaseURL,
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		Timeout: cfg.AI.SurveyGenTimeout,
	}, nil)
	if !aiClient.Configured() {
		slog.Info("AI client not configured, using template generation only")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	surveyRepo := repository.NewSurveyRepository(db)
	matchRepo := repository.NewMatchRepository(db)

	// Initialize services
	insightService := service.NewInsightService(service.InsightServiceConfig{
		Generator: aiClient,
		Timeout:   cfg.AI.InsightTimeout,
		Logger:    logger,
	})

	surveyGenService := service.NewSurveyGenService(service.SurveyGenServiceConfig{
		SurveyRepo: surveyRepo,
		Generator:  aiClient,
		Timeout:    cfg.AI.SurveyGenTimeout,
		Logger:     logger,
	})

	surveyService := service.NewSurveyService(service.SurveyServiceConfig{
		SurveyRepo: surveyRepo,
	})

	matchService := service.NewMatchService(service.MatchServiceConfig{
		MatchRepo:  matchRepo,
		SurveyRepo: surveyRepo,
		UserRepo:   userRepo,
		Insights:   insightService,
		Logger:     logger,
	})

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(db)
	userHandler := handler.NewUserHandler(userRepo)
	surveyHandler := handler.NewSurveyHandler(surveyService, surveyGenService)
	matchHandler := handler.NewMatchHandler(matchService)

	// Create router and register routes
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", healthHandler.Health)

	// User endpoints
	mux.HandleFunc("POST /v1/users", userHandler.Create)
	mux.HandleFunc("GET /v1/users/{userId}", userHandler.Get)

	// Survey template endpoints
	mux.HandleFunc("POST /v1/surveys/generate", surveyHandler.Generate)
	mux.HandleFunc("GET /v1/surveys", surveyHandler.ListTemplates)
	mux.HandleFunc("GET /v1/surveys/{templateId}", surveyHandler.GetTemplate)
	mux.HandleFunc("POST /v1/surveys/{templateId}/start", surveyHandler.Start)

	// User survey endpoints
	mux.HandleFunc("POST /v1/user-surveys/{userSurveyId}/responses", surveyHandler.SubmitResponse)
	mux.HandleFunc("POST /v1/user-surveys/{userSurveyId}/complete", surveyHandler.Complete)

	// Match endpoints
	mux.HandleFunc("POST /v1/matches", matchHandler.Calculate)
	mux.HandleFunc("GET /v1/matches/{matchId}", matchHandler.Get)
	mux.HandleFunc("GET /v1/users/{userId}/matches", matchHandler.ListForUser)
	mux.HandleFunc("POST /v1/matches/{matchId}/recalculate", matchHandler.Recalculate)
	mux.HandleFunc("POST /v1/matches/{matchId}/insights/regenerate", matchHandler.RegenerateInsights)

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
