package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jwebster45206/wolf-agent/internal/config"
	"github.com/jwebster45206/wolf-agent/internal/handlers"
	"github.com/jwebster45206/wolf-agent/internal/logger"
	"github.com/jwebster45206/wolf-agent/internal/middleware"
	"github.com/jwebster45206/wolf-agent/internal/services"
	"github.com/jwebster45206/wolf-agent/internal/storage"
	"github.com/jwebster45206/wolf-agent/pkg/decision"
	"github.com/jwebster45206/wolf-agent/pkg/evidence"
	"github.com/jwebster45206/wolf-agent/pkg/fusion"
	"github.com/jwebster45206/wolf-agent/pkg/trust"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Wolf Agent API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider,
		"model_name", cfg.ModelName)

	var llmService services.LLMService
	switch strings.ToLower(cfg.LLMProvider) {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			log.Error("Anthropic API key is required when using anthropic provider")
			os.Exit(1)
		}
		llmService = services.NewAnthropicService(cfg.AnthropicAPIKey, cfg.ModelName, log)
		log.Info("Using Anthropic LLM provider")
	case "ollama":
		llmService = services.NewOllamaService(cfg.OllamaURL, cfg.ModelName, log)
		log.Info("Using Ollama LLM provider")
	case "mock":
		// Deterministic canned responses; the rule classifier still runs.
		llmService = services.NewMockLLMAPI()
		log.Info("Using mock LLM provider")
	default:
		log.Error("Invalid LLM provider specified", "provider", cfg.LLMProvider, "supported", []string{"anthropic", "ollama", "mock"})
		os.Exit(1)
	}

	var store storage.Storage = storage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, cfg.SessionTTL, log)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := store.Ping(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer initCancel()
	if err := llmService.InitModel(initCtx, cfg.ModelName); err != nil {
		log.Error("Failed to initialize LLM model", "error", err, "model", cfg.ModelName)
		os.Exit(1)
	}

	// Shared engine state. The optimizer registry carries adaptive
	// per-role thresholds across sessions; everything else is
	// per-request.
	trustEngine := trust.NewEngine(log)
	classifier := evidence.NewLLMClassifier(llmService, log)
	optimizers := decision.NewOptimizers(log)
	fusionEngine := fusion.NewEngine(fusion.DefaultConfig())

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, log)
	mux.Handle("/health", healthHandler)

	sessionHandler := handlers.NewSessionHandler(store, log)
	mux.Handle("/v1/sessions", sessionHandler)

	eventHandler := handlers.NewEventHandler(store, classifier, trustEngine, log)
	decideHandler := handlers.NewDecideHandler(store, optimizers, fusionEngine, log)
	feedbackHandler := handlers.NewFeedbackHandler(store, optimizers, log)
	speechHandler := handlers.NewSpeechHandler(store, llmService, log)

	mux.HandleFunc("/v1/sessions/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/events"):
			eventHandler.ServeHTTP(w, r)
		case strings.HasSuffix(r.URL.Path, "/decide"):
			decideHandler.ServeHTTP(w, r)
		case strings.HasSuffix(r.URL.Path, "/feedback"):
			feedbackHandler.ServeHTTP(w, r)
		case strings.HasSuffix(r.URL.Path, "/speech"):
			speechHandler.ServeHTTP(w, r)
		default:
			sessionHandler.ServeHTTP(w, r)
		}
	})

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
