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

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"vlmbridge/clients"
	anthropicclient "vlmbridge/clients/anthropic"
	ollamaclient "vlmbridge/clients/ollama"
	whisperclient "vlmbridge/clients/whisper"
	"vlmbridge/config"
	"vlmbridge/handlers"
	"vlmbridge/middleware"
	"vlmbridge/services/completion"
	"vlmbridge/services/extraction"
	"vlmbridge/services/schema"
	"vlmbridge/services/transcription"
	"vlmbridge/usecases/process"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Initialize error alert middleware
	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.AlertConfig{
		WebhookURL:  cfg.AlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     "vlmbridge",
		LogsURL:     cfg.ServerLogsURL,
	})

	// Select the completion backend
	var completionClient clients.CompletionClient
	var completionModel string
	switch cfg.CompletionBackend {
	case config.BackendAnthropic:
		completionClient = anthropicclient.NewAnthropicClient(cfg.AnthropicConfig.APIKey, cfg.AnthropicConfig.Model)
		completionModel = cfg.AnthropicConfig.Model
	default:
		completionClient = ollamaclient.NewOllamaClient(cfg.OllamaConfig.BaseURL, cfg.OllamaConfig.Model)
		completionModel = cfg.OllamaConfig.Model
	}

	completionService := completion.NewCompletionService(completionClient, completion.Config{
		Workers:        cfg.CompletionWorkers,
		RequestTimeout: cfg.CompletionTimeout,
		Params: clients.CompletionParams{
			Model:         completionModel,
			Temperature:   0.0,
			TopP:          0.85,
			RepeatPenalty: 1.1,
		},
	})
	defer completionService.Close()

	registryOpts := []schema.Option{}
	if cfg.CommandAutocorrect {
		registryOpts = append(registryOpts, schema.WithAutocorrect())
	}
	registry := schema.NewRegistry(registryOpts...)

	extractionService := extraction.NewExtractionService(completionService, registry)
	transcriptionService := transcription.NewTranscriptionService(
		whisperclient.NewWhisperClient(cfg.WhisperConfig.BaseURL),
	)

	processUseCase := process.NewProcessUseCase(transcriptionService, extractionService, cfg.MaxAttempts)
	processHandler := handlers.NewProcessHandler(processUseCase)

	// Create a new router
	router := mux.NewRouter()

	// Setup endpoints with the new router
	processHandler.SetupEndpoints(router)

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			log.Printf("❌ Failed to write health check response: %v", err)
		}
	}).Methods("GET")

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Setup CORS middleware
	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	// Setup and handle graceful shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(c.Handler(router)),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server)
}

func handleGracefulShutdown(server *http.Server) error {
	// Channel to listen for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown server gracefully
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	log.Printf("✅ Server stopped gracefully")
	return nil
}
