package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"review-reply/cmd"
	"review-reply/internal/api"
	"review-reply/internal/config"
	"review-reply/internal/database"
	"review-reply/internal/export"
	"review-reply/internal/llm"
	"review-reply/internal/reply"
	"review-reply/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func loadPresets(path string) session.Presets {
	if path == "" {
		return session.DefaultPresets()
	}

	presets, err := session.LoadPresets(path)
	if err != nil {
		log.Fatalf("error loading presets: %v", err)
	}
	slog.Info("loaded presets", "path", path, "count", len(presets))
	return presets
}

func createServer(cfg config.Config, service *api.ReviewService) *http.Server {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/", api.IndexHandler)
	r.Route("/api/v1", func(r chi.Router) {
		service.AddRoutes(r)
	})

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}
}

func main() {
	cmd.LoadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logFile, err := cmd.SetupLogging(cfg.LogLevelValue(), cfg.LogFile)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer logFile.Close()

	settings := cfg.LLMSettings()
	apiKey := cfg.APIKey()

	slog.Info("starting server", "port", cfg.Port, "provider", settings.Provider, "model", settings.ModelName(), "export_store", cfg.ExportStore)
	if llm.RequiresKey(settings.Provider) && apiKey == "" {
		slog.Warn("no api key configured, requests must supply their own key", "provider", settings.Provider)
	}

	db, err := database.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	gate, err := session.NewGate(cfg.AppPassword)
	if err != nil {
		log.Fatalf("failed to initialize password gate: %v", err)
	}

	manager := session.NewManager(db, gate, loadPresets(cfg.PresetsFile))
	drafter := reply.NewDrafter(llm.NewFactory(settings), llm.RequiresKey(settings.Provider), apiKey)

	opts := api.Options{
		GeneratePerMinute: cfg.GeneratePerMinute,
		GenerateBurst:     cfg.GenerateBurst,
		ListModels: func(ctx context.Context, key string) ([]llm.ModelInfo, error) {
			if key == "" {
				key = apiKey
			}
			return llm.ListModels(ctx, settings, key)
		},
	}

	store, err := cfg.NewExportStore(context.Background())
	if err != nil {
		log.Fatalf("failed to initialize export store: %v", err)
	}
	if store != nil {
		opts.Archiver = export.NewArchiver(store)
	}

	server := createServer(cfg, api.NewReviewService(manager, drafter, opts))

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		slog.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	slog.Info("server started", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %d: %v\n", cfg.Port, err)
	}

	slog.Info("server stopped")
}
