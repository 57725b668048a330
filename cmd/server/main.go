package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/dzinly/matsearch/internal/adapter/ai"
	"github.com/dzinly/matsearch/internal/adapter/index"
	"github.com/dzinly/matsearch/internal/adapter/store"
	"github.com/dzinly/matsearch/internal/handler"
	"github.com/dzinly/matsearch/internal/middleware"
	"github.com/dzinly/matsearch/internal/port"
	"github.com/dzinly/matsearch/internal/service"
	"github.com/dzinly/matsearch/pkg/config"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()

	slog.Info("🚀 Starting Material Search",
		"port", cfg.Port,
		"ollama_embed", cfg.OllamaEmbedURL,
		"embed_model", cfg.OllamaEmbedModel,
		"index_path", cfg.IndexPath,
	)

	// ── Document store ───────────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	catalog, err := store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDB)
	cancel()
	if err != nil {
		slog.Error("failed to connect to mongodb", "error", err)
		os.Exit(1)
	}
	defer catalog.Close(context.Background())

	// ── Adapters ─────────────────────────────────────────────────────────
	embedder := ai.NewRetryEmbedder(
		ai.NewOllamaEmbedder(
			ai.OllamaEndpointConfig{
				BaseURL: cfg.OllamaEmbedURL,
				Model:   cfg.OllamaEmbedModel,
				Token:   cfg.OllamaEmbedToken,
			},
			cfg.EmbeddingDimension,
		),
		ai.RetryPolicy{
			Attempts: cfg.EmbedAttempts,
			Backoff:  500 * time.Millisecond,
			Timeout:  time.Duration(cfg.EmbedTimeoutSecs) * time.Second,
		},
	)

	// ── Index snapshot ───────────────────────────────────────────────────
	// A corrupt snapshot file is a hard failure; a missing one just means
	// the server starts without search until a rebuild completes.
	var snapshot *index.FlatIndex
	if _, statErr := os.Stat(cfg.IndexPath); statErr == nil {
		snapshot, err = index.Load(cfg.IndexPath)
		if err != nil {
			if errors.Is(err, port.ErrCorruptIndex) {
				slog.Error("index snapshot is corrupt, refusing to start", "path", cfg.IndexPath, "error", err)
				os.Exit(1)
			}
			slog.Error("failed to load index snapshot", "path", cfg.IndexPath, "error", err)
			os.Exit(1)
		}
		m := snapshot.Manifest()
		slog.Info("📦 Loaded index snapshot",
			"snapshot_id", m.SnapshotID,
			"model", m.Model,
			"count", m.Count,
			"dimension", m.Dimension,
		)
	} else {
		slog.Warn("no index snapshot found, search disabled until rebuild", "path", cfg.IndexPath)
	}

	// ── Services ─────────────────────────────────────────────────────────
	searchService := service.NewSearchService(embedder, snapshot)
	indexService := service.NewIndexService(catalog, embedder)
	curationService := service.NewCurationService(catalog)

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	// Audit middleware (logs all requests)
	app.Use(middleware.AuditMiddleware(catalog))

	// Health check
	app.Get("/api/v1/health", func(c fiber.Ctx) error {
		status := fiber.Map{
			"status":  "healthy",
			"app":     cfg.AppName,
			"version": "1.0.0",
		}
		if snap := searchService.Current(); snap != nil {
			status["snapshot_id"] = snap.Manifest().SnapshotID
			status["indexed"] = snap.Manifest().Count
		} else {
			status["snapshot_id"] = nil
			status["indexed"] = 0
		}
		return c.JSON(status)
	})

	// ── Routes ───────────────────────────────────────────────────────────
	api := app.Group("/api/v1")

	jobTracker := handler.NewJobTracker()

	searchHandler := handler.NewSearchHandler(searchService)
	searchHandler.Register(api)

	curationHandler := handler.NewCurationHandler(curationService)
	curationHandler.Register(api)

	indexHandler := handler.NewIndexHandler(indexService, searchService, jobTracker, service.BuildOptions{
		BatchSize: cfg.IndexBatchSize,
		Throttle:  time.Duration(cfg.IndexThrottleMs) * time.Millisecond,
		OutPath:   cfg.IndexPath,
	})
	indexHandler.Register(api)

	jobsHandler := handler.NewJobsHandler(jobTracker)
	jobsHandler.Register(api)

	auditHandler := handler.NewAuditHandler(catalog)
	auditHandler.Register(api)

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
