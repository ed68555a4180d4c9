// cmd/server/main.go
// This is the entry point for the Scorecard API server.
// The cmd/ folder holds executable binaries; internal/ holds the packages they are built
// from, which other modules cannot import.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/trentd187/golf-scorecards/internal/cache"
	"github.com/trentd187/golf-scorecards/internal/config"
	"github.com/trentd187/golf-scorecards/internal/database"
	"github.com/trentd187/golf-scorecards/internal/handlers"
	"github.com/trentd187/golf-scorecards/internal/metrics"
	"github.com/trentd187/golf-scorecards/internal/middleware"
	"github.com/trentd187/golf-scorecards/internal/store"
	"github.com/trentd187/golf-scorecards/internal/websocket"
)

func main() {
	// Load configuration from environment variables (and optionally .env / CONFIG_FILE).
	cfg, err := config.Load()
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Postgres when DATABASE_URL is postgres://..., otherwise a SQLite file.
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error.Fatalf("Failed to connect to database: %v", err)
	}

	// Bring the schema up to date before serving: numbered SQL migrations on Postgres,
	// AutoMigrate on SQLite.
	if err := database.Migrate(db, cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
		logger.Error.Fatalf("Failed to run migrations: %v", err)
	}

	courseCache, err := cache.New(ctx, cfg.RedisURL, cfg.CourseCacheTTL)
	if err != nil {
		logger.Error.Fatalf("Failed to connect to course cache: %v", err)
	}
	defer courseCache.Close()

	// The hub fans scorecard saves and deletes out to live watchers. It stops, closing
	// every watcher, when ctx is cancelled.
	hub := websocket.NewHub()
	go hub.Run(ctx)

	app := fiber.New(fiber.Config{
		AppName: "Golf Scorecard API",
	})

	// --- Global middleware ---
	app.Use(fiberlogger.New())
	app.Use(cors.New())
	app.Use(metrics.Middleware())

	// --- Public routes (no auth required) ---
	app.Get("/health", handlers.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// --- Authenticated routes ---
	// middleware.Auth validates the bearer token AND syncs the user to our database.
	auth := middleware.Auth(cfg, db)
	s := store.New(db)
	handlers.Mount(app.Group("/api", auth), app.Group("/ws", auth), handlers.Deps{
		Courses:     s,
		Friends:     s,
		Scorecards:  s,
		CourseCache: courseCache,
		Hub:         hub,
	})

	go func() {
		<-ctx.Done()
		logger.Info.Printf("Shutting down")
		if err := app.Shutdown(); err != nil {
			logger.Error.Printf("Shutdown failed: %v", err)
		}
	}()

	logger.Info.Printf("Starting scorecard server on port %s (%s)", cfg.Port, database.DialectOf(cfg.DatabaseURL))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Error.Fatalf("Scorecard server failed: %v", err)
	}
}
