package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/taqueria-landing/internal/clock"
	"github.com/fairyhunter13/taqueria-landing/internal/config"
	"github.com/fairyhunter13/taqueria-landing/internal/handler"
	"github.com/fairyhunter13/taqueria-landing/internal/hours"
	"github.com/fairyhunter13/taqueria-landing/internal/link"
	"github.com/fairyhunter13/taqueria-landing/internal/logging"
	"github.com/fairyhunter13/taqueria-landing/internal/model"
	"github.com/fairyhunter13/taqueria-landing/internal/page"
	"github.com/fairyhunter13/taqueria-landing/internal/repository"
	"github.com/fairyhunter13/taqueria-landing/internal/schedule"
	"github.com/fairyhunter13/taqueria-landing/internal/service"
	"github.com/fairyhunter13/taqueria-landing/internal/validator"
	"github.com/fairyhunter13/taqueria-landing/pkg/database"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(cfg.Log, os.Stdout)

	loc, err := cfg.Site.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load site timezone")
	}

	ctx := context.Background()

	// The click log is optional
	var (
		pool   *pgxpool.Pool
		clicks service.ClickRepositoryInterface = repository.NopClickRepository{}
		pinger handler.Pinger
	)
	if cfg.DB.Enabled {
		pool, err = database.Open(ctx, cfg.DB.DSN())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		clicks = repository.NewClickRepository(pool)
		pinger = pool
	} else {
		log.Info().Msg("click log disabled")
	}

	clk := clock.RealClock{}
	rewriter := link.NewRewriter(cfg.Site.MessagingBaseURI)
	registry := link.NewRegistry()

	// Pages are re-rendered from the built site on every interval
	processor := page.NewProcessor(schedule.NewController(loc), rewriter, registry, cfg.Site.PathPrefix)
	renderer := page.NewRenderer(cfg.Site.OutputDir, processor, clk, loc, cfg.Site.RefreshInterval)
	if err := renderer.Load(); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Site.OutputDir).Msg("failed to load built site, run cmd/build first")
	}
	renderer.Start()

	linkService := service.NewLinkService(registry, rewriter, clicks, clk, loc)
	siteService := service.NewSiteService(model.ShareResponse{
		Title: cfg.Share.Title,
		Text:  cfg.Share.Text,
		URL:   cfg.Site.PublicURL,
	}, hours.Default, clk, loc)

	// Initialize Fiber with production-ready configuration
	app := fiber.New(fiber.Config{
		AppName:      "Taqueria Landing",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    64 * 1024, // GET-only surface
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New()) // Adds X-Request-ID header to all requests
	app.Use(logger.New())

	handler.RegisterRoutes(app, cfg.Site.PathPrefix, cfg.Site.OutputDir, handler.Handlers{
		Health:  handler.NewHealthHandler(pinger, renderer),
		Link:    handler.NewLinkHandler(linkService, validator.New()),
		Site:    handler.NewSiteHandler(siteService),
		Page:    handler.NewPageHandler(renderer),
		Limiter: handler.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst),
	})

	// Start server with graceful shutdown
	go func() {
		log.Info().
			Str("addr", cfg.Server.Addr()).
			Str("prefix", cfg.Site.PathPrefix).
			Msg("starting server")
		if err := app.Listen(cfg.Server.Addr()); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	log.Info().Msg("waiting for in-flight requests to complete...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	renderer.Stop()

	// Close database pool AFTER server shutdown (even if shutdown timed out)
	if pool != nil {
		log.Info().Msg("closing database connections...")
		pool.Close()
		log.Info().Msg("database connections closed")
	}
	log.Info().Msg("server stopped")
}
