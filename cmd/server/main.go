package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/hypeprice/price-service/config"
	"github.com/hypeprice/price-service/internal/currency"
	"github.com/hypeprice/price-service/internal/handlers"
	"github.com/hypeprice/price-service/internal/middleware"
	"github.com/hypeprice/price-service/internal/scraper"
	"github.com/hypeprice/price-service/internal/search"
	"github.com/hypeprice/price-service/internal/telemetry"
	"github.com/hypeprice/price-service/internal/upstream"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting price service")

	ctx := context.Background()
	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:  cfg.Telemetry.Enabled,
		Endpoint: cfg.Telemetry.Endpoint,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize telemetry")
	}

	provider := newProvider(cfg.Upstream, logger)
	if !provider.Configured() {
		logger.Warn().Msg("Upstream API key not set, searches will be rejected until configured")
	}

	var fallback search.FallbackSource
	if cfg.Scraper.Enabled {
		fallback = scraper.New(*logger, cfg.Scraper.BaseURL)
	}

	svc := search.NewService(provider, fallback, currency.DefaultRates(), cfg.Cache.TTL, *logger,
		search.WithDefaultRegions(cfg.Upstream.DefaultRegions))

	janitorCtx, cancelJanitor := context.WithCancel(ctx)
	defer cancelJanitor()
	svc.StartCacheJanitor(janitorCtx, cfg.Cache.JanitorInterval)

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		MaxAge:          12 * time.Hour,
	}))
	setupRequestLogging(router, logger)

	router.GET("/health", handlers.Health(provider.Configured))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.Use(middleware.RateLimit(middleware.DefaultRateLimiterConfig()))
	{
		api.POST("/search", handlers.Search(svc))
	}

	// Static frontend is mounted last so API routes take precedence.
	mountFrontend(router, cfg.Frontend.DistDir, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Telemetry shutdown failed")
	}

	logger.Info().Msg("Server exited")
}

func newProvider(cfg config.UpstreamConfig, logger *zerolog.Logger) *upstream.Client {
	opts := []upstream.Option{
		upstream.WithTimeout(cfg.Timeout),
		upstream.WithRateLimit(cfg.RequestsPerSecond, cfg.Burst),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, upstream.WithBaseURL(cfg.BaseURL))
	}
	return upstream.NewClient(cfg.APIKey, *logger, opts...)
}

// mountFrontend serves a prebuilt frontend bundle when one is present.
// Unknown paths fall back to index.html for client-side routing.
func mountFrontend(router *gin.Engine, distDir string, logger *zerolog.Logger) {
	if distDir == "" {
		return
	}
	if _, err := os.Stat(distDir); err != nil {
		logger.Info().Str("dir", distDir).Msg("No frontend bundle found, skipping static mount")
		return
	}

	router.Static("/assets", filepath.Join(distDir, "assets"))
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.File(filepath.Join(distDir, "index.html"))
	})
	logger.Info().Str("dir", distDir).Msg("Serving frontend bundle")
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "price-service").Logger()
	return &logger
}

func setupRequestLogging(router *gin.Engine, logger *zerolog.Logger) {
	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("HTTP request")
	})
}
