package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/api"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/config"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/database"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/logging"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/repository"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/service"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := logging.New(cfg.Logging)

	// Open the fund catalog database and apply pending migrations
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	logger.Info().Str("path", cfg.Database.Path).Msg("connected to fund catalog")

	// Create repositories
	catalogRepo := repository.NewCatalogRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	catalogService := service.NewCatalogService(catalogRepo)
	normalizerService := service.NewNormalizerService()
	selectorService := service.NewSelectorService(cfg.Optimizer)
	washSaleService := service.NewWashSaleService()
	alternativeService := service.NewAlternativeService(catalogService)
	exportService := service.NewExportService()
	calculationService := service.NewCalculationService(
		cfg.Optimizer,
		normalizerService,
		selectorService,
		washSaleService,
		catalogService,
	)

	// Create router
	router := api.NewRouter(api.Services{
		System:      systemService,
		Calculation: calculationService,
		Normalizer:  normalizerService,
		Export:      exportService,
		Catalog:     catalogService,
		Alternative: alternativeService,
	}, cfg, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}
