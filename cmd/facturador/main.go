package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"facturador/internal/api"
	"facturador/internal/api/handlers"
	"facturador/internal/detect"
	"facturador/internal/ocr"
	"facturador/internal/pipeline"
	"facturador/internal/repository"
	"facturador/internal/service"
	"facturador/pkg/config"
	"facturador/pkg/logger"
	"facturador/pkg/postgres"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting facturador service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	invoiceRepo := repository.NewInvoiceRepository(db, appLogger)
	providerRepo := repository.NewProviderRepository(db, appLogger)

	// Initialize the extraction pipeline
	reader, err := ocr.NewTesseractReader(&cfg.OCR, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize OCR engine", zap.Error(err))
	}
	defer reader.Close()

	detector := detect.NewHTTPDetector(&cfg.Detector, appLogger)
	extractor := pipeline.New(detector, reader, appLogger)

	// Initialize services
	processService := service.NewProcessService(extractor, cfg.Upload.Dir, appLogger)
	invoiceService := service.NewInvoiceService(invoiceRepo, appLogger)

	// Initialize handlers
	invoiceHandler := handlers.NewInvoiceHandler(processService, invoiceService, appLogger)
	providerHandler := handlers.NewProviderHandler(providerRepo, appLogger)

	// Setup router
	app := api.SetupRouter(invoiceHandler, providerHandler, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
