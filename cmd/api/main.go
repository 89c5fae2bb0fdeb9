package main

import (
	"os"
	"os/signal"
	"syscall"

	"go-color-catalog/internal/config"
	"go-color-catalog/internal/handler"
	"go-color-catalog/internal/metrics"
	"go-color-catalog/internal/middleware"
	"go-color-catalog/internal/repository"
	"go-color-catalog/internal/service"
	"go-color-catalog/internal/ws"
	"go-color-catalog/pkg/database"
	"go-color-catalog/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// 1. Load Env
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	logger.Init(logger.Options{
		Production: cfg.Environment().IsProduction(),
		Level:      cfg.LogLevel,
	})
	if envErr != nil {
		logger.Warn().Msg(".env file not found, using process environment")
	}

	// 2. Setup Database
	db, err := database.Connect(cfg.Database.ConnectOptions())
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("database connection failed")
	}
	if err := repository.AutoMigrate(db); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	importMetrics, err := metrics.New(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal().Err(err).Msg("metrics registration failed")
	}

	// 4. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	colorRepo := repository.NewColorRepo(db)

	catalogService := service.NewCatalogService(productRepo, colorRepo, db, wsHub)
	importService := service.NewImportService(productRepo, colorRepo, db, wsHub, importMetrics)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Color Catalog v1.0",
		BodyLimit:    cfg.HTTP.UploadMaxBytes,
		ErrorHandler: handler.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLog())
	app.Use(middleware.CORS(cfg.HTTP.CORSAllowOrigin))

	// 6. Routes
	handler.Register(app, handler.Handlers{
		Product:  handler.NewProductHandler(catalogService),
		Color:    handler.NewColorHandler(catalogService),
		Import:   handler.NewImportHandler(importService),
		Health:   handler.NewHealthHandler(db),
		Hub:      wsHub,
		Gatherer: prometheus.DefaultGatherer,
	})

	// 7. Graceful Shutdown
	go func() {
		logger.Info().Str("addr", cfg.Addr()).Str("env", string(cfg.Environment())).Msg("server starting")
		if err := app.Listen(cfg.Addr()); err != nil {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	if err := app.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}
	wsHub.Stop()

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info().Msg("server exited")
}
