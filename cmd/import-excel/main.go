package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-color-catalog/internal/config"
	"go-color-catalog/internal/excel"
	"go-color-catalog/internal/repository"
	"go-color-catalog/internal/service"
	"go-color-catalog/pkg/database"
	"go-color-catalog/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s <catalog.xlsx>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	// 1. Load Env
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(logger.Options{Production: cfg.Environment().IsProduction(), Level: cfg.LogLevel})
	if envErr != nil {
		logger.Warn().Msg(".env file not found, using process environment")
	}

	// 2. Read the workbook before touching the database
	if err := excel.CheckExtension(path); err != nil {
		logger.Fatal().Err(err).Str("file", path).Msg("rejected file")
	}
	f, err := os.Open(path)
	if err != nil {
		logger.Fatal().Err(err).Str("file", path).Msg("cannot open file")
	}
	sheet, err := excel.Parse(f)
	f.Close()
	if err != nil {
		logger.Fatal().Err(err).Str("file", path).Msg("cannot read spreadsheet")
	}

	// 3. Setup Database
	db, err := database.Connect(cfg.Database.ConnectOptions())
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := repository.AutoMigrate(db); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}

	// 4. Import
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	importer := service.NewImportService(repository.NewProductRepo(db), repository.NewColorRepo(db), db, nil, nil)
	summary, err := importer.Import(ctx, service.RowsFromSheet(sheet))
	if err != nil {
		logger.Error().Err(err).Str("file", path).Msg("import failed, no changes were saved")
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		logger.Error().Err(err).Msg("write summary")
	}
}
