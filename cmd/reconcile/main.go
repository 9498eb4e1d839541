package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/eshaffer321/conciliador/internal/aiclassify"
	"github.com/eshaffer321/conciliador/internal/catalog"
	"github.com/eshaffer321/conciliador/internal/claims"
	"github.com/eshaffer321/conciliador/internal/cli"
	"github.com/eshaffer321/conciliador/internal/config"
	"github.com/eshaffer321/conciliador/internal/observability"
	"github.com/eshaffer321/conciliador/internal/service"
	"github.com/eshaffer321/conciliador/internal/storage"
)

func main() {
	_ = godotenv.Load()

	flags := cli.ParseRunFlags()
	if flags.BankPath == "" || flags.InvoicePath == "" {
		fmt.Fprintln(os.Stderr, "usage: reconcile -extracto <file> -facturas <file> [options]")
		os.Exit(2)
	}

	cfg := loadConfig(flags.ConfigFile)
	if flags.Verbose {
		cfg.Observability.Logging.Level = "debug"
	}
	logger := observability.NewLogger(cfg.Observability.Logging)

	catalogStore, closeCatalog, err := openCatalogStore(cfg, flags.CatalogPath)
	if err != nil {
		logger.Error("Failed to open catalog", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeCatalog()

	runStore, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("Failed to open run history", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer runStore.Close()

	var ai aiclassify.Classifier
	if flags.UseAI {
		if cfg.OpenAI.APIKey == "" {
			logger.Error("AI classification requested but OPENAI_API_KEY is not set")
			os.Exit(1)
		}
		ai = aiclassify.NewOpenAIClassifier(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	}

	svc := service.NewReconcileService(catalogStore, runStore, ai, logger)

	req := service.Request{
		BankPath:      flags.BankPath,
		InvoicePath:   flags.InvoicePath,
		VendorPath:    flags.VendorPath,
		WindowDays:    flags.WindowDays,
		Tolerance:     decimal.NewFromFloat(flags.Tolerance),
		TrimToOverlap: flags.TrimToOverlap || cfg.Reconcile.TrimToOverlap,
		UseAI:         flags.UseAI,
		MaxAIClaims:   flags.MaxAIClaims,
	}

	cli.PrintHeader(flags.BankPath, flags.InvoicePath)

	run, err := svc.Run(context.Background(), req)
	if err != nil {
		logger.Error("Reconciliation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cli.PrintSummary(run)
	cli.PrintClaims(run)
	cli.PrintStats(runStore)

	if flags.OutputPath != "" {
		if err := writeReport(flags.OutputPath, run); err != nil {
			logger.Error("Failed to write claims report", slog.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Printf("\nInforme de reclamaciones: %s\n", flags.OutputPath)
	}
}

func loadConfig(path string) *config.Config {
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config %s: %v\n", path, err)
			os.Exit(1)
		}
		return cfg
	}
	return config.LoadOrEnv()
}

func openCatalogStore(cfg *config.Config, override string) (catalog.Store, func(), error) {
	path := cfg.Catalog.Path
	if override != "" {
		path = override
	}

	if cfg.Catalog.Backend == "sqlite" {
		store, err := catalog.NewSQLiteStore(path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}
	return catalog.NewFileStore(path), func() {}, nil
}

func writeReport(path string, run *service.RunResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return claims.WriteXLSX(f, run.Claims)
}
