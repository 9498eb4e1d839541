package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/eshaffer321/conciliador/internal/aiclassify"
	"github.com/eshaffer321/conciliador/internal/api"
	"github.com/eshaffer321/conciliador/internal/catalog"
	"github.com/eshaffer321/conciliador/internal/config"
	"github.com/eshaffer321/conciliador/internal/observability"
	"github.com/eshaffer321/conciliador/internal/service"
	"github.com/eshaffer321/conciliador/internal/storage"
)

func main() {
	_ = godotenv.Load()

	configFile := flag.String("config", "", "Configuration file path")
	port := flag.Int("port", 0, "Listen port (overrides config)")
	flag.Parse()

	var cfg *config.Config
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			slog.Error("failed to load config", slog.String("error", err.Error()))
			os.Exit(1)
		}
		cfg = loaded
	} else {
		cfg = config.LoadOrEnv()
	}
	if *port != 0 {
		cfg.API.Port = *port
	}

	logger := observability.NewLogger(cfg.Observability.Logging)

	var catalogStore catalog.Store
	if cfg.Catalog.Backend == "sqlite" {
		store, err := catalog.NewSQLiteStore(cfg.Catalog.Path)
		if err != nil {
			logger.Error("Failed to open catalog", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer store.Close()
		catalogStore = store
	} else {
		catalogStore = catalog.NewFileStore(cfg.Catalog.Path)
	}

	runStore, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("Failed to open run history", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer runStore.Close()

	var ai aiclassify.Classifier
	if cfg.OpenAI.Enabled && cfg.OpenAI.APIKey != "" {
		ai = aiclassify.NewOpenAIClassifier(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	}

	svc := service.NewReconcileService(catalogStore, runStore, ai, logger)
	server := api.NewServer(cfg.API, svc, runStore, logger)

	if err := server.Run(); err != nil {
		logger.Error("Server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
