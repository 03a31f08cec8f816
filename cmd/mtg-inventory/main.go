// Package main runs the MTG inventory REST API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ramonehamilton/mtg-inventory/internal/api"
	"github.com/ramonehamilton/mtg-inventory/internal/cards/importer"
	"github.com/ramonehamilton/mtg-inventory/internal/cards/scryfall"
	"github.com/ramonehamilton/mtg-inventory/internal/config"
	"github.com/ramonehamilton/mtg-inventory/internal/inventory"
	"github.com/ramonehamilton/mtg-inventory/internal/logging"
	"github.com/ramonehamilton/mtg-inventory/internal/metrics"
	"github.com/ramonehamilton/mtg-inventory/internal/storage"
	"github.com/ramonehamilton/mtg-inventory/internal/version"
)

var (
	configPath  = flag.String("config", "", "Config file path (default: ~/.mtg-inventory/config.toml)")
	port        = flag.Int("port", 0, "API server port (overrides config)")
	dbPath      = flag.String("db-path", "", "Database path (overrides config)")
	seed        = flag.Bool("seed", true, "Seed colors, formats and rarities on startup")
	backupDir   = flag.String("backup", "", "Write a database backup to this directory and exit")
	listDir     = flag.String("list-backups", "", "List the backups in this directory and exit")
	migrateCmd  = flag.String("migrate", "", "Run schema migrations (up, down or version) and exit")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "mtg-inventory: %v\n", err)
		os.Exit(1)
	}
}

// run is separate from main so deferred cleanup runs before exit.
func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	}, os.Stderr)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	logger.Info("starting mtg-inventory", "version", version.String(), "database", cfg.Database.Path)

	if *listDir != "" {
		return listBackups(*listDir, os.Stdout)
	}
	if *migrateCmd != "" {
		return runMigrate(*migrateCmd, cfg.Database.Path, os.Stdout, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("error closing database", "error", err)
		}
	}()

	if *backupDir != "" {
		info, err := store.Backup(ctx, *backupDir)
		if err != nil {
			return err
		}
		logger.Info("database backup written", "path", info.Path, "size", info.Size, "sha256", info.Checksum)
		return nil
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	importMetrics := metrics.NewImportMetrics(registry)

	client, err := newCatalogClient(cfg, importMetrics, logger)
	if err != nil {
		return err
	}

	imp := importer.New(client, store, importer.Options{
		Metrics: importMetrics,
		Logger:  logger,
		Progress: func(current, total int) {
			if current%50 == 0 || current == total {
				logger.Debug("import progress", "component", "importer", "current", current, "total", total)
			}
		},
	})

	services := &inventory.Services{Storage: store, Importer: imp, Logger: logger}

	requestTimeout, err := cfg.GetRequestTimeout()
	if err != nil {
		return err
	}

	server := api.NewServer(&api.Config{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		RequestTimeout: requestTimeout,
		CORSOrigins:    cfg.Server.CORSOrigins,
		RateLimit:      cfg.Server.RateLimit,
	}, &api.Services{
		Editions:   inventory.NewEditionService(services),
		Cards:      inventory.NewCardService(services),
		Collection: inventory.NewCollectionService(services),
		Stats:      importMetrics,
		Gatherer:   registry,
		Ping:       store.Ping,
	}, logger)

	if cfg.Database.BackupDir != "" {
		if err := startBackups(ctx, cfg, store, logger); err != nil {
			return err
		}
	}

	if err := server.Start(); err != nil {
		return fmt.Errorf("start API server: %w", err)
	}
	logger.Info("API server running", "addr", server.Addr())

	<-ctx.Done()

	shutdownTimeout, err := cfg.GetShutdownTimeout()
	if err != nil {
		return err
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("API server stopped")
	return nil
}

// applyFlags lets explicit command line flags override the loaded config.
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Server.Port = *port
		case "db-path":
			cfg.Database.Path = *dbPath
		case "seed":
			cfg.Database.Seed = *seed
		}
	})
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storage.Service, error) {
	if cfg.Database.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	dbConfig := storage.DefaultConfig(cfg.Database.Path)
	dbConfig.AutoMigrate = cfg.Database.AutoMigrate
	db, err := storage.Open(dbConfig)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := storage.NewService(db)
	if cfg.Database.Seed {
		if err := store.SeedReferenceData(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("seed reference data: %w", err)
		}
		logger.Info("reference data seeded", "component", "storage")
	}
	return store, nil
}

// startBackups runs scheduled database backups until ctx is cancelled.
func startBackups(ctx context.Context, cfg *config.Config, store *storage.Service, logger *slog.Logger) error {
	interval, err := cfg.GetBackupInterval()
	if err != nil {
		return err
	}

	dir := cfg.Database.BackupDir
	scheduler, err := storage.NewBackupScheduler(func(ctx context.Context) (*storage.BackupInfo, error) {
		return store.Backup(ctx, dir)
	}, interval, logger)
	if err != nil {
		return err
	}

	go func() {
		if err := scheduler.Run(ctx); err != nil {
			logger.Error("backup scheduler stopped", "component", "backup", "error", err)
		}
	}()
	logger.Info("scheduled backups enabled", "component", "backup", "dir", dir, "interval", interval)
	return nil
}

func newCatalogClient(cfg *config.Config, recorder scryfall.Recorder, logger *slog.Logger) (*scryfall.Client, error) {
	delay, err := cfg.GetCatalogRequestDelay()
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.GetCatalogRequestTimeout()
	if err != nil {
		return nil, err
	}

	opts := scryfall.DefaultOptions()
	opts.BaseURL = cfg.Catalog.BaseURL
	opts.UserAgent = cfg.Catalog.UserAgent
	opts.RequestDelay = delay
	opts.RequestTimeout = timeout
	opts.MaxRetries = cfg.Catalog.MaxRetries
	opts.Metrics = recorder
	opts.Logger = logger

	return scryfall.NewClient(opts), nil
}
