package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tariffmill/tariffmill/internal/domain/catalog"
	"github.com/tariffmill/tariffmill/pkg/config"
	"github.com/tariffmill/tariffmill/pkg/cron"
	"github.com/tariffmill/tariffmill/pkg/db"
	"github.com/tariffmill/tariffmill/pkg/metrics"
)

// resolveMode validates the run-mode flags. Single pass is the default;
// -once exists for explicit invocation and conflicts with -watch.
func resolveMode(watch, once bool) (watchMode bool, err error) {
	if watch && once {
		return false, errors.New("-once and -watch are mutually exclusive")
	}
	return watch, nil
}

func main() {
	watch := flag.Bool("watch", false, "keep polling the input folder on the configured interval")
	once := flag.Bool("once", false, "process the input folder a single time and exit (default)")
	importCatalog := flag.Bool("import-catalog", false, "load the catalog CSV into Postgres and exit")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	watchMode, err := resolveMode(*watch, *once)
	if err != nil {
		logger.Error("invalid flags", slog.Any("error", err))
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx := context.Background()

	if *importCatalog {
		if err := runCatalogImport(ctx, cfg, logger); err != nil {
			logger.Error("catalog import failed", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	deps, err := InitDependencies(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize dependencies", slog.Any("error", err))
		os.Exit(1)
	}
	defer deps.Cleanup()

	if cfg.Observability.MetricsEnabled {
		go func() {
			if err := metrics.Serve(cfg.Observability.MetricsPort, logger); err != nil {
				logger.Error("metrics endpoint failed", slog.Any("error", err))
			}
		}()
	}

	if !watchMode {
		processed, failed, err := deps.Shipment.ProcessFolder(ctx)
		if err != nil {
			logger.Error("processing failed", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("run completed",
			slog.Int("files_processed", processed),
			slog.Int("files_failed", failed),
		)
		if failed > 0 {
			os.Exit(1)
		}
		return
	}

	scheduler := cron.NewScheduler(deps.Shipment, cfg.Folders.PollSeconds, logger)
	scheduler.RunNow()
	if err := scheduler.Start(); err != nil {
		logger.Error("failed to start folder watch", slog.Any("error", err))
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	<-scheduler.Stop().Done()
}

// runCatalogImport pushes the configured catalog CSV into the parts_master
// table so the Postgres backend serves the same parts the CSV did.
func runCatalogImport(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.Catalog.CSVPath == "" {
		return errors.New("TARIFFMILL_CATALOG_CSV must point at the catalog CSV to import")
	}

	database, err := db.New(ctx, &cfg.Database, logger)
	if err != nil {
		return err
	}
	defer database.Close()

	pg := catalog.NewPostgresCatalog(database.Pool, logger)
	imported, err := catalog.ImportCSVFile(ctx, pg, cfg.Catalog.CSVPath)
	if err != nil {
		return err
	}

	logger.Info("catalog imported into postgres",
		slog.String("path", cfg.Catalog.CSVPath),
		slog.Int("parts", imported),
	)
	return nil
}
