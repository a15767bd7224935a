package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tariffmill/tariffmill/internal/domain/catalog"
	"github.com/tariffmill/tariffmill/internal/domain/catalog/htsmatch"
	"github.com/tariffmill/tariffmill/internal/domain/declaration"
	"github.com/tariffmill/tariffmill/internal/domain/invoice/template"
	"github.com/tariffmill/tariffmill/internal/domain/shipment"
	"github.com/tariffmill/tariffmill/pkg/config"
	"github.com/tariffmill/tariffmill/pkg/db"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	Catalog   catalog.Catalog
	Suggester *htsmatch.Suggester
	Engine    *declaration.Engine
	Processor *template.Processor
	Shipment  *shipment.Service
}

// InitDependencies initializes all application dependencies
func InitDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initCatalog(ctx); err != nil {
		return nil, fmt.Errorf("failed to init catalog: %w", err)
	}

	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initCatalog picks the parts catalog backend: a CSV-loaded in-memory
// catalog when TARIFFMILL_CATALOG_CSV is set, Postgres otherwise.
func (d *Dependencies) initCatalog(ctx context.Context) error {
	if path := d.Config.Catalog.CSVPath; path != "" {
		mem := catalog.NewMemoryCatalog()
		loaded, err := mem.LoadCSVFile(path)
		if err != nil {
			return fmt.Errorf("loading catalog csv: %w", err)
		}
		d.Catalog = mem
		d.Logger.Info("catalog loaded from csv",
			slog.String("path", path),
			slog.Int("parts", loaded),
		)
		return nil
	}

	database, err := db.New(ctx, &d.Config.Database, d.Logger)
	if err != nil {
		return err
	}
	d.DB = database
	d.Catalog = catalog.NewPostgresCatalog(d.DB.Pool, d.Logger)
	d.Logger.Info("catalog backed by postgres")
	return nil
}

// initServices initializes the engine, the optional lookup tables and the
// shipment service.
func (d *Dependencies) initServices() error {
	autoCodes, err := d.loadAutoCodes()
	if err != nil {
		return err
	}
	if err := d.initSuggester(); err != nil {
		return err
	}

	d.Engine = declaration.NewEngine(declaration.NewClassifier(autoCodes), d.Logger)
	d.Processor = template.NewProcessor(template.NewRegistry(), d.Logger)
	d.Shipment = shipment.NewService(
		d.Catalog,
		d.Engine,
		d.Processor,
		d.Suggester,
		d.Config.Folders,
		d.Config.Export,
		d.Logger,
	)
	d.Logger.Info("services initialized")
	return nil
}

// loadAutoCodes reads the HTS → declaration code table for automotive parts
// when TARIFFMILL_AUTO_CODES_CSV is set; auto rows get empty codes otherwise.
func (d *Dependencies) loadAutoCodes() (map[string]string, error) {
	path := d.Config.Catalog.AutoCodesCSV
	if path == "" {
		return nil, nil
	}
	codes, err := declaration.LoadAutoCodesFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading auto code csv: %w", err)
	}
	d.Logger.Info("auto declaration codes loaded",
		slog.String("path", path),
		slog.Int("codes", len(codes)),
	)
	return codes, nil
}

// initSuggester builds the HTS keyword matcher for catalog misses when
// TARIFFMILL_HTS_KEYWORDS_CSV is set.
func (d *Dependencies) initSuggester() error {
	path := d.Config.Catalog.HTSKeywordsCSV
	if path == "" {
		return nil
	}
	keywords, err := htsmatch.LoadKeywordsFile(path)
	if err != nil {
		return fmt.Errorf("loading hts keyword csv: %w", err)
	}
	d.Suggester = htsmatch.NewSuggester(keywords)
	d.Logger.Info("hts keyword table loaded",
		slog.String("path", path),
		slog.Int("keywords", len(keywords)),
	)
	return nil
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
