// Package shipment orchestrates one batch end to end: read a shipment's
// line items, enrich and split them through the declaration engine, and
// write the Section 232 export files.
package shipment

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tariffmill/tariffmill/internal/domain/catalog"
	"github.com/tariffmill/tariffmill/internal/domain/catalog/htsmatch"
	"github.com/tariffmill/tariffmill/internal/domain/declaration"
	"github.com/tariffmill/tariffmill/internal/domain/declaration/export"
	"github.com/tariffmill/tariffmill/internal/domain/invoice"
	"github.com/tariffmill/tariffmill/internal/domain/invoice/template"
	"github.com/tariffmill/tariffmill/pkg/config"
	"github.com/tariffmill/tariffmill/pkg/metrics"
)

// Result summarises one processed input file.
type Result struct {
	JobID       uuid.UUID
	SourceFile  string
	Invoices    int
	Rows        int
	Outputs     []string
	Report      declaration.Report
	Suggestions []PartSuggestion
}

// PartSuggestion pairs a part number the catalog doesn't know with a
// keyword-matched HTS code an operator can start remediation from.
type PartSuggestion struct {
	PartNumber string
	HTSCode    string
	Keyword    string
	Fuzzy      bool
}

type Service struct {
	catalog   catalog.Catalog
	engine    *declaration.Engine
	processor *template.Processor
	suggester *htsmatch.Suggester
	folders   config.FolderConfig
	export    config.ExportConfig
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(cat catalog.Catalog, engine *declaration.Engine, processor *template.Processor,
	suggester *htsmatch.Suggester, folders config.FolderConfig, exportCfg config.ExportConfig,
	logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		catalog:   cat,
		engine:    engine,
		processor: processor,
		suggester: suggester,
		folders:   folders,
		export:    exportCfg,
		logger:    logger,
		now:       time.Now,
	}
}

// ProcessFolder runs one pass over the input folder: every .csv (parsed
// line items) and .txt (raw page text, form-feed separated) is processed
// and moved to Processed/ on success or Failed/ on error. A failing file
// never stops the pass.
func (s *Service) ProcessFolder(ctx context.Context) (processed, failed int, err error) {
	if err := s.ensureFolders(); err != nil {
		return 0, 0, err
	}

	entries, err := os.ReadDir(s.folders.InputDir)
	if err != nil {
		return 0, 0, fmt.Errorf("reading input folder: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".csv" && ext != ".txt" {
			continue
		}

		path := filepath.Join(s.folders.InputDir, entry.Name())
		result, procErr := s.ProcessFile(ctx, path)
		if procErr != nil {
			s.logger.Error("file processing failed",
				slog.String("file", entry.Name()),
				slog.Any("error", procErr))
			metrics.FilesFailed.Inc()
			failed++
			s.moveTo(path, filepath.Join(s.folders.InputDir, "Failed"))
			continue
		}

		processed++
		s.logger.Info("file processed",
			slog.String("file", entry.Name()),
			slog.String("job_id", result.JobID.String()),
			slog.Int("invoices", result.Invoices),
			slog.Int("rows", result.Rows),
			slog.Int("parts_not_found", len(result.Report.PartsNotFound)),
			slog.Int("corrupt_compositions", len(result.Report.Corrupt)),
			slog.Int("rejected", len(result.Report.Rejected)))
		s.moveTo(path, filepath.Join(s.folders.InputDir, "Processed"))
	}
	return processed, failed, nil
}

// ProcessFile processes a single input file and writes its exports.
func (s *Service) ProcessFile(ctx context.Context, path string) (*Result, error) {
	items, gross, err := s.readItems(path)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no line items in %s", filepath.Base(path))
	}

	decItems := make([]declaration.LineItem, len(items))
	for i, item := range items {
		decItems[i] = item.ToDeclaration()
	}

	rows, report := s.engine.BuildExportRows(ctx, decItems, gross, s.catalog)

	metrics.ShipmentsProcessed.Inc()
	metrics.PartsNotFound.Add(float64(len(report.PartsNotFound)))
	for _, row := range rows {
		metrics.RowsEmitted.WithLabelValues(string(row.Material)).Inc()
	}

	result := &Result{
		JobID:      uuid.New(),
		SourceFile: path,
		Rows:       len(rows),
		Report:     report,
	}

	stamp := s.now().Format("20060102_150405")
	for _, group := range declaration.GroupByInvoice(rows) {
		result.Invoices++
		outputs, err := s.writeExports(group, stamp)
		if err != nil {
			return nil, err
		}
		result.Outputs = append(result.Outputs, outputs...)
	}

	if len(report.PartsNotFound) > 0 {
		s.logger.Warn("parts missing from catalog",
			slog.Int("count", len(report.PartsNotFound)),
			slog.Any("part_numbers", report.PartsNotFound))
		result.Suggestions = s.suggestParts(report.PartsNotFound)
	}
	if len(report.Corrupt) > 0 {
		s.logger.Warn("corrupt material compositions",
			slog.Any("part_numbers", report.Corrupt))
	}
	return result, nil
}

// suggestParts runs the HTS keyword matcher over part numbers the catalog
// doesn't know and logs a candidate code for each hit, giving operators a
// starting point for adding the part to the catalog.
func (s *Service) suggestParts(partNumbers []string) []PartSuggestion {
	if s.suggester == nil {
		return nil
	}

	var suggestions []PartSuggestion
	for _, part := range partNumbers {
		match := s.suggester.Suggest(part)
		if match == nil {
			continue
		}
		suggestions = append(suggestions, PartSuggestion{
			PartNumber: part,
			HTSCode:    match.HTSCode,
			Keyword:    match.Pattern,
			Fuzzy:      match.Fuzzy,
		})
		s.logger.Info("hts suggestion for missing part",
			slog.String("part_number", part),
			slog.String("hts_code", match.HTSCode),
			slog.String("keyword", match.Pattern),
			slog.Bool("fuzzy", match.Fuzzy))
	}
	return suggestions
}

// readItems loads line items from an input file. CSV files carry already
// parsed rows; txt files carry raw page text (pages separated by form
// feeds) and run through the invoice templates first.
func (s *Service) readItems(path string) ([]invoice.LineItem, float64, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		items, err := invoice.ReadFile(path)
		if err != nil {
			return nil, 0, err
		}
		return items, invoice.GrossWeight(items), nil

	case ".txt":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, 0, fmt.Errorf("reading %s: %w", path, err)
		}
		doc := s.processor.ProcessPages(strings.Split(string(raw), "\f"))

		// Persist the interchange CSVs the way the legacy flow did, one
		// per invoice, so operators can inspect or re-run them.
		if s.folders.Consolidate && len(doc.Items) > 0 {
			if _, err := invoice.WriteConsolidated(doc.Items, s.folders.OutputDir, doc.Items[0].InvoiceNumber, s.now()); err != nil {
				return nil, 0, err
			}
		} else if len(doc.Items) > 0 {
			if _, err := invoice.WriteByInvoice(doc.Items, s.folders.OutputDir, s.now()); err != nil {
				return nil, 0, err
			}
		}
		return doc.Items, doc.GrossWeight, nil

	default:
		return nil, 0, fmt.Errorf("unsupported input file %s", filepath.Base(path))
	}
}

func (s *Service) writeExports(group declaration.InvoiceGroup, stamp string) ([]string, error) {
	invoiceNo := group.InvoiceNumber
	if invoiceNo == "" {
		invoiceNo = "UNKNOWN"
	}

	var outputs []string
	if s.export.WriteExcel {
		path := filepath.Join(s.folders.ExportDir, fmt.Sprintf("%s_232Export_%s.xlsx", invoiceNo, stamp))
		if err := export.WriteExcelFile(group.Rows, path); err != nil {
			return nil, fmt.Errorf("writing excel export for %s: %w", invoiceNo, err)
		}
		outputs = append(outputs, path)
	}
	if s.export.WriteCSV {
		path := filepath.Join(s.folders.ExportDir, fmt.Sprintf("%s_232Export_%s.csv", invoiceNo, stamp))
		if err := export.WriteCSVFile(group.Rows, path); err != nil {
			return nil, fmt.Errorf("writing csv export for %s: %w", invoiceNo, err)
		}
		outputs = append(outputs, path)
	}
	return outputs, nil
}

func (s *Service) ensureFolders() error {
	dirs := []string{
		s.folders.InputDir,
		filepath.Join(s.folders.InputDir, "Processed"),
		filepath.Join(s.folders.InputDir, "Failed"),
		s.folders.OutputDir,
		s.folders.ExportDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating folder %s: %w", dir, err)
		}
	}
	return nil
}

// moveTo relocates a handled input file, suffixing the name when the
// destination already has one from an earlier run.
func (s *Service) moveTo(path, destDir string) {
	base := filepath.Base(path)
	dest := filepath.Join(destDir, base)

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(dest); os.IsNotExist(err) {
			break
		}
		dest = filepath.Join(destDir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
	}

	if err := os.Rename(path, dest); err != nil {
		s.logger.Error("moving file", slog.String("file", base), slog.Any("error", err))
	}
}
