package declaration

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tariffmill/tariffmill/internal/domain/catalog"
	"github.com/tariffmill/tariffmill/pkg/money"
)

// ExportRow is the fifteen-column CBP export record. Column order and
// header names are fixed by the downstream filing template; the csv tags
// drive both the CSV writer and the Excel header row. Fields tagged "-"
// are carried for grouping and styling but never written as columns.
type ExportRow struct {
	ProductNo          string `csv:"Product No"`
	ValueUSD           string `csv:"ValueUSD"`
	HTSCode            string `csv:"HTSCode"`
	MID                string `csv:"MID"`
	Qty1               string `csv:"Qty1"`
	Qty2               string `csv:"Qty2"`
	DecTypeCd          string `csv:"DecTypeCd"`
	CountryOfMelt      string `csv:"CountryofMelt"`
	CountryOfCast      string `csv:"CountryOfCast"`
	PrimCountryOfSmelt string `csv:"PrimCountryOfSmelt"`
	// PrimSmeltFlag is reserved by the filing template and always empty.
	PrimSmeltFlag string `csv:"PrimSmeltFlag"`
	SteelRatio    string `csv:"SteelRatio"`
	AluminumRatio string `csv:"AluminumRatio"`
	NonSteelRatio string `csv:"NonSteelRatio"`
	Status232     string `csv:"232_Status"`

	InvoiceNumber   string       `csv:"-"`
	ProjectNumber   string       `csv:"-"`
	Material        MaterialType `csv:"-"`
	DualDeclaration string       `csv:"-"`
	Flag            Flag         `csv:"-"`
}

// Engine runs the full splitting pipeline for one shipment.
type Engine struct {
	classifier *Classifier
	logger     *slog.Logger
}

func NewEngine(classifier *Classifier, logger *slog.Logger) *Engine {
	if classifier == nil {
		classifier = NewClassifier(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{classifier: classifier, logger: logger}
}

// BuildExportRows processes one shipment end to end: enrich each line item
// from the catalog, split by material, prorate the Bill-of-Lading gross
// weight across all derivative rows by value share, classify, resolve
// quantities and assemble export records. Rows come back in line-item
// order, which keeps them contiguous per invoice.
//
// Nothing here halts the batch. Unknown parts, corrupt compositions and
// malformed line items all degrade to best-effort output and are tallied
// in the returned Report.
func (e *Engine) BuildExportRows(ctx context.Context, items []LineItem, grossWeight float64, cat catalog.Catalog) ([]ExportRow, Report) {
	var report Report

	enriched := make([]*EnrichedLineItem, 0, len(items))
	for _, item := range items {
		if reason := validate(item); reason != "" {
			report.Rejected = append(report.Rejected, RejectedItem{
				PartNumber:    item.PartNumber,
				InvoiceNumber: item.InvoiceNumber,
				Reason:        reason,
			})
			e.logger.Warn("line item rejected",
				slog.String("part_number", item.PartNumber),
				slog.String("invoice", item.InvoiceNumber),
				slog.String("reason", reason))
			continue
		}
		enriched = append(enriched, &EnrichedLineItem{
			LineItem: item,
			Part:     cat.Lookup(ctx, item.PartNumber),
		})
	}

	// Split everything first: the prorator needs the complete row set
	// before any single weight can be computed.
	groups := make([][]DerivativeRow, len(enriched))
	totals := make([]*money.Money, 0, len(enriched))
	var all []DerivativeRow
	for i, item := range enriched {
		groups[i] = Split(item)
		all = append(all, groups[i]...)
		totals = append(totals, item.TotalPrice)

		switch groups[i][0].Flag {
		case FlagPartNotFound:
			report.PartsNotFound = append(report.PartsNotFound, item.PartNumber)
		case FlagCorruptComposition:
			report.Corrupt = append(report.Corrupt, item.PartNumber)
		}
	}

	ProrateWeights(all, ShipmentContext{
		GrossWeight: grossWeight,
		TotalValue:  money.Sum(totals),
	})

	// Weights were written into the flat slice; classify and resolve per
	// source item over the same backing windows.
	rows := make([]ExportRow, 0, len(all))
	offset := 0
	for _, group := range groups {
		window := all[offset : offset+len(group)]
		offset += len(group)

		e.classifier.Classify(window)
		for i := range window {
			ResolveQuantities(&window[i])
			rows = append(rows, buildExportRow(&window[i]))
		}
	}
	report.RowCount = len(rows)
	return rows, report
}

func validate(item LineItem) string {
	if item.PartNumber == "" {
		return "missing part number"
	}
	if item.TotalPrice == nil {
		return "missing total price"
	}
	return ""
}

func buildExportRow(row *DerivativeRow) ExportRow {
	part := row.Item.Part
	out := ExportRow{
		ProductNo:          row.Item.PartNumber,
		ValueUSD:           row.Value.String(),
		HTSCode:            part.HTSCode,
		MID:                part.MID,
		Qty1:               row.Qty1,
		Qty2:               row.Qty2,
		DecTypeCd:          row.DeclarationCode,
		CountryOfMelt:      row.CountryMelt,
		CountryOfCast:      row.CountryCast,
		PrimCountryOfSmelt: row.CountrySmelt,
		SteelRatio:         formatRatio(part.SteelPct),
		AluminumRatio:      formatRatio(part.AluminumPct),
		NonSteelRatio:      formatRatio(part.NonSteelPct),
		Status232:          row.StatusFlag,

		InvoiceNumber: row.Item.InvoiceNumber,
		ProjectNumber: row.Item.ProjectNumber,
		Material:      row.Material,
		Flag:          row.Flag,
	}
	if row.Dual {
		out.DualDeclaration = DualMarker
	}
	return out
}

// formatRatio renders a composition percentage the way the filing template
// expects it. All three ratio columns repeat the source item's full
// composition on every derivative row.
func formatRatio(pct float64) string {
	return fmt.Sprintf("%.2f%%", pct)
}

// InvoiceGroup is one invoice's worth of export rows, for writing one
// output file per invoice.
type InvoiceGroup struct {
	InvoiceNumber string
	Rows          []ExportRow
}

// GroupByInvoice partitions export rows by invoice number, preserving
// first-seen invoice order and row order within each invoice.
func GroupByInvoice(rows []ExportRow) []InvoiceGroup {
	index := make(map[string]int)
	var groups []InvoiceGroup
	for _, row := range rows {
		i, ok := index[row.InvoiceNumber]
		if !ok {
			i = len(groups)
			index[row.InvoiceNumber] = i
			groups = append(groups, InvoiceGroup{InvoiceNumber: row.InvoiceNumber})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}
	return groups
}
