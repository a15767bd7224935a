// Package declaration implements the Section 232 derivative-row engine:
// it splits enriched invoice line items by material composition, prorates
// shipment weight across the resulting rows by value share, assigns CBP
// declaration codes and country-of-origin fields, and assembles the
// fifteen-field export records.
package declaration

import (
	"github.com/tariffmill/tariffmill/internal/domain/catalog"
	"github.com/tariffmill/tariffmill/pkg/money"
)

// LineItem is one parsed invoice line as handed to the engine. Upstream
// parsing guarantees PartNumber and TotalPrice are populated; anything
// else is rejected at the boundary and reported, never processed.
type LineItem struct {
	PartNumber    string
	InvoiceNumber string
	ProjectNumber string
	Quantity      float64
	TotalPrice    *money.Money
	NetWeight     float64
}

// EnrichedLineItem joins a LineItem with its catalog record. Created once
// per invoice row and never mutated afterwards.
type EnrichedLineItem struct {
	LineItem
	Part catalog.PartRecord
}

// Flag marks a data-quality condition on a derivative row. Flagged rows
// are still exported; the flag is surfaced through the Report so operators
// can remediate the catalog.
type Flag int

const (
	FlagNone Flag = iota
	// FlagPartNotFound marks rows for parts the catalog doesn't know.
	FlagPartNotFound
	// FlagCorruptComposition marks rows whose material percentages did
	// not sum to ~100, including the all-zero case.
	FlagCorruptComposition
)

// DerivativeRow is one material-specific declaration line produced by
// splitting a source item. The splitter sets Material and Value, the
// prorator fills Weight, the classifier and quantity resolver fill the
// rest.
type DerivativeRow struct {
	Item     *EnrichedLineItem
	Material MaterialType
	Value    *money.Money
	Weight   float64

	DeclarationCode string
	StatusFlag      string
	CountryMelt     string
	CountryCast     string
	CountrySmelt    string
	Qty1            string
	Qty2            string

	Dual bool
	Flag Flag
}

// ShipmentContext carries the shipment-level figures the prorator needs.
// GrossWeight comes from the Bill of Lading and may be absent (zero);
// TotalValue is the sum of total_price across every accepted line item.
type ShipmentContext struct {
	GrossWeight float64
	TotalValue  *money.Money
}

// RejectedItem records a line item refused at the engine boundary.
type RejectedItem struct {
	PartNumber    string
	InvoiceNumber string
	Reason        string
}

// Report summarises the data-quality conditions hit while building a
// shipment's export rows. Nothing in it is fatal: every condition degrades
// to a best-effort row instead of aborting the batch.
type Report struct {
	PartsNotFound []string
	Corrupt       []string
	Rejected      []RejectedItem
	RowCount      int
}

// Clean reports whether the shipment processed without any degraded rows.
func (r Report) Clean() bool {
	return len(r.PartsNotFound) == 0 && len(r.Corrupt) == 0 && len(r.Rejected) == 0
}
