// Package invoice defines the parsed invoice line item and the CSV
// interchange format that sits between document parsing and the
// declaration engine. One CSV is written per invoice number so a multi-
// invoice PDF fans out into one export per invoice.
package invoice

import (
	"strconv"

	"github.com/tariffmill/tariffmill/internal/domain/declaration"
	"github.com/tariffmill/tariffmill/pkg/money"
)

// LineItem is one parsed invoice row. Monetary amounts are stored as
// already-normalized decimal strings ("1646.70") so the CSV round-trips
// byte-identically; the material block fields are informational context
// captured from the invoice text, the authoritative composition comes
// from the parts catalog at enrichment time.
type LineItem struct {
	InvoiceNumber string  `csv:"invoice_number"`
	ProjectNumber string  `csv:"project_number"`
	PartNumber    string  `csv:"part_number"`
	Quantity      float64 `csv:"quantity"`
	TotalPrice    string  `csv:"total_price"`

	SteelPct      float64 `csv:"steel_pct"`
	SteelKg       float64 `csv:"steel_kg"`
	SteelValue    float64 `csv:"steel_value"`
	AluminumPct   float64 `csv:"aluminum_pct"`
	AluminumKg    float64 `csv:"aluminum_kg"`
	AluminumValue float64 `csv:"aluminum_value"`
	NetWeight     float64 `csv:"net_weight"`

	// BOLGrossWeight repeats the shipment gross weight from the Bill of
	// Lading on every row, the shipment value the prorator works from.
	BOLGrossWeight float64 `csv:"bol_gross_weight"`
}

// ToDeclaration converts the parsed row into the declaration engine's
// input shape. An unparseable price leaves TotalPrice nil so the engine
// rejects the row at its boundary instead of this layer guessing.
func (li LineItem) ToDeclaration() declaration.LineItem {
	out := declaration.LineItem{
		PartNumber:    li.PartNumber,
		InvoiceNumber: li.InvoiceNumber,
		ProjectNumber: li.ProjectNumber,
		Quantity:      li.Quantity,
		NetWeight:     li.NetWeight,
	}
	if li.TotalPrice != "" {
		if price, err := money.NewFromString(li.TotalPrice, money.USD, false); err == nil {
			out.TotalPrice = price
		}
	}
	return out
}

// GrossWeight returns the shipment gross weight carried by a batch of
// rows: the first non-zero bol_gross_weight, or zero when no Bill of
// Lading was found.
func GrossWeight(items []LineItem) float64 {
	for _, item := range items {
		if item.BOLGrossWeight > 0 {
			return item.BOLGrossWeight
		}
	}
	return 0
}

// FormatAmount renders a float as the normalized two-decimal string used
// in the interchange CSV.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
