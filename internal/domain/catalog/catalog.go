// Package catalog provides the parts master lookup that enriches invoice
// line items with material composition, HTS classification and origin data.
package catalog

import (
	"context"
	"strings"
)

// QtyUnit describes which CBP quantity fields a part declares in.
type QtyUnit int

const (
	// QtyCountOnly covers piece units (NO, PCS, DOZ).
	QtyCountOnly QtyUnit = iota
	// QtyWeightOnly covers weight units (KG, G, T).
	QtyWeightOnly
	// QtyDual covers parts declared by both count and weight.
	QtyDual
)

// ParseQtyUnit maps a catalog unit code to its QtyUnit class. Unknown codes
// declare both quantities, matching the original export behaviour.
func ParseQtyUnit(code string) QtyUnit {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "KG", "G", "T":
		return QtyWeightOnly
	case "NO", "PCS", "DOZ", "":
		return QtyCountOnly
	default:
		return QtyDual
	}
}

func (u QtyUnit) String() string {
	switch u {
	case QtyWeightOnly:
		return "WEIGHT_ONLY"
	case QtyDual:
		return "DUAL"
	default:
		return "COUNT_ONLY"
	}
}

// PartRecord is the catalog's view of one part. Material percentages are on
// the 0-100 scale and should sum to 100 for a well-maintained part.
type PartRecord struct {
	PartNumber    string
	Description   string
	HTSCode       string
	MID           string
	CountryOrigin string

	SteelPct    float64
	AluminumPct float64
	CopperPct   float64
	WoodPct     float64
	AutoPct     float64
	NonSteelPct float64

	QtyUnit         QtyUnit
	Sec301Exclusion string
	Found           bool
}

// NotFound returns the defaulted record for a part the catalog doesn't know:
// 100% non-steel so the full value lands on a single non-232 row, with Found
// left false so callers can flag the miss instead of silently mis-declaring.
func NotFound(partNumber string) PartRecord {
	return PartRecord{
		PartNumber:  partNumber,
		NonSteelPct: 100,
		QtyUnit:     QtyCountOnly,
		Found:       false,
	}
}

// Catalog is the read-only lookup the declaration pipeline depends on.
// Lookup never fails: misses and backend errors degrade to NotFound records.
type Catalog interface {
	Lookup(ctx context.Context, partNumber string) PartRecord
}
