package declaration

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/tariffmill/tariffmill/pkg/money"
)

const (
	// pctEpsilon filters rounding noise: percentages at or below it never
	// produce a row.
	pctEpsilon = 0.01
	// pctSumTolerance is the allowed drift of the six material
	// percentages around 100.
	pctSumTolerance = 0.5
)

// Split expands one enriched line item into its derivative rows, one per
// material with a non-zero share, in fixed material order. Each row's
// value is the item's total price scaled by the material percentage and
// rounded to the cent independently; the sub-cent remainder is accepted,
// not redistributed.
//
// A part the catalog doesn't know, or one whose percentages don't sum to
// ~100, degrades to a single flagged non-232 row carrying the full value.
func Split(item *EnrichedLineItem) []DerivativeRow {
	if !item.Part.Found {
		return []DerivativeRow{fallbackRow(item, FlagPartNotFound)}
	}

	var sum float64
	for _, m := range materialOrder {
		sum += materialPct(item.Part, m)
	}
	if math.Abs(sum-100) > pctSumTolerance {
		return []DerivativeRow{fallbackRow(item, FlagCorruptComposition)}
	}

	rows := make([]DerivativeRow, 0, 2)
	for _, m := range materialOrder {
		pct := materialPct(item.Part, m)
		if pct <= pctEpsilon {
			continue
		}
		rows = append(rows, DerivativeRow{
			Item:     item,
			Material: m,
			Value:    item.TotalPrice.PercentageDecimal(decimal.NewFromFloat(pct)),
		})
	}
	return rows
}

func fallbackRow(item *EnrichedLineItem, flag Flag) DerivativeRow {
	value := item.TotalPrice
	if value == nil {
		value = money.Zero(money.USD)
	}
	return DerivativeRow{
		Item:     item,
		Material: Non232,
		Value:    value,
		Flag:     flag,
	}
}
