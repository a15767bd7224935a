package declaration

import (
	"math"
	"strconv"

	"github.com/tariffmill/tariffmill/internal/domain/catalog"
)

// ResolveQuantities fills Qty1/Qty2 per CBP convention for the part's
// quantity unit class:
//
//	weight-only (KG, G, T):   Qty1 = prorated weight, Qty2 empty
//	count-only  (NO, PCS...): Qty1 = original count,  Qty2 = prorated weight
//	dual:                     Qty1 = original count,  Qty2 = prorated weight
//
// Count-only rows still carry the weight in Qty2 because CBP requires a
// weight figure on derivative rows. The original count is repeated
// unchanged on every derivative row of a split item; it is never prorated.
func ResolveQuantities(row *DerivativeRow) {
	weight := formatQty(row.Weight)
	count := formatQty(row.Item.Quantity)

	switch row.Item.Part.QtyUnit {
	case catalog.QtyWeightOnly:
		row.Qty1 = weight
		row.Qty2 = ""
	default:
		row.Qty1 = count
		row.Qty2 = weight
	}
}

// formatQty renders a quantity as a whole-number string. Non-positive
// values render empty: an absent quantity must never be declared as zero,
// since zero is itself a meaningful declared value.
func formatQty(v float64) string {
	if v <= 0 {
		return ""
	}
	return strconv.FormatInt(int64(math.Round(v)), 10)
}
