package declaration

import "github.com/shopspring/decimal"

// ProrateWeights fills the Weight field on every derivative row of one
// shipment. It needs the complete row set up front: each row's weight is
// its share of the shipment's total value applied to the Bill-of-Lading
// gross weight, so no weight can be computed until splitting is done.
//
// Without a gross weight there is nothing to distribute and each row falls
// back to its source item's own net weight (unprorated). A zero total
// value with a known gross weight distributes the weight equally instead
// of dividing by zero.
func ProrateWeights(rows []DerivativeRow, sc ShipmentContext) {
	if len(rows) == 0 {
		return
	}
	if sc.GrossWeight <= 0 {
		for i := range rows {
			rows[i].Weight = rows[i].Item.NetWeight
		}
		return
	}

	if sc.TotalValue.IsZero() {
		share := sc.GrossWeight / float64(len(rows))
		for i := range rows {
			rows[i].Weight = share
		}
		return
	}

	gross := decimal.NewFromFloat(sc.GrossWeight)
	for i := range rows {
		share := rows[i].Value.ShareOf(sc.TotalValue)
		rows[i].Weight = share.Mul(gross).InexactFloat64()
	}
}
