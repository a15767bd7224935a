package declaration

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tariffmill/tariffmill/internal/domain/catalog"
	"github.com/tariffmill/tariffmill/pkg/money"
)

func testEngine() *Engine {
	return NewEngine(nil, slog.New(slog.DiscardHandler))
}

// Reproduces the documented worked example: a $1200 bench at 60% steel /
// 40% aluminum inside a $2413.30 shipment with 4950 kg gross weight.
func TestBuildExportRowsShipment(t *testing.T) {
	cat := catalog.NewMemoryCatalog()
	cat.Put(catalog.PartRecord{
		PartNumber:  "BENCH-A100",
		HTSCode:     "9401.69.8031",
		MID:         "CZMMCVYS130PRE",
		SteelPct:    60,
		AluminumPct: 40,
		QtyUnit:     catalog.QtyCountOnly,
	})
	cat.Put(catalog.PartRecord{
		PartNumber:  "PLANTER-B2",
		HTSCode:     "3926.90.9989",
		MID:         "CZMMCVYS130PRE",
		NonSteelPct: 100,
		QtyUnit:     catalog.QtyCountOnly,
	})

	items := []LineItem{
		{
			PartNumber:    "BENCH-A100",
			InvoiceNumber: "2025100123",
			Quantity:      2,
			TotalPrice:    money.New(120000, money.USD),
		},
		{
			PartNumber:    "PLANTER-B2",
			InvoiceNumber: "2025100123",
			Quantity:      10,
			TotalPrice:    money.New(121330, money.USD),
		},
	}

	rows, report := testEngine().BuildExportRows(context.Background(), items, 4950.0, cat)

	require.Len(t, rows, 3)
	assert.True(t, report.Clean())
	assert.Equal(t, 3, report.RowCount)

	steel := rows[0]
	assert.Equal(t, "BENCH-A100", steel.ProductNo)
	assert.Equal(t, "720.00", steel.ValueUSD)
	assert.Equal(t, "08", steel.DecTypeCd)
	assert.Equal(t, "232_Steel", steel.Status232)
	assert.Equal(t, "2", steel.Qty1)
	assert.Equal(t, "1477", steel.Qty2)
	assert.Equal(t, "CZ", steel.CountryOfMelt)
	assert.Empty(t, steel.CountryOfCast)
	assert.Equal(t, "07 & 08", steel.DualDeclaration)
	assert.Equal(t, "60.00%", steel.SteelRatio)
	assert.Equal(t, "40.00%", steel.AluminumRatio)
	assert.Equal(t, "0.00%", steel.NonSteelRatio)

	aluminum := rows[1]
	assert.Equal(t, "480.00", aluminum.ValueUSD)
	assert.Equal(t, "07", aluminum.DecTypeCd)
	assert.Equal(t, "232_Aluminum", aluminum.Status232)
	assert.Equal(t, "985", aluminum.Qty2)
	assert.Equal(t, "CZ", aluminum.CountryOfMelt)
	assert.Equal(t, "CZ", aluminum.CountryOfCast)
	assert.Equal(t, "CZ", aluminum.PrimCountryOfSmelt)
	assert.Equal(t, "07 & 08", aluminum.DualDeclaration)

	planter := rows[2]
	assert.Equal(t, "1213.30", planter.ValueUSD)
	assert.Empty(t, planter.DecTypeCd)
	assert.Equal(t, "Non_232", planter.Status232)
	assert.Empty(t, planter.DualDeclaration)
	// PrimSmeltFlag is reserved and always empty.
	assert.Empty(t, planter.PrimSmeltFlag)
}

func TestBuildExportRowsPartNotFound(t *testing.T) {
	items := []LineItem{{
		PartNumber:    "GHOST-1",
		InvoiceNumber: "2025100124",
		Quantity:      1,
		TotalPrice:    money.New(50000, money.USD),
	}}

	rows, report := testEngine().BuildExportRows(context.Background(), items, 0, catalog.NewMemoryCatalog())

	require.Len(t, rows, 1)
	assert.Equal(t, "500.00", rows[0].ValueUSD)
	assert.Equal(t, "Non_232", rows[0].Status232)
	assert.Equal(t, FlagPartNotFound, rows[0].Flag)
	assert.Equal(t, []string{"GHOST-1"}, report.PartsNotFound)
	assert.False(t, report.Clean())
}

func TestBuildExportRowsCorruptComposition(t *testing.T) {
	cat := catalog.NewMemoryCatalog()
	cat.Put(catalog.PartRecord{PartNumber: "BAD-PCT", SteelPct: 30})

	items := []LineItem{{
		PartNumber: "BAD-PCT",
		Quantity:   1,
		TotalPrice: money.New(10000, money.USD),
	}}

	rows, report := testEngine().BuildExportRows(context.Background(), items, 0, cat)

	require.Len(t, rows, 1)
	assert.Equal(t, FlagCorruptComposition, rows[0].Flag)
	assert.Equal(t, []string{"BAD-PCT"}, report.Corrupt)
}

func TestBuildExportRowsBoundaryRejection(t *testing.T) {
	items := []LineItem{
		{PartNumber: "", TotalPrice: money.New(100, money.USD)},
		{PartNumber: "NO-PRICE", InvoiceNumber: "2025100125"},
	}

	rows, report := testEngine().BuildExportRows(context.Background(), items, 0, catalog.NewMemoryCatalog())

	assert.Empty(t, rows)
	require.Len(t, report.Rejected, 2)
	assert.Equal(t, "missing part number", report.Rejected[0].Reason)
	assert.Equal(t, "missing total price", report.Rejected[1].Reason)
}

func TestBuildExportRowsIdempotent(t *testing.T) {
	cat := catalog.NewMemoryCatalog()
	cat.Put(catalog.PartRecord{
		PartNumber:  "BENCH-A100",
		SteelPct:    60,
		AluminumPct: 40,
		QtyUnit:     catalog.QtyCountOnly,
	})
	items := []LineItem{{
		PartNumber:    "BENCH-A100",
		InvoiceNumber: "2025100123",
		Quantity:      2,
		TotalPrice:    money.New(120000, money.USD),
	}}

	first, _ := testEngine().BuildExportRows(context.Background(), items, 4950.0, cat)
	second, _ := testEngine().BuildExportRows(context.Background(), items, 4950.0, cat)

	assert.Equal(t, first, second)
}

func TestGroupByInvoice(t *testing.T) {
	rows := []ExportRow{
		{ProductNo: "A", InvoiceNumber: "INV-1"},
		{ProductNo: "B", InvoiceNumber: "INV-2"},
		{ProductNo: "C", InvoiceNumber: "INV-1"},
	}

	groups := GroupByInvoice(rows)

	require.Len(t, groups, 2)
	assert.Equal(t, "INV-1", groups[0].InvoiceNumber)
	require.Len(t, groups[0].Rows, 2)
	assert.Equal(t, "A", groups[0].Rows[0].ProductNo)
	assert.Equal(t, "C", groups[0].Rows[1].ProductNo)
	assert.Equal(t, "INV-2", groups[1].InvoiceNumber)
}
