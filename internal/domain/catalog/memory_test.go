package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCatalogLookup(t *testing.T) {
	cat := NewMemoryCatalog()
	cat.Put(PartRecord{
		PartNumber:  "LPU151-J02000",
		HTSCode:     "9403.20.0080",
		MID:         "CZMMC123PRAG",
		SteelPct:    60,
		AluminumPct: 40,
		QtyUnit:     QtyCountOnly,
	})

	rec := cat.Lookup(context.Background(), "LPU151-J02000")
	assert.True(t, rec.Found)
	assert.Equal(t, 60.0, rec.SteelPct)
	assert.Equal(t, 40.0, rec.AluminumPct)

	miss := cat.Lookup(context.Background(), "UNKNOWN-1")
	assert.False(t, miss.Found)
	assert.Equal(t, 100.0, miss.NonSteelPct)
	assert.Equal(t, QtyCountOnly, miss.QtyUnit)
	assert.Equal(t, "UNKNOWN-1", miss.PartNumber)
}

func TestMemoryCatalogLoadCSV(t *testing.T) {
	csvData := strings.Join([]string{
		"part_number,description,hts_code,mid,country_origin,steel_ratio,aluminum_ratio,copper_ratio,wood_ratio,auto_ratio,non_steel_ratio,qty_unit,sec301_exclusion_tariff",
		"BENCH-A100,park bench,9403.20.0080,CZMMC123PRAG,cz,60,40,0,0,0,0,NO,",
		"TABLE-B200,table,9403.60.8081,CZMMC123PRAG,,0,0,0,1,0,0,KG,9903.88.03",
		",missing part number,,,,,,,,,,,",
	}, "\n")

	cat := NewMemoryCatalog()
	loaded, err := cat.LoadCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, loaded)
	assert.Equal(t, 2, cat.Len())

	bench := cat.Lookup(context.Background(), "BENCH-A100")
	assert.True(t, bench.Found)
	assert.Equal(t, "CZ", bench.CountryOrigin)
	assert.Equal(t, QtyCountOnly, bench.QtyUnit)

	// Fractional ratios are lifted to the 0-100 scale.
	table := cat.Lookup(context.Background(), "TABLE-B200")
	assert.Equal(t, 100.0, table.WoodPct)
	assert.Equal(t, QtyWeightOnly, table.QtyUnit)
	assert.Equal(t, "9903.88.03", table.Sec301Exclusion)
}

func TestParseQtyUnit(t *testing.T) {
	tests := []struct {
		code string
		want QtyUnit
	}{
		{"KG", QtyWeightOnly},
		{"g", QtyWeightOnly},
		{"T", QtyWeightOnly},
		{"NO", QtyCountOnly},
		{"pcs", QtyCountOnly},
		{"DOZ", QtyCountOnly},
		{"", QtyCountOnly},
		{"M2", QtyDual},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQtyUnit(tt.code))
		})
	}
}
