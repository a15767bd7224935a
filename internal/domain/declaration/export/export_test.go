package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tariffmill/tariffmill/internal/domain/declaration"
)

func sampleRows() []declaration.ExportRow {
	return []declaration.ExportRow{
		{
			ProductNo: "BENCH-A100", ValueUSD: "720.00", HTSCode: "9401.69.8031",
			MID: "CZMMCVYS130PRE", Qty1: "2", Qty2: "1477", DecTypeCd: "08",
			CountryOfMelt: "CZ", SteelRatio: "60.00%", AluminumRatio: "40.00%",
			NonSteelRatio: "0.00%", Status232: "232_Steel",
			InvoiceNumber: "2025201714", Material: declaration.Steel,
			DualDeclaration: "07 & 08",
		},
		{
			ProductNo: "BENCH-A100", ValueUSD: "480.00", HTSCode: "9401.69.8031",
			MID: "CZMMCVYS130PRE", Qty1: "2", Qty2: "985", DecTypeCd: "07",
			CountryOfMelt: "CZ", CountryOfCast: "CZ", PrimCountryOfSmelt: "CZ",
			SteelRatio: "60.00%", AluminumRatio: "40.00%", NonSteelRatio: "0.00%",
			Status232: "232_Aluminum", InvoiceNumber: "2025201714",
			Material: declaration.Aluminum, DualDeclaration: "07 & 08",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(sampleRows(), &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t,
		"Product No,ValueUSD,HTSCode,MID,Qty1,Qty2,DecTypeCd,CountryofMelt,CountryOfCast,PrimCountryOfSmelt,PrimSmeltFlag,SteelRatio,AluminumRatio,NonSteelRatio,232_Status",
		lines[0])
	assert.Contains(t, lines[1], "720.00")
	assert.Contains(t, lines[1], "232_Steel")
	// Metadata fields never become columns.
	assert.NotContains(t, lines[0], "InvoiceNumber")
	assert.NotContains(t, lines[1], "07 & 08")
}

func TestWriteExcel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExcel(sampleRows(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Product No", rows[0][0])
	assert.Equal(t, "232_Status", rows[0][14])
	assert.Equal(t, "720.00", rows[1][1])
	assert.Equal(t, "08", rows[1][6])
	assert.Equal(t, "480.00", rows[2][1])
	assert.Equal(t, "232_Aluminum", rows[2][14])
}

func TestWriteExcelEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExcel(nil, &buf))
	assert.NotZero(t, buf.Len())
}
