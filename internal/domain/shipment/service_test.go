package shipment

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tariffmill/tariffmill/internal/domain/catalog"
	"github.com/tariffmill/tariffmill/internal/domain/catalog/htsmatch"
	"github.com/tariffmill/tariffmill/internal/domain/declaration"
	"github.com/tariffmill/tariffmill/internal/domain/invoice/template"
	"github.com/tariffmill/tariffmill/pkg/config"
)

const inputCSV = `invoice_number,project_number,part_number,quantity,total_price,steel_pct,steel_kg,steel_value,aluminum_pct,aluminum_kg,aluminum_value,net_weight,bol_gross_weight
2025201714,US25A0196,BENCH-A100,2,1200.00,60,,,40,,,,4950
2025201714,US25A0196,PLANTER-B2,10,1213.30,,,,,,,,4950
`

func testCatalog() *catalog.MemoryCatalog {
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
	return cat
}

func testService(t *testing.T) (*Service, config.FolderConfig) {
	t.Helper()
	root := t.TempDir()
	folders := config.FolderConfig{
		InputDir:  filepath.Join(root, "input"),
		OutputDir: filepath.Join(root, "output"),
		ExportDir: filepath.Join(root, "exports"),
	}
	logger := slog.New(slog.DiscardHandler)
	svc := NewService(
		testCatalog(),
		declaration.NewEngine(nil, logger),
		template.NewProcessor(nil, logger),
		nil,
		folders,
		config.ExportConfig{WriteExcel: true, WriteCSV: true},
		logger,
	)
	return svc, folders
}

func writeInput(t *testing.T, folders config.FolderConfig, name, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(folders.InputDir, 0o755))
	path := filepath.Join(folders.InputDir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestProcessFileCSV(t *testing.T) {
	svc, folders := testService(t)
	require.NoError(t, os.MkdirAll(folders.ExportDir, 0o755))
	path := writeInput(t, folders, "2025201714.csv", inputCSV)

	result, err := svc.ProcessFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Invoices)
	assert.Equal(t, 3, result.Rows)
	assert.True(t, result.Report.Clean())

	// One Excel and one CSV export per invoice.
	require.Len(t, result.Outputs, 2)
	assert.Contains(t, filepath.Base(result.Outputs[0]), "2025201714_232Export_")
	for _, out := range result.Outputs {
		_, statErr := os.Stat(out)
		assert.NoError(t, statErr)
	}
}

func TestProcessFileTxt(t *testing.T) {
	svc, folders := testService(t)
	require.NoError(t, os.MkdirAll(folders.OutputDir, 0o755))
	require.NoError(t, os.MkdirAll(folders.ExportDir, 0o755))

	pages := "Invoice n.: 2025201714\nproject n.: US25A0196\n" +
		"LPU151-J02000 US25A0196 3,00 ks 11.579,04 CZK 0 1.646,70 USD\n" +
		"\fBILL OF LADING\nGROSS WEIGHT 4.950,000 KGS\n"
	path := writeInput(t, folders, "shipment.txt", pages)

	result, err := svc.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Invoices)

	// The interchange CSV lands in the output folder.
	entries, err := os.ReadDir(folders.OutputDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "2025201714_US25A0196_")
}

func TestProcessFolderMovesFiles(t *testing.T) {
	svc, folders := testService(t)
	writeInput(t, folders, "good.csv", inputCSV)
	writeInput(t, folders, "bad.csv", "invoice_number,part_number\n2025201714,BENCH-A100,extra-column\n")
	writeInput(t, folders, "ignored.pdf", "binary")

	processed, failed, err := svc.ProcessFolder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	assert.Equal(t, 1, failed)

	_, err = os.Stat(filepath.Join(folders.InputDir, "Processed", "good.csv"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(folders.InputDir, "Failed", "bad.csv"))
	assert.NoError(t, err)
	// Non-input files stay put.
	_, err = os.Stat(filepath.Join(folders.InputDir, "ignored.pdf"))
	assert.NoError(t, err)
}

func TestProcessFileSuggestsHTSForMissingParts(t *testing.T) {
	svc, folders := testService(t)
	svc.suggester = htsmatch.NewSuggester([]htsmatch.Keyword{
		{Pattern: "planter", HTSCode: "3926.90.9989", Priority: 1},
		{Pattern: "bench", HTSCode: "9401.69.8031", Priority: 1},
	})
	require.NoError(t, os.MkdirAll(folders.ExportDir, 0o755))

	missingCSV := "invoice_number,project_number,part_number,quantity,total_price,steel_pct,steel_kg,steel_value,aluminum_pct,aluminum_kg,aluminum_value,net_weight,bol_gross_weight\n" +
		"2025201714,US25A0196,PLANTER-XL9,1,100.00,,,,,,,,\n"
	path := writeInput(t, folders, "missing.csv", missingCSV)

	result, err := svc.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, []string{"PLANTER-XL9"}, result.Report.PartsNotFound)

	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, "PLANTER-XL9", result.Suggestions[0].PartNumber)
	assert.Equal(t, "3926.90.9989", result.Suggestions[0].HTSCode)
	assert.Equal(t, "planter", result.Suggestions[0].Keyword)
	assert.False(t, result.Suggestions[0].Fuzzy)
}

func TestProcessFileNoSuggesterConfigured(t *testing.T) {
	svc, folders := testService(t)
	require.NoError(t, os.MkdirAll(folders.ExportDir, 0o755))

	missingCSV := "invoice_number,project_number,part_number,quantity,total_price,steel_pct,steel_kg,steel_value,aluminum_pct,aluminum_kg,aluminum_value,net_weight,bol_gross_weight\n" +
		"2025201714,US25A0196,PLANTER-XL9,1,100.00,,,,,,,,\n"
	path := writeInput(t, folders, "missing.csv", missingCSV)

	result, err := svc.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, result.Report.PartsNotFound, 1)
	assert.Empty(t, result.Suggestions)
}

func TestProcessFileEmpty(t *testing.T) {
	svc, folders := testService(t)
	path := writeInput(t, folders, "empty.csv",
		"invoice_number,project_number,part_number,quantity,total_price,steel_pct,steel_kg,steel_value,aluminum_pct,aluminum_kg,aluminum_value,net_weight,bol_gross_weight\n")

	_, err := svc.ProcessFile(context.Background(), path)
	assert.Error(t, err)
}
