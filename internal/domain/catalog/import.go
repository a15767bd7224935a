package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// ImportCSV loads a parts_master CSV export into Postgres, upserting row by
// row so re-importing an updated export refreshes existing parts. The raw
// unit code from the CSV is stored as-is; classification into quantity
// classes happens at lookup time.
func ImportCSV(ctx context.Context, dst *PostgresCatalog, r io.Reader) (int, error) {
	rows, err := readCatalogRows(r)
	if err != nil {
		return 0, err
	}

	imported := 0
	for _, row := range rows {
		rec, ok := row.toRecord()
		if !ok {
			continue
		}
		unitCode := strings.ToUpper(strings.TrimSpace(row.QtyUnit))
		if err := dst.Upsert(ctx, rec, unitCode); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

// ImportCSVFile imports the catalog CSV at path into Postgres.
func ImportCSVFile(ctx context.Context, dst *PostgresCatalog, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open catalog CSV: %w", err)
	}
	defer f.Close()
	return ImportCSV(ctx, dst, f)
}
