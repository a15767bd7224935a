package export

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/tariffmill/tariffmill/internal/domain/declaration"
)

// WriteCSV renders export rows as a flat CSV with the same fifteen
// columns as the workbook. The csv tags on ExportRow drive the header.
func WriteCSV(rows []declaration.ExportRow, w io.Writer) error {
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("writing export csv: %w", err)
	}
	return nil
}

// WriteCSVFile writes the CSV to disk.
func WriteCSVFile(rows []declaration.ExportRow, path string) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteCSV(rows, f)
}

func createFile(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, nil
}
