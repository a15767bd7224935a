package declaration

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
)

// autoCodeRow maps one row of the automotive declaration code table.
type autoCodeRow struct {
	HTSCode         string `csv:"hts_code"`
	DeclarationCode string `csv:"declaration_code"`
}

// LoadAutoCodes parses the HTS → declaration code table that covers
// automotive parts (hts_code, declaration_code). Key normalisation happens
// in NewClassifier, so entries may carry dotted HTS codes or bare prefixes.
func LoadAutoCodes(r io.Reader) (map[string]string, error) {
	var rows []autoCodeRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse auto code CSV: %w", err)
	}

	codes := make(map[string]string, len(rows))
	for _, row := range rows {
		hts := strings.TrimSpace(row.HTSCode)
		code := strings.TrimSpace(row.DeclarationCode)
		if hts == "" || code == "" {
			continue
		}
		codes[hts] = code
	}
	return codes, nil
}

// LoadAutoCodesFile loads the automotive code table from a file path.
func LoadAutoCodesFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open auto code CSV: %w", err)
	}
	defer f.Close()
	return LoadAutoCodes(f)
}
