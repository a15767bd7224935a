package htsmatch

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
)

// keywordRow maps one row of the keyword table CSV.
type keywordRow struct {
	Keyword  string `csv:"keyword"`
	HTSCode  string `csv:"hts_code"`
	Priority int    `csv:"priority"`
}

// LoadKeywords parses a keyword table CSV (keyword, hts_code, priority).
// Rows without a keyword or HTS code are skipped.
func LoadKeywords(r io.Reader) ([]Keyword, error) {
	var rows []keywordRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse keyword CSV: %w", err)
	}

	keywords := make([]Keyword, 0, len(rows))
	for _, row := range rows {
		pattern := strings.TrimSpace(row.Keyword)
		code := strings.TrimSpace(row.HTSCode)
		if pattern == "" || code == "" {
			continue
		}
		keywords = append(keywords, Keyword{
			Pattern:  pattern,
			HTSCode:  code,
			Priority: row.Priority,
		})
	}
	return keywords, nil
}

// LoadKeywordsFile loads the keyword table from a file path.
func LoadKeywordsFile(path string) ([]Keyword, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyword CSV: %w", err)
	}
	defer f.Close()
	return LoadKeywords(f)
}
