package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/gocarina/gocsv"
)

// MemoryCatalog is a map-backed Catalog for tests and database-less runs.
type MemoryCatalog struct {
	mu    sync.RWMutex
	parts map[string]PartRecord
}

// NewMemoryCatalog creates an empty in-memory catalog.
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{parts: make(map[string]PartRecord)}
}

// Put stores a record, marking it found.
func (c *MemoryCatalog) Put(rec PartRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec.Found = true
	c.parts[rec.PartNumber] = rec
}

// Lookup returns the stored record or the not-found default.
func (c *MemoryCatalog) Lookup(_ context.Context, partNumber string) PartRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if rec, ok := c.parts[partNumber]; ok {
		return rec
	}
	return NotFound(partNumber)
}

// Len reports the number of loaded parts.
func (c *MemoryCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.parts)
}

// catalogRow maps a catalog CSV row. Column names follow the parts_master
// export format.
type catalogRow struct {
	PartNumber      string  `csv:"part_number"`
	Description     string  `csv:"description"`
	HTSCode         string  `csv:"hts_code"`
	MID             string  `csv:"mid"`
	CountryOrigin   string  `csv:"country_origin"`
	SteelRatio      float64 `csv:"steel_ratio"`
	AluminumRatio   float64 `csv:"aluminum_ratio"`
	CopperRatio     float64 `csv:"copper_ratio"`
	WoodRatio       float64 `csv:"wood_ratio"`
	AutoRatio       float64 `csv:"auto_ratio"`
	NonSteelRatio   float64 `csv:"non_steel_ratio"`
	QtyUnit         string  `csv:"qty_unit"`
	Sec301Exclusion string  `csv:"sec301_exclusion_tariff"`
}

// readCatalogRows parses a parts_master CSV export.
func readCatalogRows(r io.Reader) ([]catalogRow, error) {
	var rows []catalogRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse catalog CSV: %w", err)
	}
	return rows, nil
}

// toRecord converts a CSV row into a PartRecord. The second return is false
// for rows without a part number. Ratios given on the 0-1 scale are
// normalised to 0-100, matching the spreadsheet-import tolerance of the
// original tool.
func (row catalogRow) toRecord() (PartRecord, bool) {
	part := strings.TrimSpace(row.PartNumber)
	if part == "" {
		return PartRecord{}, false
	}
	return PartRecord{
		PartNumber:      part,
		Description:     strings.TrimSpace(row.Description),
		HTSCode:         strings.TrimSpace(row.HTSCode),
		MID:             strings.TrimSpace(row.MID),
		CountryOrigin:   strings.ToUpper(strings.TrimSpace(row.CountryOrigin)),
		SteelPct:        normalizePct(row.SteelRatio),
		AluminumPct:     normalizePct(row.AluminumRatio),
		CopperPct:       normalizePct(row.CopperRatio),
		WoodPct:         normalizePct(row.WoodRatio),
		AutoPct:         normalizePct(row.AutoRatio),
		NonSteelPct:     normalizePct(row.NonSteelRatio),
		QtyUnit:         ParseQtyUnit(row.QtyUnit),
		Sec301Exclusion: strings.TrimSpace(row.Sec301Exclusion),
	}, true
}

// LoadCSV populates the catalog from a parts_master CSV export. Rows without
// a part number are skipped.
func (c *MemoryCatalog) LoadCSV(r io.Reader) (int, error) {
	rows, err := readCatalogRows(r)
	if err != nil {
		return 0, err
	}

	loaded := 0
	for _, row := range rows {
		rec, ok := row.toRecord()
		if !ok {
			continue
		}
		c.Put(rec)
		loaded++
	}
	return loaded, nil
}

// LoadCSVFile loads the catalog from a file path.
func (c *MemoryCatalog) LoadCSVFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open catalog CSV: %w", err)
	}
	defer f.Close()
	return c.LoadCSV(f)
}

// normalizePct lifts fractional ratios (0-1) onto the 0-100 scale.
func normalizePct(v float64) float64 {
	if v > 0 && v <= 1 {
		return v * 100
	}
	return v
}
