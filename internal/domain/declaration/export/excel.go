// Package export writes the fifteen-column Section 232 declaration files,
// as a styled Excel workbook or a flat CSV.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/tariffmill/tariffmill/internal/domain/declaration"
)

const sheetName = "Section 232 Export"

// columns fixes the filing template's header row.
var columns = [15]string{
	"Product No", "ValueUSD", "HTSCode", "MID", "Qty1", "Qty2",
	"DecTypeCd", "CountryofMelt", "CountryOfCast", "PrimCountryOfSmelt",
	"PrimSmeltFlag", "SteelRatio", "AluminumRatio", "NonSteelRatio",
	"232_Status",
}

// materialColors maps material types to the font colour brokers expect,
// so a reviewer can scan a mixed export by eye.
var materialColors = map[declaration.MaterialType]string{
	declaration.Steel:    "4A4A4A",
	declaration.Aluminum: "6495ED",
	declaration.Copper:   "B87333",
	declaration.Wood:     "8B4513",
	declaration.Auto:     "2F4F4F",
	declaration.Non232:   "FF0000",
}

// dualFillColor highlights rows that need the simultaneous 07 & 08
// declaration.
const dualFillColor = "E1BEE7"

func rowValues(r declaration.ExportRow) [15]string {
	return [15]string{
		r.ProductNo, r.ValueUSD, r.HTSCode, r.MID, r.Qty1, r.Qty2,
		r.DecTypeCd, r.CountryOfMelt, r.CountryOfCast, r.PrimCountryOfSmelt,
		r.PrimSmeltFlag, r.SteelRatio, r.AluminumRatio, r.NonSteelRatio,
		r.Status232,
	}
}

// WriteExcel renders export rows as a styled workbook: bold centered
// header, per-material font colours, dual-declaration fill, fixed column
// width, landscape page fit.
func WriteExcel(rows []declaration.ExportRow, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	for col, header := range columns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("writing header %s: %w", header, err)
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	styles := make(map[string]int)
	rowStyle := func(row declaration.ExportRow) (int, error) {
		color, ok := materialColors[row.Material]
		if !ok {
			color = "000000"
		}
		key := color
		style := &excelize.Style{Font: &excelize.Font{Color: color}}
		if row.DualDeclaration != "" {
			key += "+dual"
			style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{dualFillColor}}
		}
		if id, ok := styles[key]; ok {
			return id, nil
		}
		id, err := f.NewStyle(style)
		if err != nil {
			return 0, err
		}
		styles[key] = id
		return id, nil
	}

	for i, row := range rows {
		values := rowValues(row)
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("writing row %d: %w", i+1, err)
			}
		}

		style, err := rowStyle(row)
		if err != nil {
			return fmt.Errorf("creating row style: %w", err)
		}
		first, _ := excelize.CoordinatesToCellName(1, i+2)
		last, _ := excelize.CoordinatesToCellName(len(columns), i+2)
		if err := f.SetCellStyle(sheetName, first, last, style); err != nil {
			return fmt.Errorf("styling row %d: %w", i+1, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	if err := f.SetColWidth(sheetName, "A", lastCol, 15); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}

	orientation := "landscape"
	fitToWidth := 1
	if err := f.SetPageLayout(sheetName, &excelize.PageLayoutOptions{
		Orientation: &orientation,
		FitToWidth:  &fitToWidth,
	}); err != nil {
		return fmt.Errorf("setting page layout: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// WriteExcelFile writes the workbook to disk.
func WriteExcelFile(rows []declaration.ExportRow, path string) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteExcel(rows, f)
}
