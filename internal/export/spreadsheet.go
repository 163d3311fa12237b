// Package export serializes plant tables to spreadsheet and PDF report form.
package export

import (
	"fmt"

	"github.com/atinyakov/GreenFacade/internal/models"
	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the single worksheet of a spreadsheet export.
const SheetName = "Pflanzenauswahl"

// Spreadsheet file name and media type offered for download.
const (
	SpreadsheetFilename    = "pflanzen.xlsx"
	SpreadsheetContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Spreadsheet writes table to an xlsx workbook with one sheet: a header row
// of column names followed by one row per record, all cells as text.
func Spreadsheet(table *models.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, rec := range table.Records {
		for j, col := range table.Columns {
			c := rec.Get(col)
			if !c.Valid {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellStr(SheetName, cell, c.Value); err != nil {
				return nil, fmt.Errorf("write %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
