package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/roach88/auditlog/internal/audit"
	"github.com/roach88/auditlog/internal/imaging"
)

// SheetName is the single worksheet in every export.
const SheetName = "Audit Entries"

// DateLayout formats the Entry Date column and the filename date.
const DateLayout = "2006-01-02"

// Column is one spreadsheet column.
type Column struct {
	Header string
	Width  float64
}

// Columns lists the exported columns in order.
var Columns = []Column{
	{Header: "Serial Number", Width: 10},
	{Header: "Location", Width: 20},
	{Header: "Observation", Width: 40},
	{Header: "Priority", Width: 15},
	{Header: "Recommendation", Width: 40},
	{Header: "Status", Width: 20},
	{Header: "Image", Width: 50},
	{Header: "Entry Date", Width: 15},
}

// imageColumn is the 1-based index of the Image column.
const imageColumn = 7

// Headers returns the header row.
func Headers() []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = c.Header
	}
	return out
}

// Row returns the cell values for rec. Every row carries the same export
// date, not a per-record capture time.
func Row(rec audit.Record, exportedAt time.Time) []string {
	return []string{
		rec.SerialNumber,
		rec.Location,
		rec.Observation,
		string(rec.Priority),
		rec.Recommendation,
		rec.Status,
		imaging.LocalPath(rec.ImageReference),
		exportedAt.Format(DateLayout),
	}
}

// buildWorkbook lays out the header and one row per record. Callers own
// the returned file and must Close it.
func buildWorkbook(records []audit.Record, exportedAt time.Time) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	if err := writeRow(f, 1, Headers()); err != nil {
		f.Close()
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, rec := range records {
		row := i + 2
		if err := writeRow(f, row, Row(rec, exportedAt)); err != nil {
			f.Close()
			return nil, err
		}
		if rec.HasImage() {
			if err := linkImage(f, row, rec.ImageReference); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	for i, c := range Columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		if err := f.SetColWidth(SheetName, name, name, c.Width); err != nil {
			f.Close()
			return nil, fmt.Errorf("column width %s: %w", name, err)
		}
	}

	return f, nil
}

func writeRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	return nil
}

func linkImage(f *excelize.File, row int, ref string) error {
	cell, err := excelize.CoordinatesToCellName(imageColumn, row)
	if err != nil {
		return fmt.Errorf("image cell row %d: %w", row, err)
	}
	if err := f.SetCellHyperLink(SheetName, cell, imageURL(ref), "External"); err != nil {
		return fmt.Errorf("image link row %d: %w", row, err)
	}
	return nil
}
