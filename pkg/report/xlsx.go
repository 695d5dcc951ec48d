package report

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/gardar/hukou/pkg/batch"
	"github.com/gardar/hukou/pkg/record"
)

// SheetName is the title of the summary worksheet.
const SheetName = "户籍数据汇总"

// Headers are the column titles of B1..G1.
var Headers = []string{"源文件名", string(record.TagName), string(record.TagSex), string(record.TagID), string(record.TagBirth), string(record.TagAddr)}

var columnWidths = map[string]float64{"B": 30, "E": 20, "F": 15, "G": 100}

// DefaultXLSXName returns the timestamped workbook name for a run started at t.
func DefaultXLSXName(t time.Time) string {
	return fmt.Sprintf("%s.%s.xlsx", SheetName, t.Format("2006-01-02 15-04-05"))
}

// XLSXPath resolves where the workbook goes: explicit when set, otherwise the
// default name inside dir.
func XLSXPath(explicit, dir string, t time.Time) string {
	if explicit != "" {
		return explicit
	}
	return filepath.Join(dir, DefaultXLSXName(t))
}

// SaveXLSX writes the summary workbook to path.
func SaveXLSX(path string, rows []batch.Row) error {
	f, err := buildWorkbook(rows)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// WriteXLSX writes the summary workbook to w.
func WriteXLSX(w io.Writer, rows []batch.Row) error {
	f, err := buildWorkbook(rows)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// buildWorkbook lays out one row per file starting at row 2. Column A holds
// the 1-based index and B the filename; failed files leave C..G blank.
func buildWorkbook(rows []batch.Row) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := writeHeader(f); err != nil {
		f.Close()
		return nil, err
	}

	for i, row := range rows {
		values := []interface{}{row.Index, row.Filename}
		if row.Extracted() {
			for _, spec := range record.Tags {
				values = append(values, row.Record.Get(spec.Field))
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	return f, nil
}

func writeHeader(f *excelize.File) error {
	headers := make([]interface{}, len(Headers))
	for i, h := range Headers {
		headers[i] = h
	}
	if err := f.SetSheetRow(SheetName, "B1", &headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "B1", "G1", style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for col, width := range columnWidths {
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("failed to set width of column %s: %w", col, err)
		}
	}
	return nil
}
