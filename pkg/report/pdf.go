package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"codeberg.org/go-pdf/fpdf"

	"github.com/gardar/hukou/pkg/batch"
)

// PDFOptions configures the PDF summary table.
type PDFOptions struct {
	// Font is a UTF-8 TrueType font. It needs CJK glyphs to render the
	// headers and Chinese values.
	Font     []byte
	FontSize float64
	Title    string
	// Headers replaces the column titles after "#". Defaults to Headers.
	Headers []string
}

// pdfColumns are the table column widths in mm on landscape A4, index first.
var pdfColumns = []float64{12, 45, 30, 15, 45, 32, 98}

// LoadFont reads a TrueType font file.
func LoadFont(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	return data, nil
}

// WritePDF renders rows as a landscape table: #, 源文件名 and the five fields.
func WritePDF(w io.Writer, rows []batch.Row, opts PDFOptions) error {
	if len(opts.Font) == 0 {
		return fmt.Errorf("a UTF-8 TrueType font is required")
	}
	size := opts.FontSize
	if size <= 0 {
		size = 9
	}
	title := opts.Title
	if title == "" {
		title = SheetName
	}
	headers := opts.Headers
	if len(headers) == 0 {
		headers = Headers
	}
	if len(headers) != len(pdfColumns)-1 {
		return fmt.Errorf("expected %d headers, got %d", len(pdfColumns)-1, len(headers))
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.AddUTF8FontFromBytes("summary", "", opts.Font)
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 12)

	header := func() {
		pdf.SetFont("summary", "", size)
		pdf.SetFillColor(230, 230, 230)
		cells := append([]string{"#"}, headers...)
		for i, h := range cells {
			pdf.CellFormat(pdfColumns[i], 7, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("summary", "", size+3)
		pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
		header()
	})

	pdf.AddPage()
	pdf.SetFont("summary", "", size)
	for _, row := range rows {
		cells := []string{strconv.Itoa(row.Index), row.Filename, "", "", "", "", ""}
		if row.Extracted() {
			r := row.Record
			cells = []string{strconv.Itoa(row.Index), row.Filename, r.Name, r.Sex, r.ID, r.Birth, r.Addr}
		}
		for i, c := range cells {
			align := "L"
			if i == 0 {
				align = "C"
			}
			pdf.CellFormat(pdfColumns[i], 6, fit(pdf, c, pdfColumns[i]-2), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("failed to generate PDF: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// SavePDF writes the summary table to path.
func SavePDF(path string, rows []batch.Row, opts PDFOptions) error {
	var buf bytes.Buffer
	if err := WritePDF(&buf, rows, opts); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// fit shortens s with an ellipsis until it is at most width wide.
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"…") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
