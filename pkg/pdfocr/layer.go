package pdfocr

import (
	"fmt"
	"math"

	"codeberg.org/go-pdf/fpdf"

	"github.com/gardar/hukou/pkg/record"
)

// drawOCRLayer draws the fragments onto a layer of the current page.
// The pageNum parameter is used to create unique layer names for each page.
func drawOCRLayer(pdf *fpdf.Fpdf, fragments record.Result, config OCRConfig, pageNum int) {
	formattedLayerName := config.LayerName
	if pageNum > 0 {
		formattedLayerName = fmt.Sprintf("%s (Page %d)", config.LayerName, pageNum)
	}

	layer := pdf.AddLayer(formattedLayerName, true)
	pdf.BeginLayer(layer)
	pdf.SetFont(config.Font.Family, "", config.Font.Size)

	if config.Debug {
		pdf.SetTextColor(255, 0, 0) // highlight text in red
		pdf.SetDrawColor(255, 0, 0)
	} else {
		pdf.SetAlpha(0.0, "Normal") // hide text from normal view
	}

	for _, f := range fragments {
		drawFragment(pdf, f, config)
	}

	if !config.Debug {
		pdf.SetAlpha(1.0, "Normal")
	}
	pdf.EndLayer()
}

// drawFragment renders a single fragment stretched over its bounding box.
func drawFragment(pdf *fpdf.Fpdf, f record.Fragment, config OCRConfig) {
	if f.Text == "" {
		return
	}
	x1, y1, x2, y2 := bounds(f.Quad)
	boxWidth := x2 - x1

	strWidth := pdf.GetStringWidth(f.Text)
	if strWidth > 0 && boxWidth > 0 {
		pdf.SetFontSize(config.Font.Size * boxWidth / strWidth)
	}

	fontSize, _ := pdf.GetFontSize()
	pdf.Text(x1, y1+fontSize*config.Font.AscentRatio, f.Text)
	pdf.SetFontSize(config.Font.Size)

	if config.Debug {
		pdf.Rect(x1, y1, boxWidth, y2-y1, "D")
	}
}

// bounds returns the axis-aligned box around q.
func bounds(q record.Quad) (x1, y1, x2, y2 float64) {
	x1, y1 = math.Inf(1), math.Inf(1)
	x2, y2 = math.Inf(-1), math.Inf(-1)
	for _, p := range q {
		x1, x2 = math.Min(x1, p.X), math.Max(x2, p.X)
		y1, y2 = math.Min(y1, p.Y), math.Max(y2, p.Y)
	}
	return x1, y1, x2, y2
}
