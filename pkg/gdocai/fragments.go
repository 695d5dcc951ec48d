package gdocai

import (
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/hukou/pkg/record"
)

// Fragments converts the pages of a Document AI response into positioned
// fragments at the requested level. Elements without text or without a
// usable bounding polygon are skipped.
func Fragments(doc *documentaipb.Document, level Level) record.Result {
	if doc == nil {
		return nil
	}
	fullText := []rune(doc.GetText())

	var result record.Result
	for _, page := range doc.GetPages() {
		for _, layout := range layouts(page, level) {
			text := strings.TrimSpace(textFromLayout(layout, fullText))
			if text == "" {
				continue
			}
			quad, ok := quadFromPoly(layout.GetBoundingPoly(), page.GetDimension())
			if !ok {
				continue
			}
			result = append(result, record.Fragment{
				Quad:       quad,
				Text:       text,
				Confidence: float64(layout.GetConfidence()),
			})
		}
	}
	return result
}

func layouts(page *documentaipb.Document_Page, level Level) []*documentaipb.Document_Page_Layout {
	var out []*documentaipb.Document_Page_Layout
	if level == LevelToken {
		for _, t := range page.GetTokens() {
			out = append(out, t.GetLayout())
		}
		return out
	}
	for _, l := range page.GetLines() {
		out = append(out, l.GetLayout())
	}
	return out
}

// quadFromPoly returns the four corners of poly in pixels. Pixel vertices are
// preferred; normalized vertices are scaled by the page dimension.
func quadFromPoly(poly *documentaipb.BoundingPoly, dim *documentaipb.Document_Page_Dimension) (record.Quad, bool) {
	var quad record.Quad
	if poly == nil {
		return quad, false
	}

	if v := poly.GetVertices(); len(v) >= 4 {
		for i := range quad {
			quad[i] = record.Point{X: float64(v[i].GetX()), Y: float64(v[i].GetY())}
		}
		return quad, true
	}

	nv := poly.GetNormalizedVertices()
	if len(nv) < 4 || dim == nil || dim.GetWidth() == 0 || dim.GetHeight() == 0 {
		return quad, false
	}
	w, h := float64(dim.GetWidth()), float64(dim.GetHeight())
	for i := range quad {
		quad[i] = record.Point{X: float64(nv[i].GetX()) * w, Y: float64(nv[i].GetY()) * h}
	}
	return quad, true
}
