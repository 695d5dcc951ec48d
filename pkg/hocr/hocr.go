// Package hocr parses hOCR, the HTML-based format Tesseract and other engines
// use to publish recognized text together with its position on the page.
//
// Only the parts needed to locate text are modelled: pages, text lines and
// words, each with its bounding box, and the per-word confidence carried in
// the 'x_wconf' property.
//
// Key Types:
//
// - HOCR: Top-level structure representing an entire hOCR document
// - Page: A single page with class 'ocr_page'
// - Line: A line of text with class 'ocr_line' (or 'ocrx_line', 'ocr_textfloat', 'ocr_header', 'ocr_caption')
// - Word: A single word with class 'ocrx_word'
// - BoundingBox: The 'bbox x1 y1 x2 y2' rectangle of an element
//
// Main Functions:
//
// - ParseHOCR: Parses hOCR data from HTML into the object model
// - ParseTitle: Splits an hOCR title attribute into its properties
package hocr

// HOCR represents the entire hOCR document structure
type HOCR struct {
	Title    string            // Document title
	Language string            // Document language
	Metadata map[string]string // ocr-system, ocr-capabilities, ...
	Pages    []Page
}

// Page is one page of recognized text
type Page struct {
	ID         string
	PageNumber int
	ImageName  string
	BBox       BoundingBox
	Lines      []Line
	Words      []Word // Words that are not inside any line
}

// Line represents a line of text
type Line struct {
	ID    string
	BBox  BoundingBox
	Words []Word
}

// Text joins the words of the line with single spaces.
func (l Line) Text() string {
	var text string
	for i, w := range l.Words {
		if i > 0 && needsSpace(l.Words[i-1].Text, w.Text) {
			text += " "
		}
		text += w.Text
	}
	return text
}

// Confidence is the mean word confidence of the line (0-100).
func (l Line) Confidence() float64 {
	if len(l.Words) == 0 {
		return 0
	}
	var sum float64
	for _, w := range l.Words {
		sum += w.Confidence
	}
	return sum / float64(len(l.Words))
}

// Word is a recognized word with bounding box
type Word struct {
	ID         string
	Text       string
	BBox       BoundingBox
	Confidence float64 // Recognition confidence (0-100)
	Lang       string
}

// BoundingBox represents a rectangle in the document
type BoundingBox struct {
	X1 float64 // Left coordinate
	Y1 float64 // Top coordinate
	X2 float64 // Right coordinate
	Y2 float64 // Bottom coordinate
}

// NewBoundingBox creates a bounding box from the x1, y1, x2, y2 values of
// an hOCR 'bbox' property.
func NewBoundingBox(x1, y1, x2, y2 float64) BoundingBox {
	return BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// needsSpace reports whether two adjacent words should be separated.
// No space is put next to CJK text.
func needsSpace(prev, next string) bool {
	if prev == "" || next == "" {
		return false
	}
	last := []rune(prev)
	return !isCJK(last[len(last)-1]) && !isCJK([]rune(next)[0])
}

func isCJK(r rune) bool {
	return (r >= 0x3000 && r <= 0x30ff) || // punctuation, kana
		(r >= 0x3400 && r <= 0x9fff) || // ideographs
		(r >= 0xf900 && r <= 0xfaff) ||
		(r >= 0xff00 && r <= 0xffef) // full-width forms
}
