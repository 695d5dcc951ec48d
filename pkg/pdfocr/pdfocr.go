// Package pdfocr assembles scanned registration pages into a searchable PDF.
//
// Every scan becomes one page sized to the image, with the recognized
// fragments drawn on an optional content group (layer) on top of it. The text
// is invisible in normal viewing but can be searched and selected, and the
// layer can be toggled in compatible PDF readers.
//
// Main Functions:
//
// - Assemble: Creates a PDF from images and their fragments
package pdfocr

import (
	"fmt"

	"github.com/gardar/hukou/pkg/record"
)

// Page is one scanned image with the text recognized on it.
type Page struct {
	Name      string
	Image     []byte
	Fragments record.Result
}

// Assemble builds a PDF with one page per entry of pages.
func Assemble(pages []Page, config OCRConfig) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages provided")
	}
	if len(config.Font.Data) == 0 {
		return nil, fmt.Errorf("a UTF-8 TrueType font is required for the text layer")
	}
	if config.StartPage < 1 {
		return nil, fmt.Errorf("start page must be at least 1, got %d", config.StartPage)
	}

	// Validate image formats
	for i, p := range pages {
		if len(p.Image) == 0 {
			return nil, fmt.Errorf("image %d (%s) is empty", i+1, p.Name)
		}
		imageType, err := detectImageType(p.Image)
		if err != nil {
			return nil, fmt.Errorf("image %d (%s) has invalid format: %w", i+1, p.Name, err)
		}
		if config.Debug {
			fmt.Fprintf(getLogger(config), "Image %d is of type: %s\n", i+1, imageType)
		}
	}

	finalPDF, err := createPDFFromImages(pages, config)
	if err != nil {
		return nil, fmt.Errorf("error creating PDF from images: %w", err)
	}
	return finalPDF, nil
}
