package pdfocr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"codeberg.org/go-pdf/fpdf"
)

// createPDFFromImages builds a new PDF from images with their corresponding fragments.
// This function assumes inputs have been validated by the caller.
func createPDFFromImages(pages []Page, config OCRConfig) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.AddUTF8FontFromBytes(config.Font.Family, "", config.Font.Data)

	for i := config.StartPage - 1; i < len(pages); i++ {
		page := pages[i]
		cfg, _, err := image.DecodeConfig(bytes.NewReader(page.Image))
		if err != nil {
			return nil, fmt.Errorf("failed to read size of image %d: %w", i+1, err)
		}
		w, h := float64(cfg.Width), float64(cfg.Height)

		// Add page with appropriate dimensions
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})

		imageName := fmt.Sprintf("img%d", i)
		imageType, err := detectImageType(page.Image)
		if err != nil {
			return nil, fmt.Errorf("failed to detect image type for image %d: %w", i, err)
		}

		opts := fpdf.ImageOptions{ReadDpi: false, ImageType: imageType}
		pdf.RegisterImageOptionsReader(imageName, opts, bytes.NewReader(page.Image))
		pdf.ImageOptions(imageName, 0, 0, w, h, false, opts, 0, "")

		drawOCRLayer(pdf, page.Fragments, config, i+1)
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("failed to draw page %d: %w", i+1, err)
		}
	}

	// Generate final PDF
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// detectImageType tries to figure out whether the data is PNG, JPEG, etc.
func detectImageType(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image config: %w", err)
	}
	return strings.ToUpper(format), nil
}
