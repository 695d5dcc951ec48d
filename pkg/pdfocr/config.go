package pdfocr

import (
	"io"
	"os"
)

// OCRConfig holds user options for the searchable PDF
type OCRConfig struct {
	Debug     bool      // Draw the text in red with its box instead of hiding it
	LayerName string    // Base name of OCR layer (page number will be appended)
	StartPage int       // Start from this page of the input list (1-based)
	Logger    io.Writer // Debug output (nil = stdout)
	Font      FontConfig
}

// DefaultConfig returns a config with sensible defaults. Font.Data must
// still be provided.
func DefaultConfig() OCRConfig {
	return OCRConfig{
		LayerName: "OCR Text", // Will be formatted as "OCR Text (Page X)" in the final PDF
		StartPage: 1,
		Font:      DefaultFont,
	}
}

// FontConfig contains font settings for OCR text rendering
type FontConfig struct {
	Family      string  // Name the font is registered under
	Data        []byte  // UTF-8 TrueType font bytes; needs CJK glyphs for Chinese text
	Size        float64 // Default font size
	AscentRatio float64 // Vertical positioning ratio
}

// DefaultFont holds the layout settings; the glyph data is supplied by the caller.
var DefaultFont = FontConfig{
	Family:      "ocr",
	Size:        10,
	AscentRatio: 0.8,
}

// getLogger returns the appropriate io.Writer to use for logging
// based on the configuration settings, defaulting to os.Stdout if nil.
func getLogger(config OCRConfig) io.Writer {
	if config.Logger == nil {
		return os.Stdout
	}
	return config.Logger
}
