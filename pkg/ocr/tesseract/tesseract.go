// Package tesseract provides the local OCR engine. Importing it registers the
// "tesseract" engine with package ocr.
package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"github.com/gardar/hukou/pkg/hocr"
	"github.com/gardar/hukou/pkg/ocr"
	"github.com/gardar/hukou/pkg/record"
)

func init() {
	ocr.Register(ocr.EngineTesseract, func(_ context.Context, opts ocr.Options) (ocr.Engine, error) {
		return NewEngine(opts.Tesseract)
	})
}

// DefaultLanguages is used when no language is configured.
var DefaultLanguages = []string{"chi_sim"}

// Engine recognizes images with a local tesseract installation.
// A fresh gosseract client is used for every image.
type Engine struct {
	languages     []string
	level         ocr.Level
	clientFactory func() *gosseract.Client
}

// NewEngine constructs a Tesseract-backed OCR engine.
func NewEngine(opts ocr.TesseractOptions) (*Engine, error) {
	level, err := ocr.ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	langs := opts.Languages
	if len(langs) == 0 {
		langs = DefaultLanguages
	}
	return &Engine{languages: langs, level: level, clientFactory: gosseract.NewClient}, nil
}

func (e *Engine) Name() string { return ocr.EngineTesseract }

// Recognize runs tesseract on the image and reads the result back as hOCR,
// which carries per-word boxes and confidences.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (record.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetLanguage(e.languages...); err != nil {
		return nil, fmt.Errorf("set languages: %w", err)
	}
	if err := c.SetImageFromBytes(in.Image); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	out, err := c.HOCRText()
	if err != nil {
		return nil, fmt.Errorf("recognize text: %w", err)
	}

	doc, err := hocr.ParseHOCR([]byte(out))
	if err != nil {
		return nil, fmt.Errorf("parse tesseract hOCR: %w", err)
	}
	return ocr.FromHOCR(doc, e.level), nil
}

func (e *Engine) Close() error { return nil }
