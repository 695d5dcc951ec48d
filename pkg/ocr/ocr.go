// Package ocr defines the engine contract used to turn one image into
// positioned text fragments, along with the engines the tool ships with.
//
// Engines:
//
// - tesseract: local recognition through gosseract (package ocr/tesseract)
// - docai: Google Document AI OCR processor
// - hocr: an existing <image>.hocr file next to the image
// - paddle: an existing PaddleOCR JSON dump (<image-without-ext>.json)
//
// Every engine reports fragment confidence in the 0-1 range and quads in
// top-left, top-right, bottom-right, bottom-left order.
package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/gardar/hukou/pkg/gdocai"
	"github.com/gardar/hukou/pkg/record"
)

// Engine recognizes the text of a single image.
// An engine failure is an error; an image without text is an empty Result.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, in Input) (record.Result, error)
	Close() error
}

// Engine names accepted by New.
const (
	EngineTesseract = "tesseract"
	EngineDocAI     = "docai"
	EngineHOCR      = "hocr"
	EnginePaddle    = "paddle"
)

// Engines lists every supported engine name.
var Engines = []string{EngineTesseract, EngineDocAI, EngineHOCR, EnginePaddle}

// Level is the granularity at which hOCR output becomes fragments.
type Level string

const (
	LevelWord Level = "word"
	LevelLine Level = "line"
)

// ParseLevel converts a configuration value into a Level.
// The empty string selects LevelWord.
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case "", LevelWord:
		return LevelWord, nil
	case LevelLine:
		return LevelLine, nil
	}
	return "", fmt.Errorf("unknown ocr level %q (want %q or %q)", s, LevelWord, LevelLine)
}

// TesseractOptions configures the tesseract engine.
type TesseractOptions struct {
	Languages []string `yaml:"languages"`
	Level     string   `yaml:"level"`
}

// Factory constructs an engine from opts.
type Factory func(ctx context.Context, opts Options) (Engine, error)

var factories = map[string]Factory{}

// Register makes an engine available to New under name. Engines that need
// cgo live in their own package and register from init.
func Register(name string, f Factory) {
	factories[name] = f
}

// Options selects and configures an engine.
type Options struct {
	Engine    string
	Tesseract TesseractOptions
	DocAI     gdocai.Config
	// HOCRLevel applies to the hocr sidecar engine.
	HOCRLevel string
	// DumpDir, when set, receives the raw Document AI response of every image.
	DumpDir string
}

// New constructs the engine named by opts.Engine. The caller owns the
// returned engine and must Close it.
func New(ctx context.Context, opts Options) (Engine, error) {
	switch opts.Engine {
	case EngineDocAI:
		client, err := gdocai.NewClient(ctx, opts.DocAI)
		if err != nil {
			return nil, err
		}
		// already validated by NewClient
		level, _ := gdocai.ParseLevel(string(opts.DocAI.Level))
		engine := NewDocAIEngine(client, level)
		engine.DumpDir = opts.DumpDir
		return engine, nil
	case EngineHOCR:
		level, err := ParseLevel(opts.HOCRLevel)
		if err != nil {
			return nil, err
		}
		return NewHOCREngine(level), nil
	case EnginePaddle:
		return NewPaddleEngine(), nil
	}
	if f, ok := factories[opts.Engine]; ok {
		return f(ctx, opts)
	}
	if opts.Engine == EngineTesseract {
		return nil, fmt.Errorf("OCR engine %q is not compiled into this binary", opts.Engine)
	}
	return nil, fmt.Errorf("unknown OCR engine %q (want one of %s)", opts.Engine, strings.Join(Engines, ", "))
}
