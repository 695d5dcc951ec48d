package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/gardar/hukou/pkg/record"
)

// Image formats carried by Input.Format.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
)

// extensions maps supported file extensions to their format.
var extensions = map[string]string{
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".png":  FormatPNG,
}

// Supported reports whether path has an image extension the tool accepts.
func Supported(path string) bool {
	_, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Input is one image ready for recognition.
type Input struct {
	Path   string
	Image  []byte
	Format string
}

// MimeType returns the MIME type of the image bytes.
func (in Input) MimeType() string {
	if in.Format == FormatPNG {
		return "image/png"
	}
	return "image/jpeg"
}

// LoadInput checks and reads the image at path, optionally running it
// through prep. All failures are *record.Error of kind KindInput.
func LoadInput(path string, prep *Preprocessor) (Input, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Input{}, record.NewInputError(path, "image doesn't exist", nil)
		}
		return Input{}, record.NewInputError(path, "failed to stat image", err)
	}
	if info.IsDir() {
		return Input{}, record.NewInputError(path, "image is a directory", nil)
	}

	format, ok := extensions[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return Input{}, record.NewInputError(path, "image has a not supported extension", nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Input{}, record.NewInputError(path, "failed to read image", err)
	}

	in := Input{Path: path, Image: data, Format: format}
	if prep != nil {
		out, err := prep.Apply(data)
		if err != nil {
			return Input{}, record.NewInputError(path, "failed to preprocess image", err)
		}
		in.Image, in.Format = out, FormatPNG
	}
	return in, nil
}

// PreprocessOptions configures image enhancement before recognition.
type PreprocessOptions struct {
	Enabled  bool    `yaml:"enabled"`
	Contrast float64 `yaml:"contrast"` // percentage, -100..100
	Sharpen  float64 `yaml:"sharpen"`  // gaussian sigma, 0 disables
}

// DefaultPreprocessOptions returns settings that work well on phone photos
// of registration pages.
func DefaultPreprocessOptions() PreprocessOptions {
	return PreprocessOptions{Contrast: 30, Sharpen: 1.5}
}

// Preprocessor converts an image to an enhanced grayscale PNG.
type Preprocessor struct {
	opts PreprocessOptions
}

// NewPreprocessor returns nil when preprocessing is disabled, which
// LoadInput treats as a no-op.
func NewPreprocessor(opts PreprocessOptions) *Preprocessor {
	if !opts.Enabled {
		return nil
	}
	return &Preprocessor{opts: opts}
}

// Apply decodes data, enhances it and re-encodes it as PNG.
func (p *Preprocessor) Apply(data []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	img := imaging.Grayscale(src)
	if p.opts.Contrast != 0 {
		img = imaging.AdjustContrast(img, p.opts.Contrast)
	}
	if p.opts.Sharpen > 0 {
		img = imaging.Sharpen(img, p.opts.Sharpen)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
