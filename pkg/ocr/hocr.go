package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gardar/hukou/pkg/hocr"
	"github.com/gardar/hukou/pkg/record"
)

// FromHOCR converts a parsed hOCR document into fragments. At LevelLine every
// ocr_line becomes one fragment; at LevelWord every word does. Words outside
// any line are always emitted individually.
func FromHOCR(doc hocr.HOCR, level Level) record.Result {
	var result record.Result
	for _, page := range doc.Pages {
		for _, line := range page.Lines {
			if level == LevelLine {
				if f, ok := lineFragment(line); ok {
					result = append(result, f)
				}
				continue
			}
			for _, w := range line.Words {
				if f, ok := wordFragment(w); ok {
					result = append(result, f)
				}
			}
		}
		for _, w := range page.Words {
			if f, ok := wordFragment(w); ok {
				result = append(result, f)
			}
		}
	}
	return result
}

func wordFragment(w hocr.Word) (record.Fragment, bool) {
	if strings.TrimSpace(w.Text) == "" {
		return record.Fragment{}, false
	}
	return record.Fragment{
		Quad:       quadFromBBox(w.BBox),
		Text:       strings.TrimSpace(w.Text),
		Confidence: w.Confidence / 100,
	}, true
}

func lineFragment(l hocr.Line) (record.Fragment, bool) {
	text := strings.TrimSpace(l.Text())
	if text == "" {
		return record.Fragment{}, false
	}
	return record.Fragment{
		Quad:       quadFromBBox(l.BBox),
		Text:       text,
		Confidence: l.Confidence() / 100,
	}, true
}

func quadFromBBox(b hocr.BoundingBox) record.Quad {
	return record.QuadFromBox(b.X1, b.Y1, b.X2, b.Y2)
}

// HOCREngine reads hOCR produced earlier by another tool from a file next to
// the image.
type HOCREngine struct {
	level Level
}

// NewHOCREngine returns an engine reading hOCR sidecar files.
func NewHOCREngine(level Level) *HOCREngine {
	return &HOCREngine{level: level}
}

func (e *HOCREngine) Name() string { return EngineHOCR }

// Recognize loads <image>.hocr, falling back to <image-without-ext>.hocr.
func (e *HOCREngine) Recognize(ctx context.Context, in Input) (record.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := sidecar(in.Path, in.Path+".hocr", trimExt(in.Path)+".hocr")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read hOCR file: %w", err)
	}
	doc, err := hocr.ParseHOCR(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return FromHOCR(doc, e.level), nil
}

func (e *HOCREngine) Close() error { return nil }

func trimExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// sidecar returns the first candidate that exists.
func sidecar(image string, candidates ...string) (string, error) {
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("no OCR sidecar found for %s (tried %s)", image, strings.Join(candidates, ", "))
}
