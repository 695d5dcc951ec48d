package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/gardar/hukou/pkg/record"
)

// paddleLine is one PaddleOCR detection: [[[x,y] x4], [text, confidence]].
type paddleLine struct {
	Quad       [][2]float64
	Text       string
	Confidence float64
}

func (l *paddleLine) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 2 {
		return fmt.Errorf("paddle line has %d elements, want 2", len(parts))
	}
	if err := json.Unmarshal(parts[0], &l.Quad); err != nil {
		return fmt.Errorf("paddle quad: %w", err)
	}
	if len(l.Quad) != 4 {
		return fmt.Errorf("paddle quad has %d points, want 4", len(l.Quad))
	}
	var rec []json.RawMessage
	if err := json.Unmarshal(parts[1], &rec); err != nil || len(rec) != 2 {
		return fmt.Errorf("paddle recognition must be [text, confidence]")
	}
	if err := json.Unmarshal(rec[0], &l.Text); err != nil {
		return fmt.Errorf("paddle text: %w", err)
	}
	if err := json.Unmarshal(rec[1], &l.Confidence); err != nil {
		return fmt.Errorf("paddle confidence: %w", err)
	}
	return nil
}

// DecodePaddle parses PaddleOCR output. Both the bare list of lines and the
// per-page wrapped form ([[line, ...], ...]) are accepted; pages are
// concatenated. Lines without text are dropped.
func DecodePaddle(data []byte) (record.Result, error) {
	var outer []json.RawMessage
	if err := json.Unmarshal(data, &outer); err != nil {
		return nil, fmt.Errorf("failed to decode PaddleOCR JSON: %w", err)
	}
	if len(outer) == 0 {
		return record.Result{}, nil
	}

	var lines []paddleLine
	var first paddleLine
	if err := json.Unmarshal(outer[0], &first); err == nil {
		if err := json.Unmarshal(data, &lines); err != nil {
			return nil, fmt.Errorf("failed to decode PaddleOCR lines: %w", err)
		}
	} else {
		var pages [][]paddleLine
		if err := json.Unmarshal(data, &pages); err != nil {
			return nil, fmt.Errorf("failed to decode PaddleOCR pages: %w", err)
		}
		for _, p := range pages {
			lines = append(lines, p...)
		}
	}

	result := make(record.Result, 0, len(lines))
	for _, l := range lines {
		text := strings.TrimSpace(l.Text)
		if text == "" {
			continue
		}
		var q record.Quad
		for i := range q {
			q[i] = record.Point{X: l.Quad[i][0], Y: l.Quad[i][1]}
		}
		result = append(result, record.Fragment{Quad: q, Text: text, Confidence: l.Confidence})
	}
	return result, nil
}

// PaddleEngine reads PaddleOCR results saved as <image-without-ext>.json.
type PaddleEngine struct{}

func NewPaddleEngine() *PaddleEngine { return &PaddleEngine{} }

func (e *PaddleEngine) Name() string { return EnginePaddle }

func (e *PaddleEngine) Recognize(ctx context.Context, in Input) (record.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := sidecar(in.Path, trimExt(in.Path)+".json", in.Path+".json")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read PaddleOCR file: %w", err)
	}
	return DecodePaddle(data)
}

func (e *PaddleEngine) Close() error { return nil }
