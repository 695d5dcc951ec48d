package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/hukou/pkg/gdocai"
	"github.com/gardar/hukou/pkg/record"
)

// documentProcessor is the part of *gdocai.Client the engine needs.
type documentProcessor interface {
	ProcessImage(ctx context.Context, content []byte, mimeType string) (*documentaipb.Document, error)
	Close() error
}

// DocAIEngine recognizes images with a Google Document AI OCR processor.
type DocAIEngine struct {
	client documentProcessor
	level  gdocai.Level

	// DumpDir, when set, receives <image>.docai.json with the raw response.
	DumpDir string
}

// NewDocAIEngine wraps client. The engine takes ownership of it.
func NewDocAIEngine(client *gdocai.Client, level gdocai.Level) *DocAIEngine {
	return &DocAIEngine{client: client, level: level}
}

func (e *DocAIEngine) Name() string { return EngineDocAI }

func (e *DocAIEngine) Recognize(ctx context.Context, in Input) (record.Result, error) {
	doc, err := e.client.ProcessImage(ctx, in.Image, in.MimeType())
	if err != nil {
		return nil, err
	}
	if e.DumpDir != "" {
		if err := e.dump(in.Path, doc); err != nil {
			return nil, err
		}
	}
	return gdocai.Fragments(doc, e.level), nil
}

func (e *DocAIEngine) dump(image string, doc *documentaipb.Document) error {
	apiJSON, err := gdocai.ToJSON(doc)
	if err != nil {
		return fmt.Errorf("failed to convert API response to JSON: %w", err)
	}
	if err := os.MkdirAll(e.DumpDir, 0755); err != nil {
		return fmt.Errorf("failed to create dump directory: %w", err)
	}
	path := filepath.Join(e.DumpDir, filepath.Base(image)+".docai.json")
	if err := os.WriteFile(path, []byte(apiJSON), 0644); err != nil {
		return fmt.Errorf("failed to write API response JSON: %w", err)
	}
	return nil
}

func (e *DocAIEngine) Close() error {
	return e.client.Close()
}
