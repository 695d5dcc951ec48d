package gdocai

import (
	"context"
	"fmt"
	"os"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"
)

// Client wraps a Document AI processor client bound to one processor.
type Client struct {
	cfg    Config
	client *documentai.DocumentProcessorClient
}

// NewClient instantiates a Document AI client for cfg.
// Credentials come from cfg.CredentialsFile, falling back to the
// GOOGLE_APPLICATION_CREDENTIALS environment variable.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []option.ClientOption{
		option.WithEndpoint(fmt.Sprintf("%s-documentai.googleapis.com:443", cfg.Location)),
	}
	creds := cfg.CredentialsFile
	if creds == "" {
		creds = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}
	if creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Document AI client: %w", err)
	}
	return &Client{cfg: cfg, client: client}, nil
}

// Config returns the configuration the client was created with.
func (c *Client) Config() Config {
	return c.cfg
}

// ProcessImage sends image bytes to the processor and returns the raw
// Document proto response.
func (c *Client) ProcessImage(ctx context.Context, content []byte, mimeType string) (*documentaipb.Document, error) {
	req := &documentaipb.ProcessRequest{
		Name: c.cfg.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  content,
				MimeType: mimeType,
			},
		},
		SkipHumanReview: true,
	}

	resp, err := c.client.ProcessDocument(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to process document: %w", err)
	}
	return resp.GetDocument(), nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.client.Close()
}
