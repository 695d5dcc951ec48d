// Package gdocai sends scanned pages to a Google Document AI OCR processor and
// converts the response into positioned text fragments.
//
// Document AI reports every token and line with a bounding polygon, either in
// pixels or normalized to the page (0-1). Both forms are turned into pixel
// quadrilaterals so that the layout heuristics in package record can compare
// them directly.
//
// Main Functions:
//
// - NewClient: Opens a processor client (the caller owns it and must Close it)
// - Client.ProcessImage: Runs OCR on one image and returns the raw Document proto
// - Fragments: Converts a Document proto into a record.Result
// - ToJSON: Renders protos or structs as JSON for debugging
//
// Usage Requirements:
//
// - Google Cloud project with Document AI API enabled
// - Document AI processor configured for OCR
// - Authentication via GOOGLE_APPLICATION_CREDENTIALS or an explicit credentials file
package gdocai

import "fmt"

// Config identifies the Document AI processor to call.
type Config struct {
	ProjectID       string `yaml:"project_id"`
	Location        string `yaml:"location"`
	ProcessorID     string `yaml:"processor_id"`
	CredentialsFile string `yaml:"credentials_file"`
	// Level selects which layout elements become fragments.
	Level Level `yaml:"level"`
}

// Validate checks that the processor is fully identified.
func (c *Config) Validate() error {
	if c.ProjectID == "" {
		return fmt.Errorf("docai project_id is required")
	}
	if c.Location == "" {
		return fmt.Errorf("docai location is required")
	}
	if c.ProcessorID == "" {
		return fmt.Errorf("docai processor_id is required")
	}
	if _, err := ParseLevel(string(c.Level)); err != nil {
		return err
	}
	return nil
}

// processorName builds the resource name of the processor
func (c *Config) processorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", c.ProjectID, c.Location, c.ProcessorID)
}

// Level is the granularity of the fragments produced from a page.
type Level string

const (
	LevelToken Level = "token"
	LevelLine  Level = "line"
)

// ParseLevel converts a configuration value into a Level.
// The empty string selects LevelLine.
func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case "", LevelLine:
		return LevelLine, nil
	case LevelToken:
		return LevelToken, nil
	}
	return "", fmt.Errorf("unknown docai level %q (want %q or %q)", s, LevelLine, LevelToken)
}
