// Package config loads the hukou configuration.
//
// Values are resolved in this order, later sources winning:
//
//  1. built-in defaults
//  2. the YAML file passed with -config (optional)
//  3. a .env file in the working directory (optional) and the process environment
//
// Command-line flags are applied on top by the caller before Validate.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/gardar/hukou/pkg/gdocai"
	"github.com/gardar/hukou/pkg/ocr"
	"github.com/gardar/hukou/pkg/record"
)

// Config holds the full tool configuration.
type Config struct {
	ImagesDir  string                `yaml:"images_dir"`
	Recursive  bool                  `yaml:"recursive"`
	Engine     string                `yaml:"engine"`
	AxisMode   string                `yaml:"axis_mode"`
	Thresholds Thresholds            `yaml:"thresholds"`
	Tesseract  ocr.TesseractOptions  `yaml:"tesseract"`
	HOCR       HOCRConfig            `yaml:"hocr"`
	DocAI      gdocai.Config         `yaml:"docai"`
	Preprocess ocr.PreprocessOptions `yaml:"preprocess"`
	Output     Output                `yaml:"output"`
}

// Thresholds tune the layout heuristics.
type Thresholds struct {
	SameLineY     float64 `yaml:"same_line_y"`
	MultilineX    float64 `yaml:"multiline_x"`
	LowConfidence float64 `yaml:"low_confidence"`
}

// HOCRConfig configures the hocr sidecar engine.
type HOCRConfig struct {
	Level string `yaml:"level"`
}

// Output selects the result sinks.
type Output struct {
	// Dir receives the default-named XLSX workbook when XLSX is empty.
	Dir         string `yaml:"dir"`
	XLSX        string `yaml:"xlsx"`
	PDF         string `yaml:"pdf"`
	Searchable  string `yaml:"searchable_pdf"`
	FontPath    string `yaml:"font_path"`
	DatabaseURL string `yaml:"database_url"`
}

// Default returns the configuration used when nothing else is given.
func Default() *Config {
	return &Config{
		ImagesDir: "images",
		Engine:    ocr.EngineTesseract,
		AxisMode:  string(record.AxisByExtent),
		Thresholds: Thresholds{
			SameLineY:     record.DefaultSameLineY,
			MultilineX:    record.DefaultMultilineX,
			LowConfidence: record.DefaultLowConfidence,
		},
		Tesseract:  ocr.TesseractOptions{Languages: []string{"chi_sim"}, Level: string(ocr.LevelWord)},
		HOCR:       HOCRConfig{Level: string(ocr.LevelWord)},
		DocAI:      gdocai.Config{Location: "us", Level: gdocai.LevelLine},
		Preprocess: ocr.DefaultPreprocessOptions(),
		Output:     Output{Dir: "."},
	}
}

// Load builds a configuration from defaults, the YAML file at path (skipped
// when path is empty) and the environment. It does not validate.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := LoadEnvFile(".env"); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// LoadEnvFile loads variables from a dotenv file into the process
// environment without overriding variables that are already set.
// A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ImagesDir = getEnvOrDefault("HUKOU_IMAGES_DIR", c.ImagesDir)
	c.Engine = getEnvOrDefault("HUKOU_ENGINE", c.Engine)
	c.AxisMode = getEnvOrDefault("HUKOU_AXIS_MODE", c.AxisMode)
	c.Recursive = getEnvAsBoolOrDefault("HUKOU_RECURSIVE", c.Recursive)
	c.Output.Dir = getEnvOrDefault("HUKOU_OUTPUT_DIR", c.Output.Dir)
	c.Output.DatabaseURL = getEnvOrDefault("DATABASE_URL", c.Output.DatabaseURL)
	c.DocAI.ProjectID = getEnvOrDefault("HUKOU_DOCAI_PROJECT_ID", c.DocAI.ProjectID)
	c.DocAI.ProcessorID = getEnvOrDefault("HUKOU_DOCAI_PROCESSOR_ID", c.DocAI.ProcessorID)
	if c.DocAI.CredentialsFile == "" {
		c.DocAI.CredentialsFile = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.ImagesDir == "" {
		return fmt.Errorf("images_dir is required")
	}

	if _, err := record.ParseAxisMode(c.AxisMode); err != nil {
		return err
	}

	if c.Thresholds.SameLineY <= 0 {
		return fmt.Errorf("thresholds.same_line_y must be positive, got %v", c.Thresholds.SameLineY)
	}
	if c.Thresholds.MultilineX < 0 {
		return fmt.Errorf("thresholds.multiline_x must not be negative, got %v", c.Thresholds.MultilineX)
	}
	if c.Thresholds.LowConfidence < 0 || c.Thresholds.LowConfidence > 1 {
		return fmt.Errorf("thresholds.low_confidence must be between 0 and 1, got %v", c.Thresholds.LowConfidence)
	}

	if c.Preprocess.Contrast < -100 || c.Preprocess.Contrast > 100 {
		return fmt.Errorf("preprocess.contrast must be between -100 and 100, got %v", c.Preprocess.Contrast)
	}

	switch c.Engine {
	case ocr.EngineTesseract:
		if len(c.Tesseract.Languages) == 0 {
			return fmt.Errorf("tesseract.languages must not be empty")
		}
		if _, err := ocr.ParseLevel(c.Tesseract.Level); err != nil {
			return fmt.Errorf("tesseract.level: %w", err)
		}
	case ocr.EngineHOCR:
		if _, err := ocr.ParseLevel(c.HOCR.Level); err != nil {
			return fmt.Errorf("hocr.level: %w", err)
		}
	case ocr.EngineDocAI:
		if err := c.DocAI.Validate(); err != nil {
			return err
		}
	case ocr.EnginePaddle:
	default:
		return fmt.Errorf("unknown engine %q", c.Engine)
	}

	if (c.Output.PDF != "" || c.Output.Searchable != "") && c.Output.FontPath == "" {
		return fmt.Errorf("output.font_path is required to write PDF output")
	}
	return nil
}

// Axis returns the parsed axis mode. Call after Validate.
func (c *Config) Axis() record.AxisMode {
	mode, _ := record.ParseAxisMode(c.AxisMode)
	return mode
}

// EngineOptions returns the options for ocr.New.
func (c *Config) EngineOptions() ocr.Options {
	return ocr.Options{
		Engine:    c.Engine,
		Tesseract: c.Tesseract,
		DocAI:     c.DocAI,
		HOCRLevel: c.HOCR.Level,
	}
}

// getEnvOrDefault gets environment variable or returns default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBoolOrDefault gets environment variable as bool or returns default
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
