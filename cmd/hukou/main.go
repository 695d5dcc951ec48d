// hukou is a command-line tool that extracts personal records from scanned
// household-registration (户口) pages.
//
// Every image in the input directory is run through an OCR engine. The label
// fragments 姓名, 性别, 公民身份证号, 出生日期 and 户籍地址 are located on the page and
// the text to their right is taken as the value. The results are written to an
// XLSX workbook, and optionally to a PDF summary, a searchable PDF of the scans
// and a PostgreSQL table.
//
// Configuration:
//
// The tool reads an optional YAML configuration file:
//
//	images_dir: "images"
//	engine: "tesseract"        # tesseract, docai, hocr or paddle
//	axis_mode: "extent"        # extent or fixed
//	thresholds:
//	  same_line_y: 50
//	  multiline_x: 20
//	  low_confidence: 0.95
//	tesseract:
//	  languages: ["chi_sim"]
//	  level: "word"
//	docai:
//	  project_id: "your-gcp-project-id"
//	  location: "us"
//	  processor_id: "your-processor-id"
//	output:
//	  dir: "."
//	  font_path: "/usr/share/fonts/noto/NotoSansCJK-Regular.ttf"
//
// Environment variables (also read from .env) override the file:
// HUKOU_IMAGES_DIR, HUKOU_ENGINE, HUKOU_AXIS_MODE, HUKOU_RECURSIVE,
// HUKOU_OUTPUT_DIR, HUKOU_DOCAI_PROJECT_ID, HUKOU_DOCAI_PROCESSOR_ID,
// DATABASE_URL and GOOGLE_APPLICATION_CREDENTIALS. Flags override both.
//
// Usage:
//
//	hukou [-config hukou.yml] [options]
//
// Options:
//
//	-images string      Directory with the scanned images
//	-recursive          Descend into subdirectories of the image directory
//	-engine string      OCR engine (tesseract, docai, hocr, paddle)
//	-axis string        Axis mode (extent, fixed)
//	-preprocess         Enhance images (grayscale, contrast, sharpen) before OCR
//	-out string         Path of the XLSX workbook (default: timestamped name in output dir)
//	-out-dir string     Directory for the default-named workbook
//	-pdf string         Path to save a PDF summary table
//	-searchable string  Path to save a searchable PDF of all recognized scans
//	-font string        UTF-8 TrueType font with CJK glyphs for PDF output
//	-db string          PostgreSQL URL to store the results in
//	-no-color           Disable colored console output
//	-debug              Enable debug logging
//	-debug-api string   Directory to save raw Document AI responses as JSON
//
// Example:
//
//	export GOOGLE_APPLICATION_CREDENTIALS=/path/to/credentials.json
//	hukou -config hukou.yml -engine docai -images scans -pdf summary.pdf -font NotoSansSC.ttf
//	hukou -engine paddle -images scans -out result.xlsx
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/gardar/hukou/pkg/batch"
	"github.com/gardar/hukou/pkg/config"
	"github.com/gardar/hukou/pkg/logging"
	"github.com/gardar/hukou/pkg/ocr"
	_ "github.com/gardar/hukou/pkg/ocr/tesseract"
	"github.com/gardar/hukou/pkg/pdfocr"
	"github.com/gardar/hukou/pkg/record"
	"github.com/gardar/hukou/pkg/report"
	"github.com/gardar/hukou/pkg/store"
)

func main() {
	configPath := flag.String("config", "", "Path to the config YAML file")
	imagesDir := flag.String("images", "", "Directory with the scanned images")
	recursive := flag.Bool("recursive", false, "Descend into subdirectories of the image directory")
	engineName := flag.String("engine", "", "OCR engine: tesseract, docai, hocr or paddle")
	axisMode := flag.String("axis", "", "Axis mode: extent or fixed")
	preprocess := flag.Bool("preprocess", false, "Enhance images before OCR")

	xlsxPath := flag.String("out", "", "Path of the XLSX workbook (default: timestamped name in the output directory)")
	outDir := flag.String("out-dir", "", "Directory for the default-named workbook")
	pdfPath := flag.String("pdf", "", "Path to save a PDF summary table")
	searchablePath := flag.String("searchable", "", "Path to save a searchable PDF of all recognized scans")
	fontPath := flag.String("font", "", "UTF-8 TrueType font with CJK glyphs for PDF output")
	databaseURL := flag.String("db", "", "PostgreSQL URL to store the results in")

	noColor := flag.Bool("no-color", false, "Disable colored console output")
	debug := flag.Bool("debug", false, "Enable debug logging")
	debugAPIDir := flag.String("debug-api", "", "Directory to save raw Document AI responses as JSON")

	flag.Parse()

	providedFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		providedFlags[f.Name] = true
	})

	// Validate that provided string flags have values
	hasError := false
	validateFlag := func(name string, value string) {
		if providedFlags[name] && value == "" {
			fmt.Fprintf(os.Stderr, "Error: -%s flag requires a value\n", name)
			hasError = true
		}
	}
	validateFlag("config", *configPath)
	validateFlag("images", *imagesDir)
	validateFlag("engine", *engineName)
	validateFlag("out", *xlsxPath)
	validateFlag("pdf", *pdfPath)
	validateFlag("searchable", *searchablePath)
	validateFlag("font", *fontPath)
	validateFlag("debug-api", *debugAPIDir)
	if hasError {
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Flags override file and environment.
	set := func(name string, dst *string, value string) {
		if providedFlags[name] {
			*dst = value
		}
	}
	set("images", &cfg.ImagesDir, *imagesDir)
	set("engine", &cfg.Engine, *engineName)
	set("axis", &cfg.AxisMode, *axisMode)
	set("out", &cfg.Output.XLSX, *xlsxPath)
	set("out-dir", &cfg.Output.Dir, *outDir)
	set("pdf", &cfg.Output.PDF, *pdfPath)
	set("searchable", &cfg.Output.Searchable, *searchablePath)
	set("font", &cfg.Output.FontPath, *fontPath)
	set("db", &cfg.Output.DatabaseURL, *databaseURL)
	if providedFlags["recursive"] {
		cfg.Recursive = *recursive
	}
	if providedFlags["preprocess"] {
		cfg.Preprocess.Enabled = *preprocess
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger("hukou")
	logger.SetDebug(*debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, cfg, logger, *debugAPIDir, *noColor)
	stop()
	os.Exit(code)
}

// run processes the batch and writes every configured output. It returns the
// process exit code.
func run(ctx context.Context, cfg *config.Config, logger *logging.Logger, debugAPIDir string, noColor bool) int {
	started := time.Now()
	console := report.NewConsole(os.Stdout)
	if noColor {
		console.DisableColor()
	}

	opts := cfg.EngineOptions()
	opts.DumpDir = debugAPIDir
	engine, err := ocr.New(ctx, opts)
	if err != nil {
		log.Printf("Failed to create OCR engine: %v", err)
		return 1
	}
	defer engine.Close()
	logger.Debug("engine ready", "engine", engine.Name(), "axis", cfg.AxisMode)

	associator := record.NewAssociator(cfg.Axis())
	associator.SameLineY = cfg.Thresholds.SameLineY
	associator.MultilineX = cfg.Thresholds.MultilineX

	runner := &batch.Runner{
		Engine: engine,
		Assembler: record.NewAssembler(
			record.WithAssociator(associator),
			record.WithLowConfidence(cfg.Thresholds.LowConfidence),
			record.WithObserver(console),
		),
		Preprocessor: ocr.NewPreprocessor(cfg.Preprocess),
		Reporter:     console,
		Logger:       logger.With("batch"),
		Recursive:    cfg.Recursive,
	}

	var pages []pdfocr.Page
	if cfg.Output.Searchable != "" {
		runner.OnRecognized = func(file string, in ocr.Input, result record.Result) {
			pages = append(pages, pdfocr.Page{Name: file, Image: in.Image, Fragments: result})
		}
	}

	rows, err := runner.Run(ctx, cfg.ImagesDir)
	if err != nil && !errors.Is(err, context.Canceled) {
		console.Failed("batch", err)
		return 1
	}
	interrupted := err != nil
	if interrupted {
		logger.Warn("interrupted, writing partial results", "processed", len(rows))
	}

	extracted := 0
	for _, row := range rows {
		if row.Extracted() {
			extracted++
		}
	}
	console.Summary(extracted, len(rows))

	failed := writeOutputs(context.Background(), cfg, rows, pages, started, console, logger)
	if failed || interrupted {
		return 1
	}
	return 0
}

// writeOutputs attempts every sink and reports whether any failed.
func writeOutputs(ctx context.Context, cfg *config.Config, rows []batch.Row, pages []pdfocr.Page,
	started time.Time, console *report.Console, logger *logging.Logger) bool {

	failed := false
	fail := func(kind string, err error) {
		console.Failed(kind, err)
		logger.Error("output failed", "kind", kind, "error", err)
		failed = true
	}

	xlsxPath := report.XLSXPath(cfg.Output.XLSX, cfg.Output.Dir, started)
	if err := report.SaveXLSX(xlsxPath, rows); err != nil {
		fail("XLSX workbook", err)
	} else {
		console.Saved("XLSX workbook", xlsxPath)
	}

	var font []byte
	if cfg.Output.PDF != "" || cfg.Output.Searchable != "" {
		var err error
		if font, err = report.LoadFont(cfg.Output.FontPath); err != nil {
			fail("PDF output", err)
		}
	}

	if cfg.Output.PDF != "" && font != nil {
		if err := report.SavePDF(cfg.Output.PDF, rows, report.PDFOptions{Font: font}); err != nil {
			fail("PDF summary", err)
		} else {
			console.Saved("PDF summary", cfg.Output.PDF)
		}
	}

	if cfg.Output.Searchable != "" && font != nil {
		if err := writeSearchable(cfg.Output.Searchable, pages, font); err != nil {
			fail("searchable PDF", err)
		} else {
			console.Saved("Searchable PDF", cfg.Output.Searchable)
		}
	}

	if cfg.Output.DatabaseURL != "" {
		if runID, err := saveToDatabase(ctx, cfg.Output.DatabaseURL, rows); err != nil {
			fail("database", err)
		} else {
			console.Saved("Records", fmt.Sprintf("database (run %s)", runID))
		}
	}
	return failed
}

func writeSearchable(path string, pages []pdfocr.Page, font []byte) error {
	ocrConfig := pdfocr.DefaultConfig()
	ocrConfig.Font.Data = font
	data, err := pdfocr.Assemble(pages, ocrConfig)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func saveToDatabase(ctx context.Context, url string, rows []batch.Row) (string, error) {
	s, err := store.Open(url)
	if err != nil {
		return "", err
	}
	defer s.Close()

	runID := store.NewRunID()
	if err := s.SaveRun(ctx, runID, rows); err != nil {
		return "", err
	}
	return runID, nil
}
