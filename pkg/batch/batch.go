// Package batch runs extraction over every image in a directory.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gardar/hukou/pkg/logging"
	"github.com/gardar/hukou/pkg/ocr"
	"github.com/gardar/hukou/pkg/record"
)

// Row is the outcome for one file. A failed file keeps its index and
// filename with an empty Record.
type Row struct {
	Index    int // 1-based, in enumeration order
	Filename string
	Record   record.Record
	Err      error
}

// Extracted reports whether the file produced a record.
func (r Row) Extracted() bool {
	return !r.Record.Empty()
}

// Reporter is told about batch progress. Assembly advisories travel through
// the record.Observer given to the Assembler instead.
type Reporter interface {
	Found(total int)
	Started(file string)
	// Skipped is called when the image could not be loaded or recognized.
	Skipped(file string, err error)
	Extracted(file string, rec record.Record)
}

type nopReporter struct{}

func (nopReporter) Found(int) {}
func (nopReporter) Started(string) {}
func (nopReporter) Skipped(string, error) {}
func (nopReporter) Extracted(string, record.Record) {}

// Runner processes images one at a time with a borrowed engine.
type Runner struct {
	Engine       ocr.Engine
	Assembler    *record.Assembler
	Preprocessor *ocr.Preprocessor
	Reporter     Reporter
	Logger       *logging.Logger
	// Recursive descends into subdirectories.
	Recursive bool
	// OnRecognized, when set, receives every successfully recognized image
	// before assembly, whether or not a record is extracted from it.
	OnRecognized func(file string, in ocr.Input, result record.Result)
}

// NewRunner returns a Runner with a default assembler and silent reporting.
func NewRunner(engine ocr.Engine) *Runner {
	return &Runner{
		Engine:    engine,
		Assembler: record.NewAssembler(),
		Reporter:  nopReporter{},
		Logger:    logging.Discard(),
	}
}

// Run processes every file under dir. Per-file failures become empty rows;
// only an unusable directory or a cancelled context stop the run. On
// cancellation the rows completed so far are returned with ctx.Err().
func (r *Runner) Run(ctx context.Context, dir string) ([]Row, error) {
	files, err := r.list(dir)
	if err != nil {
		return nil, err
	}
	r.reporter().Found(len(files))
	r.logger().Info("images found", "dir", dir, "count", len(files))

	rows := make([]Row, 0, len(files))
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return rows, err
		}
		row, err := r.process(ctx, dir, file)
		if err != nil {
			return rows, err
		}
		row.Index = i + 1
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *Runner) process(ctx context.Context, dir, file string) (Row, error) {
	row := Row{Filename: file}
	path := filepath.Join(dir, filepath.FromSlash(file))
	rep, log := r.reporter(), r.logger()

	rep.Started(file)

	in, err := ocr.LoadInput(path, r.Preprocessor)
	if err != nil {
		log.Debug("image skipped", "file", file, "error", err)
		rep.Skipped(file, err)
		row.Err = err
		return row, nil
	}

	result, err := r.Engine.Recognize(ctx, in)
	if err != nil {
		if ctx.Err() != nil {
			return row, ctx.Err()
		}
		err = record.NewInputError(path, "failed to perform OCR on image", err)
		log.Warn("recognition failed", "file", file, "engine", r.Engine.Name(), "error", err)
		rep.Skipped(file, err)
		row.Err = err
		return row, nil
	}
	log.Debug("image recognized", "file", file, "fragments", len(result))
	if r.OnRecognized != nil {
		r.OnRecognized(file, in, result)
	}

	rec, err := r.Assembler.AssembleErr(result)
	if err != nil {
		var rerr *record.Error
		if errors.As(err, &rerr) {
			rerr.Path = path
		}
		log.Debug("no record extracted", "file", file, "error", err)
		row.Err = err
		return row, nil
	}

	row.Record = rec
	if rec.Empty() {
		log.Debug("record has no text", "file", file)
		return row, nil
	}
	rep.Extracted(file, rec)
	return row, nil
}

// list returns the files under dir, slash-separated and relative to dir,
// in lexical order.
func (r *Runner) list(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("target image directory `%s` doesn't exist", dir)
		}
		return nil, fmt.Errorf("failed to open image directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("target image directory `%s` is not a directory", dir)
	}

	if !r.Recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to read image directory: %w", err)
		}
		var files []string
		for _, e := range entries {
			if !e.IsDir() {
				files = append(files, e.Name())
			}
		}
		return files, nil
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk image directory: %w", err)
	}
	return files, nil
}

func (r *Runner) reporter() Reporter {
	if r.Reporter == nil {
		return nopReporter{}
	}
	return r.Reporter
}

func (r *Runner) logger() *logging.Logger {
	if r.Logger == nil {
		return logging.Discard()
	}
	return r.Logger
}
