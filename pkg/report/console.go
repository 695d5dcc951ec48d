// Package report renders extraction progress on the console and writes the
// per-batch summaries (XLSX workbook and PDF table).
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/width"

	"github.com/gardar/hukou/pkg/record"
)

// Console prints progress, advisories and record panels. It implements both
// batch.Reporter and record.Observer.
type Console struct {
	out io.Writer

	errorLabel   *color.Color
	warningLabel *color.Color
	highlight    *color.Color
	bullet       *color.Color
	label        *color.Color
}

// NewConsole writes to w. Colors follow fatih/color's global detection
// (disabled when stdout is not a terminal or NO_COLOR is set).
func NewConsole(w io.Writer) *Console {
	return &Console{
		out:          w,
		errorLabel:   color.New(color.FgRed),
		warningLabel: color.New(color.FgYellow),
		highlight:    color.New(color.FgCyan),
		bullet:       color.New(color.FgYellow),
		label:        color.New(color.FgGreen),
	}
}

// DisableColor turns off colors for this console only.
func (c *Console) DisableColor() {
	for _, col := range []*color.Color{c.errorLabel, c.warningLabel, c.highlight, c.bullet, c.label} {
		col.DisableColor()
	}
}

func (c *Console) Found(total int) {
	fmt.Fprintf(c.out, "Total %s files found.\n", c.highlight.Sprint(total))
}

func (c *Console) Started(file string) {
	fmt.Fprintf(c.out, "Extracting personal datas from file `%s`...\n", c.highlight.Sprint(file))
}

func (c *Console) Skipped(file string, err error) {
	var rerr *record.Error
	if errors.As(err, &rerr) {
		c.errorf("%s: `%s`.", rerr.Message, file)
		if rerr.Cause != nil {
			fmt.Fprintf(c.out, "  %v\n", rerr.Cause)
		}
		return
	}
	c.errorf("%v (`%s`).", err, file)
}

// Extracted prints the record panel.
func (c *Console) Extracted(file string, rec record.Record) {
	title := fmt.Sprintf("Datas from `%s`", c.highlight.Sprint(file))
	plainTitle := fmt.Sprintf("Datas from `%s`", file)

	var lines, plain []string
	for _, spec := range record.Tags {
		value := rec.Get(spec.Field)
		lines = append(lines, fmt.Sprintf(" %s %s: %s", c.bullet.Sprint("•"), c.label.Sprint(string(spec.Tag)), value))
		plain = append(plain, fmt.Sprintf(" • %s: %s", spec.Tag, value))
	}

	inner := displayWidth(plainTitle) + 2
	for _, p := range plain {
		if w := displayWidth(p) + 1; w > inner {
			inner = w
		}
	}

	pad := inner - displayWidth(plainTitle) - 2
	left := pad / 2
	fmt.Fprintf(c.out, "╭%s %s %s╮\n", strings.Repeat("─", left), title, strings.Repeat("─", pad-left))
	for i, line := range lines {
		fmt.Fprintf(c.out, "│%s%s│\n", line, strings.Repeat(" ", inner-displayWidth(plain[i])))
	}
	fmt.Fprintf(c.out, "╰%s╯\n", strings.Repeat("─", inner))
}

// Notify prints assembly advisories.
func (c *Console) Notify(e record.Event) {
	switch e.Kind {
	case record.EventLowConfidence:
		fmt.Fprintf(c.out, "%s: low accuracy expected on `%s`.\n", c.warningLabel.Sprint("Warning"), e.Field)
	default:
		c.errorf("%s.", e.Message)
	}
}

// Summary prints the outcome of the whole batch.
func (c *Console) Summary(extracted, total int) {
	fmt.Fprintf(c.out, "Extracted %s of %s records.\n", c.highlight.Sprint(extracted), c.highlight.Sprint(total))
}

// Saved reports a written output.
func (c *Console) Saved(kind, location string) {
	fmt.Fprintf(c.out, "%s saved to: %s\n", kind, location)
}

// Failed reports an output that could not be written.
func (c *Console) Failed(kind string, err error) {
	c.errorf("failed to write %s: %v", kind, err)
}

func (c *Console) errorf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, "%s: %s\n", c.errorLabel.Sprint("Error"), fmt.Sprintf(format, args...))
}

// displayWidth counts terminal columns, two for wide CJK runes.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}
