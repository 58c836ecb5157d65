// Package output handles formatting and displaying CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Format represents the output format type.
type Format int

const (
	FormatHuman Format = iota
	FormatJSON
	FormatRaw
)

// envelope wraps JSON-mode output so machine consumers get one stable shape.
type envelope struct {
	OK     bool   `json:"ok"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Printer handles output formatting.
type Printer struct {
	writer io.Writer
	errW   io.Writer
	format Format
	quiet  bool
}

// New creates a new output printer.
func New(format Format, quiet bool) *Printer {
	return &Printer{
		writer: os.Stdout,
		errW:   os.Stderr,
		format: format,
		quiet:  quiet,
	}
}

// WithWriter redirects output, mainly for tests.
func (p *Printer) WithWriter(w io.Writer) *Printer {
	p.writer = w
	p.errW = w
	return p
}

// Success prints a success response.
func (p *Printer) Success(result any) error {
	switch p.format {
	case FormatJSON:
		return p.printJSON(envelope{OK: true, Result: result})
	case FormatRaw:
		fmt.Fprintf(p.writer, "%v\n", result)
		return nil
	default:
		if !p.quiet {
			fmt.Fprintf(p.writer, "%v\n", result)
		}
		return nil
	}
}

// Error prints an error response.
func (p *Printer) Error(err error) error {
	switch p.format {
	case FormatJSON:
		return p.printJSON(envelope{OK: false, Error: err.Error()})
	default:
		fmt.Fprintf(p.errW, "error: %v\n", err)
		return err
	}
}

// Printf prints formatted data.
func (p *Printer) Printf(format string, args ...any) {
	if p.quiet && p.format != FormatJSON {
		return
	}
	fmt.Fprintf(p.writer, format, args...)
}

// Println prints a line of arbitrary data.
func (p *Printer) Println(args ...any) {
	if p.quiet && p.format != FormatJSON {
		return
	}
	fmt.Fprintln(p.writer, args...)
}

// Table prints rows in table format (only in human mode).
func (p *Printer) Table(headers []string, rows [][]string) {
	if p.format != FormatHuman || len(headers) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(p.writer)
	t.SetStyle(table.StyleLight)

	hdr := make(table.Row, len(headers))
	for i, h := range headers {
		hdr[i] = h
	}
	t.AppendHeader(hdr)

	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		t.AppendRow(r)
	}
	t.Render()
}

// printJSON marshals and prints JSON output.
func (p *Printer) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintf(p.writer, "%s\n", data)
	return nil
}

// IsJSON returns true if the output format is JSON.
func (p *Printer) IsJSON() bool {
	return p.format == FormatJSON
}

// IsRaw returns true if the output format is raw.
func (p *Printer) IsRaw() bool {
	return p.format == FormatRaw
}

// IsQuiet returns true if quiet mode is enabled.
func (p *Printer) IsQuiet() bool {
	return p.quiet
}
