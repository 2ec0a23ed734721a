// Package outfmt renders command output as human-readable tables or as JSON,
// optionally reshaped by a jq expression.
package outfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// Mode represents the output format mode
type Mode int

const (
	// Text is the default human-readable output
	Text Mode = iota
	// JSON outputs structured JSON
	JSON
)

func (m Mode) String() string {
	if m == JSON {
		return "json"
	}
	return "text"
}

// Parse parses an output mode string
func Parse(s string) (Mode, error) {
	switch s {
	case "text", "":
		return Text, nil
	case "json":
		return JSON, nil
	default:
		return Text, fmt.Errorf("invalid output format: %q (use 'text' or 'json')", s)
	}
}

// Printer writes command results in the selected mode.
type Printer struct {
	mode   Mode
	query  string
	out    io.Writer
	errOut io.Writer
	tw     *tabwriter.Writer
}

// NewPrinter creates a printer. A query implies JSON output.
func NewPrinter(mode Mode, query string, out, errOut io.Writer) *Printer {
	if query != "" {
		mode = JSON
	}
	return &Printer{
		mode:   mode,
		query:  query,
		out:    out,
		errOut: errOut,
		tw:     tabwriter.NewWriter(out, 0, 4, 2, ' ', 0),
	}
}

// IsJSON reports whether structured output was requested
func (p *Printer) IsJSON() bool {
	return p.mode == JSON
}

// Output writes data as JSON when JSON mode is active; it is a no-op in text
// mode so callers can fall through to their table rendering.
func (p *Printer) Output(data any) error {
	if !p.IsJSON() {
		return nil
	}
	result, err := ApplyQuery(data, p.query)
	if err != nil {
		return err
	}
	return writeJSON(p.out, result)
}

// Text writes a line in text mode only
func (p *Printer) Text(format string, args ...any) {
	if p.IsJSON() {
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Empty reports an empty result on stderr so stdout stays parseable
func (p *Printer) Empty(msg string) {
	fmt.Fprintln(p.errOut, msg)
}

// Row writes a tab-separated row
func (p *Printer) Row(columns ...any) {
	for i, col := range columns {
		if i > 0 {
			fmt.Fprint(p.tw, "\t")
		}
		fmt.Fprint(p.tw, col)
	}
	fmt.Fprintln(p.tw)
}

// Flush aligns and writes buffered rows
func (p *Printer) Flush() error {
	return p.tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
