// Package output renders command results as a terminal table, JSON or
// YAML.
package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
)

// Format selects how command results are rendered.
type Format string

// Formats.
const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// DetectFormat picks the output format: the explicit choice when given,
// otherwise a table on terminals and JSON when piped.
func DetectFormat(explicit string) Format {
	switch Format(explicit) {
	case FormatTable, FormatJSON, FormatYAML:
		return Format(explicit)
	}
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return FormatTable
	}
	return FormatJSON
}

// Data is tabular command output.
type Data struct {
	Headers []string
	Rows    [][]string
}

// Formatter renders command output.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// NewFormatter returns the formatter for a format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return jsonFormatter{}
	case FormatYAML:
		return yamlFormatter{}
	default:
		return tableFormatter{}
	}
}

type jsonFormatter struct{}

func (jsonFormatter) Format(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

type yamlFormatter struct{}

func (yamlFormatter) Format(w io.Writer, data any) error {
	out, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

type tableFormatter struct{}

func (tableFormatter) Format(w io.Writer, data any) error {
	tab, ok := data.(Data)
	if !ok {
		// Non-tabular data falls back to JSON.
		return jsonFormatter{}.Format(w, data)
	}
	table := tablewriter.NewTable(w)
	if len(tab.Headers) > 0 {
		headers := make([]any, len(tab.Headers))
		for i, h := range tab.Headers {
			headers[i] = h
		}
		table.Header(headers...)
	}
	for _, row := range tab.Rows {
		cells := make([]any, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		if err := table.Append(cells...); err != nil {
			return err
		}
	}
	return table.Render()
}
