// Package output provides formatters for command output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/agentstation/modelmerge/internal/cmd/table"
	"github.com/agentstation/modelmerge/pkg/errors"
)

// Format types for output.
type Format string

const (
	// FormatTable represents table output format.
	FormatTable Format = "table"
	// FormatJSON represents JSON output format.
	FormatJSON Format = "json"
	// FormatYAML represents YAML output format.
	FormatYAML Format = "yaml"
)

// Data represents data formatted for table output.
type Data = table.Data

// Formatter writes one document in a given format.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// NewFormatter creates appropriate formatter based on format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TableFormatter{}
	}
}

// JSONFormatter outputs JSON format.
type JSONFormatter struct {
	Indent string
}

// Format encodes data as JSON. HTML characters in ids and names are left
// unescaped.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if f.Indent != "" {
		enc.SetIndent("", f.Indent)
	}
	return enc.Encode(data)
}

// YAMLFormatter outputs YAML format.
type YAMLFormatter struct{}

// Format encodes data as YAML with two-space indentation.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	out, err := yaml.MarshalWithOptions(data, yaml.Indent(2), yaml.IndentSequence(false))
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// TableFormatter renders table.Data with tablewriter.
type TableFormatter struct{}

// Format renders data, which must be a Data or *Data.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case Data:
		return renderTable(w, v)
	case *Data:
		if v == nil {
			return nil
		}
		return renderTable(w, *v)
	default:
		return &errors.ValidationError{
			Field:   "format",
			Value:   string(FormatTable),
			Message: fmt.Sprintf("cannot render %T as a table", data),
		}
	}
}

func renderTable(w io.Writer, data Data) error {
	var config tablewriter.Config
	if len(data.ColumnAlignment) > 0 {
		align := columnAlignment(data.ColumnAlignment)
		config.Header.Alignment = tw.CellAlignment{PerColumn: align}
		config.Row.Alignment = tw.CellAlignment{PerColumn: align}
	}

	t := tablewriter.NewTable(w, tablewriter.WithConfig(config))
	if len(data.Headers) > 0 {
		t.Header(cells(data.Headers)...)
	}
	for _, row := range data.Rows {
		if err := t.Append(cells(row)...); err != nil {
			return err
		}
	}
	return t.Render()
}

func columnAlignment(aligns []table.Align) []tw.Align {
	out := make([]tw.Align, len(aligns))
	for i, a := range aligns {
		switch a {
		case table.AlignLeft:
			out[i] = tw.AlignLeft
		case table.AlignCenter:
			out[i] = tw.AlignCenter
		case table.AlignRight:
			out[i] = tw.AlignRight
		default:
			out[i] = tw.Skip
		}
	}
	return out
}

func cells(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// DetectFormat returns the explicit format if given, otherwise table on a
// terminal and JSON when stdout is piped.
func DetectFormat(explicitFormat string) Format {
	if explicitFormat != "" {
		return Format(strings.ToLower(explicitFormat))
	}
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return FormatTable
	}
	return FormatJSON
}

// ParseFormat converts string to Format with validation. An empty string
// stays empty so callers can fall back to DetectFormat.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(s))
	switch format {
	case FormatTable, FormatJSON, FormatYAML, "":
		return format, nil
	default:
		return "", &errors.ValidationError{
			Field:   "format",
			Value:   s,
			Message: "must be one of: table, json, yaml",
		}
	}
}

// Resolve validates an explicit format and detects one when it is empty.
func Resolve(explicit string) (Format, error) {
	format, err := ParseFormat(explicit)
	if err != nil {
		return "", err
	}
	if format == "" {
		format = DetectFormat("")
	}
	return format, nil
}
