package output

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Write renders a report section. Table formats print the heading and
// tableData; structured formats encode raw as-is so nothing is lost to
// truncation.
func Write(w io.Writer, format Format, heading string, tableData Data, raw any) error {
	switch format {
	case FormatJSON, FormatYAML:
		return NewFormatter(format).Format(w, raw)
	default:
		if heading != "" {
			if err := Heading(w, heading); err != nil {
				return err
			}
		}
		return NewFormatter(FormatTable).Format(w, tableData)
	}
}

// Heading writes a title-cased section heading followed by an underline.
func Heading(w io.Writer, title string) error {
	caser := cases.Title(language.English)
	title = caser.String(strings.ReplaceAll(title, "_", " "))
	_, err := fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("=", len(title)))
	return err
}
