// Package table provides common table formatting utilities for CLI commands.
package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agentstation/modelmerge/pkg/grouping"
	"github.com/agentstation/modelmerge/pkg/pipeline"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// SummaryToTableData converts run counters to a two-column table.
func SummaryToTableData(s pipeline.Summary) Data {
	rows := [][]string{
		{"Input records", FormatNumber(s.Input)},
		{"Skipped (no id)", FormatNumber(s.Skipped)},
		{"Distinct base ids", FormatNumber(s.Groups)},
		{"Duplicate pairs", FormatNumber(s.DuplicatePairs)},
		{"Ambiguous groups", FormatNumber(s.Ambiguous)},
		{"Merged records", FormatNumber(s.Output)},
		{"With schema", FormatNumber(s.WithSchema)},
		{"With pricing", FormatNumber(s.WithPricing)},
	}

	return Data{
		Headers:         []string{"Metric", "Count"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// CollisionsToTableData lists ambiguous slots and their candidates.
func CollisionsToTableData(collisions []grouping.Collision) Data {
	rows := make([][]string, 0, len(collisions))
	for _, c := range collisions {
		rows = append(rows, []string{
			c.BaseID,
			c.Slot,
			strconv.Itoa(len(c.IDs)),
			strings.Join(c.IDs, ", "),
		})
	}

	return Data{
		Headers:         []string{"Base ID", "Slot", "Candidates", "IDs"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignLeft},
	}
}

// FormatNumber formats an integer with thousands separators.
func FormatNumber(n int) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatList joins items, truncating after limit entries. A limit of zero
// or less shows everything.
func FormatList(items []string, limit int) string {
	if len(items) == 0 {
		return "-"
	}
	if limit <= 0 || len(items) <= limit {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s ... and %d more", strings.Join(items[:limit], ", "), len(items)-limit)
}
