// Package tabular loads uploaded spreadsheet exports into rectangular string
// tables. The true format is sniffed from content (OLE2/ZIP magic, HTML
// markers) rather than trusted from the file extension, and parsing runs
// through an ordered list of fallback strategies.
package tabular

import (
	"strconv"
	"strings"
)

// Table is a rectangular grid of string cells with named columns.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Cols returns the number of columns.
func (t *Table) Cols() int {
	return len(t.Headers)
}

// Empty reports whether the table carries no columns at all.
func (t *Table) Empty() bool {
	return t == nil || len(t.Headers) == 0
}

// Headerless reports whether the column identifiers are plain sequential
// integers, meaning the source had no header row.
func (t *Table) Headerless() bool {
	if t == nil || len(t.Headers) == 0 {
		return false
	}
	for i, h := range t.Headers {
		if h != strconv.Itoa(i) {
			return false
		}
	}
	return true
}

// Cell returns the cell at (row, col), or "" when out of range.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// squareOff pads or truncates every row to the header width so downstream
// code can index cells positionally.
func (t *Table) squareOff() {
	width := len(t.Headers)
	for i, row := range t.Rows {
		switch {
		case len(row) < width:
			padded := make([]string, width)
			copy(padded, row)
			t.Rows[i] = padded
		case len(row) > width:
			t.Rows[i] = row[:width]
		}
	}
}

// sequentialHeaders returns integer column identifiers "0".."n-1" for a
// table parsed without a header row.
func sequentialHeaders(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.Itoa(i)
	}
	return out
}

func cleanHeader(h string) string {
	h = strings.ReplaceAll(h, `"`, "")
	h = strings.ReplaceAll(h, "'", "")
	return strings.TrimSpace(h)
}
