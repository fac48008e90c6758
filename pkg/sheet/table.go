// Package sheet holds spreadsheet exports as header-addressable tables.
package sheet

import (
	"strings"
)

// Table is one feed's rows with whitespace-trimmed headers.
type Table struct {
	Name    string
	Headers []string

	rows  [][]string
	index map[string]int
}

// NewTable builds a table from raw records where the first record is the header row.
// Rows where every cell is blank are skipped.
func NewTable(name string, records [][]string) *Table {
	table := &Table{
		Name:  name,
		index: map[string]int{},
	}

	if len(records) == 0 {
		return table
	}

	table.Headers = make([]string, len(records[0]))
	for i, header := range records[0] {
		header = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
		table.Headers[i] = header

		if _, exists := table.index[header]; !exists {
			table.index[header] = i
		}
	}

	for _, record := range records[1:] {
		if isBlankRecord(record) {
			continue
		}
		table.rows = append(table.rows, record)
	}

	return table
}

// Empty is a table with no headers and no rows, used for feeds that degrade to nothing.
func Empty(name string) *Table {
	return NewTable(name, nil)
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	return len(t.rows)
}

// Row returns the i-th data row.
func (t *Table) Row(i int) Row {
	return Row{table: t, cells: t.rows[i], Index: i}
}

// Rows returns every data row in feed order.
func (t *Table) Rows() []Row {
	rows := make([]Row, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		rows = append(rows, t.Row(i))
	}

	return rows
}

// HasHeader reports whether a trimmed header name is present.
func (t *Table) HasHeader(name string) bool {
	_, exists := t.index[strings.TrimSpace(name)]

	return exists
}

// Resolve finds the cell position for a column: the first declared header name that exists,
// otherwise the positional fallback. -1 means the column cannot be found.
func (t *Table) Resolve(column Column) int {
	for _, name := range column.Names {
		if i, exists := t.index[name]; exists {
			return i
		}
	}

	return column.Index
}

// Records returns the header row followed by every data row.
func (t *Table) Records() [][]string {
	records := make([][]string, 0, t.Len()+1)
	records = append(records, t.Headers)
	records = append(records, t.rows...)

	return records
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
