package sheet

// Column declares how a field is found in a feed: by any of its header names, in order,
// and by position when the headers have drifted.
type Column struct {
	Names []string
	Index int
}

// NoIndex disables the positional fallback.
const NoIndex = -1

// Col declares a column with a positional fallback.
func Col(index int, names ...string) Column {
	return Column{Names: names, Index: index}
}

// Named declares a column that is only found by header name.
func Named(names ...string) Column {
	return Column{Names: names, Index: NoIndex}
}

// Row is one data row of a Table.
type Row struct {
	Index int

	table *Table
	cells []string
}

// Get returns the cell for column, or "" when the column is absent or the row is short.
func (r Row) Get(column Column) string {
	return r.Cell(r.table.Resolve(column))
}

// Has reports whether column resolves to a cell in this row.
func (r Row) Has(column Column) bool {
	i := r.table.Resolve(column)

	return i >= 0 && i < len(r.cells)
}

// Cell returns the cell at position i, or "" when it is out of range.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r.cells) {
		return ""
	}

	return r.cells[i]
}
