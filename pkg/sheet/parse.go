package sheet

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

// Spreadsheet exports are hand edited, so rows may be ragged and quotes sloppy.
func newCSVReader(in io.Reader) *csv.Reader {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	return r
}

// ParseCSV reads a delimited export with a header row.
func ParseCSV(name string, in io.Reader) (*Table, error) {
	records, err := newCSVReader(in).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s csv: %w", name, err)
	}

	return NewTable(name, records), nil
}

// ParseXLSX reads a workbook export. An empty sheetName selects the first sheet.
func ParseXLSX(name string, in io.Reader, sheetName string) (*Table, error) {
	workbook, err := excelize.OpenReader(in)
	if err != nil {
		return nil, fmt.Errorf("open %s workbook: %w", name, err)
	}
	defer workbook.Close()

	if sheetName == "" {
		sheetName = workbook.GetSheetName(0)
	}

	rows, err := workbook.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read %s sheet %q: %w", name, sheetName, err)
	}

	return NewTable(name, rows), nil
}

// FromValues converts a Sheets API value range into a table.
func FromValues(name string, values [][]interface{}) *Table {
	records := make([][]string, 0, len(values))
	for _, row := range values {
		record := make([]string, len(row))
		for i, cell := range row {
			if cell != nil {
				record[i] = fmt.Sprint(cell)
			}
		}
		records = append(records, record)
	}

	return NewTable(name, records)
}

// DecodeRecords unmarshals the table into a slice of csv-tagged structs. Headers are
// already trimmed so tags match regardless of stray whitespace in the export.
func DecodeRecords(table *Table, out interface{}) error {
	if table.Len() == 0 {
		return nil
	}

	return gocsv.UnmarshalCSV(&tableReader{table: table}, out)
}

// tableReader replays a table through gocsv, padding short rows to the header width.
type tableReader struct {
	table *Table
	next  int
}

func (r *tableReader) Read() ([]string, error) {
	records := r.table.Records()
	if r.next >= len(records) {
		return nil, io.EOF
	}

	record := r.pad(records[r.next])
	r.next++

	return record, nil
}

func (r *tableReader) ReadAll() ([][]string, error) {
	records := r.table.Records()

	padded := make([][]string, 0, len(records)-r.next)
	for _, record := range records[r.next:] {
		padded = append(padded, r.pad(record))
	}
	r.next = len(records)

	return padded, nil
}

func (r *tableReader) pad(record []string) []string {
	width := len(r.table.Headers)
	if len(record) >= width {
		return record[:width]
	}

	padded := make([]string, width)
	copy(padded, record)

	return padded
}
