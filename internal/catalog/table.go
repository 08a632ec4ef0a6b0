package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Column names of the product sheet.
const (
	ColumnImageURL     = "imageUrl"
	ColumnPriceText    = "priceText"
	ColumnAffiliateURL = "affiliateUrl"
)

// ErrMissingColumn is returned when a row has no value for a required column,
// either because the header lacks it or because the record is too short.
var ErrMissingColumn = errors.New("missing column")

// Table is a fully read product sheet, addressed by header name.
type Table struct {
	header  map[string]int
	records [][]string
}

// ReadTable reads the whole CSV from r. The first record is the header; column
// order is irrelevant, extra columns are ignored and records may be ragged.
// An empty input yields an empty table.
func ReadTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	t := &Table{header: make(map[string]int)}
	if len(records) == 0 {
		return t, nil
	}

	for i, name := range records[0] {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		// Later duplicates win
		t.header[name] = i
	}
	t.records = records[1:]
	return t, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.records)
}

// Row returns data row i. Every required column is looked up, so a sheet
// lacking one fails on its first row even if that row would be skipped.
func (t *Table) Row(i int) (Row, error) {
	image, err := t.field(i, ColumnImageURL)
	if err != nil {
		return Row{}, err
	}
	price, err := t.field(i, ColumnPriceText)
	if err != nil {
		return Row{}, err
	}
	affiliate, err := t.field(i, ColumnAffiliateURL)
	if err != nil {
		return Row{}, err
	}
	return Row{ImageURL: image, PriceText: price, AffiliateURL: affiliate}, nil
}

func (t *Table) field(i int, column string) (string, error) {
	idx, ok := t.header[column]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingColumn, column)
	}
	record := t.records[i]
	if idx >= len(record) {
		return "", fmt.Errorf("%w: %s (row %d has %d fields)", ErrMissingColumn, column, i+1, len(record))
	}
	return record[idx], nil
}
