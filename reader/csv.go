package reader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// utf8BOM is stripped from the first header cell
const utf8BOM = "\ufeff"

// naValues are the cell texts read as null, matching pandas' default
// na_values for read_csv. Matching is exact and case-sensitive.
var naValues = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

// decodeCSV reads a header row followed by data rows. Header names are kept
// verbatim. Cells in naValues and cells missing from short rows are null.
func decodeCSV(r io.Reader) (table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return table{}, fmt.Errorf("read header: empty CSV input")
		}
		return table{}, fmt.Errorf("read header: %w", err)
	}

	columns := make([]string, len(header))
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, utf8BOM)
		}
		columns[i] = col
	}

	var rows []map[string]interface{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return table{}, fmt.Errorf("read row: %w", err)
		}
		if len(rec) > len(columns) {
			return table{}, fmt.Errorf("line %d has %d fields, header has %d", line, len(rec), len(columns))
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			if i >= len(rec) || naValues[rec[i]] {
				row[col] = nil
				continue
			}
			row[col] = rec[i]
		}
		rows = append(rows, row)
	}

	return table{columns: columns, rows: rows}, nil
}
