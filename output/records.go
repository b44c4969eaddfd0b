package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vegasq/securecheck/dataset"
)

// Records is a display view of dataset rows in source column order.
// A null cell is nil.
type Records struct {
	TotalRows    int         `json:"total_rows" yaml:"total_rows"`
	TotalColumns int         `json:"total_columns" yaml:"total_columns"`
	Columns      []string    `json:"columns" yaml:"columns"`
	Rows         [][]*string `json:"rows" yaml:"rows"`
}

// NewRecords builds the view of the first limit rows of ds. limit <= 0
// keeps every row. The totals always describe the whole dataset.
func NewRecords(ds *dataset.Dataset, limit int) Records {
	n := ds.Len()
	if limit > 0 && limit < n {
		n = limit
	}

	columns := ds.Columns()
	if columns == nil {
		columns = []string{}
	}
	rows := make([][]*string, 0, n)
	for i := 0; i < n; i++ {
		row := make([]*string, len(columns))
		for j, col := range columns {
			if cell := ds.Cell(i, col); cell.Valid {
				v := cell.Value
				row[j] = &v
			}
		}
		rows = append(rows, row)
	}

	return Records{
		TotalRows:    ds.Len(),
		TotalColumns: len(columns),
		Columns:      columns,
		Rows:         rows,
	}
}

// Caption returns the size line shown under the records,
// e.g. "Total rows: 10 | Total columns: 12".
func (r Records) Caption() string {
	return fmt.Sprintf("Total rows: %d | Total columns: %d", r.TotalRows, r.TotalColumns)
}

// WriteRecords renders r in the named format. The chart format has no
// rendering for raw records.
func WriteRecords(w io.Writer, format string, r Records) error {
	switch name := strings.ToLower(strings.TrimSpace(format)); name {
	case "table":
		return writeRecordsTable(w, r)
	case "csv":
		return writeRecordsCSV(w, r)
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(r); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	case "jsonl":
		return writeRecordsJSONLines(w, r)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(r); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return encoder.Close()
	case "chart":
		return fmt.Errorf("records cannot be rendered as a chart")
	default:
		return fmt.Errorf("unsupported format %q (supported: %s)", format, strings.Join(Names(), ", "))
	}
}

func writeRecordsTable(w io.Writer, r Records) error {
	table := newTable(w)
	table.SetHeader(r.Columns)
	for _, row := range r.Rows {
		table.Append(cellStrings(row, false))
	}
	table.Render()

	_, err := fmt.Fprintln(w, r.Caption())
	return err
}

func writeRecordsCSV(w io.Writer, r Records) error {
	writer := csv.NewWriter(w)
	header := make([]string, len(r.Columns))
	for i, col := range r.Columns {
		header[i] = sanitize(col)
	}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, row := range r.Rows {
		if err := writer.Write(cellStrings(row, true)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// writeRecordsJSONLines writes one object per row keyed by column name
func writeRecordsJSONLines(w io.Writer, r Records) error {
	encoder := json.NewEncoder(w)
	for _, row := range r.Rows {
		obj := make(map[string]*string, len(r.Columns))
		for i, col := range r.Columns {
			obj[col] = row[i]
		}
		if err := encoder.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode JSON line: %w", err)
		}
	}
	return nil
}

// cellStrings renders a row with nulls as empty strings
func cellStrings(row []*string, sanitized bool) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		if cell == nil {
			continue
		}
		if sanitized {
			out[i] = sanitize(*cell)
		} else {
			out[i] = *cell
		}
	}
	return out
}
