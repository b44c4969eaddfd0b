package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vegasq/securecheck/query"
)

// CSVFormatter outputs a result as CSV format
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes a table as a header plus one record per row. Scalar and
// no-data results are written as a single label,value record.
func (c *CSVFormatter) Format(res query.Result) error {
	csvWriter := csv.NewWriter(c.writer)

	var records [][]string
	switch res.Kind {
	case query.KindTable:
		records = append(records, []string{res.Table.CategoryHeader, res.Table.CountHeader})
		for _, row := range res.Table.Rows {
			records = append(records, []string{sanitize(row.Category), strconv.FormatInt(row.Count, 10)})
		}
	case query.KindScalar:
		value := strconv.FormatFloat(res.Scalar.Value, 'f', res.Scalar.Precision, 64)
		records = append(records, []string{"label", "value"}, []string{sanitize(res.Label), value})
	default:
		records = append(records, []string{"label", "value"}, []string{sanitize(res.Label), NoData})
	}

	for _, record := range records {
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	// Flush and check for errors
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}

// sanitize guards against CSV injection by prefixing characters that could
// trigger formula execution in spreadsheet applications
func sanitize(val string) string {
	if len(val) == 0 {
		return val
	}
	switch val[0] {
	case '=', '+', '-', '@', '\t', '\r', '\n', '|':
		return "'" + strings.ReplaceAll(val, "'", "''")
	}
	return val
}
