package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/vegasq/securecheck/query"
	"github.com/vegasq/securecheck/reader"
)

// TableFormatter outputs a result as an aligned text table
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new text table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer
func (t *TableFormatter) SetOutput(w io.Writer) {
	t.writer = w
}

// Format writes the title line followed by the table
func (t *TableFormatter) Format(res query.Result) error {
	if _, err := fmt.Fprintln(t.writer, res.Title); err != nil {
		return err
	}

	table := newTable(t.writer)
	switch res.Kind {
	case query.KindTable:
		table.SetHeader([]string{res.Table.CategoryHeader, res.Table.CountHeader})
		table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
		for _, row := range res.Table.Rows {
			table.Append([]string{row.Category, strconv.FormatInt(row.Count, 10)})
		}
	default:
		table.SetHeader([]string{"Metric", "Value"})
		table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
		table.Append([]string{res.Label, scalarText(res)})
	}
	table.Render()
	return nil
}

// WriteSummary renders a dataset summary as a table of columns.
func WriteSummary(w io.Writer, s reader.Summary) error {
	if _, err := fmt.Fprintln(w, s.String()); err != nil {
		return err
	}

	known := make(map[string]bool, len(s.Known))
	for _, c := range s.Known {
		known[string(c)] = true
	}

	table := newTable(w)
	table.SetHeader([]string{"Column", "Typed"})
	for _, col := range s.Columns {
		typed := "no"
		if known[col] {
			typed = "yes"
		}
		table.Append([]string{col, typed})
	}
	table.Render()

	if len(s.Missing) > 0 {
		names := make([]string, 0, len(s.Missing))
		for _, c := range s.Missing {
			names = append(names, string(c))
		}
		if _, err := fmt.Fprintf(w, "Missing columns: %v\n", names); err != nil {
			return err
		}
	}
	return nil
}

func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	return table
}
