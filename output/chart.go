package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vegasq/securecheck/query"
)

const (
	defaultBarWidth   = 40
	defaultLabelWidth = 32
	barRune           = "█"
)

// ChartFormatter outputs a table result as a horizontal text bar chart.
// Scalar and no-data results are written as a single labeled line.
type ChartFormatter struct {
	writer     io.Writer
	barWidth   int
	labelWidth int
}

// NewChartFormatter creates a new bar chart formatter
func NewChartFormatter(w io.Writer) *ChartFormatter {
	return &ChartFormatter{
		writer:     w,
		barWidth:   defaultBarWidth,
		labelWidth: defaultLabelWidth,
	}
}

// SetOutput sets the output writer
func (c *ChartFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// SetBarWidth sets the width in cells of the longest bar
func (c *ChartFormatter) SetBarWidth(n int) {
	if n > 0 {
		c.barWidth = n
	}
}

// Format writes the chart
func (c *ChartFormatter) Format(res query.Result) error {
	if res.Kind != query.KindTable {
		_, err := fmt.Fprintf(c.writer, "%s: %s\n", res.Label, scalarText(res))
		return err
	}

	if _, err := fmt.Fprintln(c.writer, res.Title); err != nil {
		return err
	}

	labels := res.Table.Categories()
	counts := res.Table.Counts()
	if len(labels) == 0 {
		_, err := fmt.Fprintf(c.writer, "(%s)\n", NoData)
		return err
	}

	width := 0
	var peak int64
	for i, label := range labels {
		if w := runewidth.StringWidth(label); w > width {
			width = w
		}
		if counts[i] > peak {
			peak = counts[i]
		}
	}
	if width > c.labelWidth {
		width = c.labelWidth
	}

	for i, label := range labels {
		label = runewidth.Truncate(label, width, "…")
		bar := barLength(counts[i], peak, c.barWidth)
		line := fmt.Sprintf("%s │%s %d", runewidth.FillRight(label, width), strings.Repeat(barRune, bar), counts[i])
		if _, err := fmt.Fprintln(c.writer, line); err != nil {
			return err
		}
	}
	return nil
}

// barLength scales count against peak; non-zero counts get at least one cell
func barLength(count, peak int64, width int) int {
	if peak <= 0 || count <= 0 {
		return 0
	}
	n := int(count * int64(width) / peak)
	if n == 0 {
		n = 1
	}
	return n
}
