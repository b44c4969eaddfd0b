// Package output renders query results as JSON, JSON Lines, CSV, YAML, a
// text table or a text bar chart.
//
// Every formatter renders all three result kinds. A result without
// contributing rows is written as an explicit "no data" marker, never as
// a number.
//
// Example usage:
//
//	formatter, err := output.New("table", os.Stdout)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := formatter.Format(res); err != nil {
//	    log.Fatal(err)
//	}
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vegasq/securecheck/query"
)

// NoData is written in place of a value for query.KindNoData results.
const NoData = "no data"

// Formatter defines the interface for output formatters.
//
// Implementers must provide Format to render a result in the target format
// and SetOutput to change the output destination.
type Formatter interface {
	// Format writes res in the formatter's specific format
	Format(res query.Result) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

var constructors = map[string]func(io.Writer) Formatter{
	"json":  func(w io.Writer) Formatter { return NewJSONFormatter(w) },
	"jsonl": func(w io.Writer) Formatter { return NewJSONLinesFormatter(w) },
	"csv":   func(w io.Writer) Formatter { return NewCSVFormatter(w) },
	"yaml":  func(w io.Writer) Formatter { return NewYAMLFormatter(w) },
	"table": func(w io.Writer) Formatter { return NewTableFormatter(w) },
	"chart": func(w io.Writer) Formatter { return NewChartFormatter(w) },
}

// New returns the formatter registered under name, writing to w.
func New(name string, w io.Writer) (Formatter, error) {
	ctor, ok := constructors[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unsupported format %q (supported: %s)", name, strings.Join(Names(), ", "))
	}
	return ctor(w), nil
}

// Names returns the supported format names, sorted.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// scalarText renders the value of a scalar or no-data result
func scalarText(res query.Result) string {
	if res.Kind == query.KindNoData || res.Scalar == nil {
		return NoData
	}
	return res.Scalar.Display()
}
