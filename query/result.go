package query

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrNoData is returned by Result.Value when the query had no contributing rows.
var ErrNoData = errors.New("no data")

// Kind is the shape of a Result.
type Kind int

const (
	KindScalar Kind = iota + 1
	KindTable
	KindNoData
)

var kindNames = map[Kind]string{
	KindScalar: "scalar",
	KindTable:  "table",
	KindNoData: "no_data",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText encodes the kind as its name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown result kind %q", string(text))
}

// Scalar is a single numeric result.
type Scalar struct {
	Value     float64 `json:"value" yaml:"value"`
	Precision int     `json:"precision" yaml:"precision"` // digits after the decimal point
	Unit      string  `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Display formats the value with its precision and unit, e.g. "30.0 years".
func (s Scalar) Display() string {
	v := strconv.FormatFloat(s.Value, 'f', s.Precision, 64)
	if s.Unit != "" {
		return v + " " + s.Unit
	}
	return v
}

// Row is one category and the number of stops in it.
type Row struct {
	Category string `json:"category" yaml:"category"`
	Count    int64  `json:"count" yaml:"count"`
}

// Table is a ranked category/count table.
type Table struct {
	CategoryHeader string `json:"category_header" yaml:"category_header"`
	CountHeader    string `json:"count_header" yaml:"count_header"`
	Rows           []Row  `json:"rows" yaml:"rows"`
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Categories returns the category labels in rank order, for chart axes.
func (t *Table) Categories() []string {
	out := make([]string, 0, t.Len())
	for _, r := range t.rows() {
		out = append(out, r.Category)
	}
	return out
}

// Counts returns the counts in rank order, for chart values.
func (t *Table) Counts() []int64 {
	out := make([]int64, 0, t.Len())
	for _, r := range t.rows() {
		out = append(out, r.Count)
	}
	return out
}

// Total returns the sum of all counts.
func (t *Table) Total() int64 {
	var total int64
	for _, r := range t.rows() {
		total += r.Count
	}
	return total
}

// Top returns a copy of t holding at most n rows. n <= 0 keeps every row.
func (t *Table) Top(n int) *Table {
	if t == nil {
		return nil
	}
	rows := t.Rows
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return &Table{
		CategoryHeader: t.CategoryHeader,
		CountHeader:    t.CountHeader,
		Rows:           append([]Row{}, rows...),
	}
}

func (t *Table) rows() []Row {
	if t == nil {
		return nil
	}
	return t.Rows
}

// Result is the output of a query.
//
// Exactly one of Scalar and Table is set for KindScalar and KindTable.
// KindNoData sets neither; Label still names the metric.
type Result struct {
	Query  ID      `json:"query" yaml:"query"`
	Title  string  `json:"title" yaml:"title"`
	Kind   Kind    `json:"kind" yaml:"kind"`
	Label  string  `json:"label,omitempty" yaml:"label,omitempty"`
	Scalar *Scalar `json:"scalar,omitempty" yaml:"scalar,omitempty"`
	Table  *Table  `json:"table,omitempty" yaml:"table,omitempty"`
}

// Value returns the scalar value. It returns ErrNoData for a KindNoData
// result and an error for a table.
func (r Result) Value() (float64, error) {
	switch r.Kind {
	case KindScalar:
		return r.Scalar.Value, nil
	case KindNoData:
		return 0, ErrNoData
	default:
		return 0, fmt.Errorf("%s result has no scalar value", r.Kind)
	}
}

// Display returns a one-line rendering of a scalar or no-data result,
// e.g. "Average Driver Age: 30.0 years".
func (r Result) Display() string {
	switch r.Kind {
	case KindScalar:
		return r.Label + ": " + r.Scalar.Display()
	case KindNoData:
		return r.Label + ": " + ErrNoData.Error()
	default:
		return fmt.Sprintf("%s: %d rows", r.Title, r.Table.Len())
	}
}

// Truncate returns a copy of r with the table trimmed to n rows.
func (r Result) Truncate(n int) Result {
	if r.Kind == KindTable {
		r.Table = r.Table.Top(n)
	}
	return r
}

func scalarResult(label string, s Scalar) Result {
	return Result{Kind: KindScalar, Label: label, Scalar: &s}
}

func tableResult(categoryHeader string, rows []Row) Result {
	if rows == nil {
		rows = []Row{}
	}
	return Result{
		Kind: KindTable,
		Table: &Table{
			CategoryHeader: categoryHeader,
			CountHeader:    "Count",
			Rows:           rows,
		},
	}
}

func noDataResult(label string) Result {
	return Result{Kind: KindNoData, Label: label}
}
