package dataset

import (
	"errors"
	"fmt"
	"sort"
)

// ErrMissingColumn is matched by every MissingColumnError.
var ErrMissingColumn = errors.New("missing column")

// MissingColumnError reports a required column absent from a Dataset.
type MissingColumnError struct {
	Column Column
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column %q", string(e.Column))
}

// Is makes errors.Is(err, ErrMissingColumn) true.
func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// FieldError reports a value that could not be coerced into its column type.
type FieldError struct {
	Row    int // zero-based row index
	Column Column
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("row %d, column %q: %v", e.Row, string(e.Column), e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Dataset is an ordered, immutable collection of Records sharing a schema.
//
// The zero value and a nil *Dataset are both empty datasets with no columns.
type Dataset struct {
	columns []string
	present map[Column]bool
	records []Record
	extras  []map[string]Text // per row, columns without a typed field
}

// Empty returns a Dataset with no rows and no columns.
func Empty() *Dataset {
	return &Dataset{present: map[Column]bool{}}
}

// New builds a Dataset from typed records. columns names the columns the
// source carried; known ones become present, the rest are kept for display.
//
// Returns an error if a column name appears twice.
func New(columns []string, records []Record) (*Dataset, error) {
	present := make(map[Column]bool, len(columns))
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		if seen[col] {
			return nil, fmt.Errorf("duplicate column %q", col)
		}
		seen[col] = true
		if c := Column(col); c.Known() {
			present[c] = true
		}
	}

	ds := &Dataset{
		columns: append([]string(nil), columns...),
		present: present,
		records: append([]Record(nil), records...),
	}
	return ds, nil
}

// FromRows builds a Dataset from loosely typed rows keyed by column name.
//
// If columns is nil the column list is the sorted union of all row keys.
// Every known column is coerced into its typed field; a value that cannot
// be coerced fails the whole build with a *FieldError. Other columns keep
// their values as display text.
func FromRows(columns []string, rows []map[string]interface{}) (*Dataset, error) {
	if columns == nil {
		columns = ColumnNames(rows)
	}

	var known []Column
	var other []string
	for _, col := range columns {
		if c := Column(col); c.Known() {
			known = append(known, c)
		} else {
			other = append(other, col)
		}
	}

	records := make([]Record, 0, len(rows))
	var extras []map[string]Text
	if len(other) > 0 {
		extras = make([]map[string]Text, 0, len(rows))
	}
	for i, row := range rows {
		var rec Record
		for _, c := range known {
			if err := assign(&rec, c, row[string(c)]); err != nil {
				return nil, &FieldError{Row: i, Column: c, Err: err}
			}
		}
		records = append(records, rec)

		if extras != nil {
			cells := make(map[string]Text, len(other))
			for _, col := range other {
				cells[col] = displayText(row[col])
			}
			extras = append(extras, cells)
		}
	}

	ds, err := New(columns, records)
	if err != nil {
		return nil, err
	}
	ds.extras = extras
	return ds, nil
}

// assign coerces v into the field for c
func assign(rec *Record, c Column, v interface{}) error {
	switch columnKinds[c] {
	case kindNumber:
		n, err := coerceNumber(v)
		if err != nil {
			return err
		}
		rec.setNumber(c, n)
	case kindFlag:
		f, err := coerceFlag(v)
		if err != nil {
			return err
		}
		rec.setFlag(c, f)
	default:
		t, err := coerceText(v)
		if err != nil {
			return err
		}
		rec.setText(c, t)
	}
	return nil
}

// ColumnNames returns the sorted union of keys across rows.
func ColumnNames(rows []map[string]interface{}) []string {
	seen := make(map[string]bool)
	columns := make([]string, 0)

	for _, row := range rows {
		for col := range row {
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
		}
	}

	sort.Strings(columns)
	return columns
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Columns returns the column names in source order.
func (d *Dataset) Columns() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.columns...)
}

// Has reports whether the source carried column c.
func (d *Dataset) Has(c Column) bool {
	if d == nil {
		return false
	}
	return d.present[c]
}

// Require returns a *MissingColumnError for the first of cols not present.
func (d *Dataset) Require(cols ...Column) error {
	for _, c := range cols {
		if !d.Has(c) {
			return &MissingColumnError{Column: c}
		}
	}
	return nil
}

// Record returns the i-th record. It panics if i is out of range.
func (d *Dataset) Record(i int) Record {
	return d.records[i]
}

// Cell returns the value of column col in row i as display text. Known
// columns are formatted from the typed record; other columns hold the text
// of their source value. A column the dataset does not carry is null.
// It panics if i is out of range.
func (d *Dataset) Cell(i int, col string) Text {
	rec := d.records[i]
	if c := Column(col); c.Known() {
		if !d.present[c] {
			return Text{}
		}
		return rec.Cell(c)
	}
	if d.extras == nil {
		return Text{}
	}
	return d.extras[i][col]
}

// Records returns a copy of all records in order.
func (d *Dataset) Records() []Record {
	if d == nil {
		return nil
	}
	return append([]Record(nil), d.records...)
}

// Each calls fn for every record in order.
func (d *Dataset) Each(fn func(i int, rec Record)) {
	if d == nil {
		return
	}
	for i, rec := range d.records {
		fn(i, rec)
	}
}
