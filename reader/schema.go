package reader

import (
	"fmt"

	"github.com/vegasq/securecheck/dataset"
)

// Summary describes a loaded dataset for schema mode.
type Summary struct {
	Rows    int              `json:"rows" yaml:"rows"`
	Columns []string         `json:"columns" yaml:"columns"`
	Known   []dataset.Column `json:"known_columns" yaml:"known_columns"`
	Missing []dataset.Column `json:"missing_columns" yaml:"missing_columns"`
	Extra   []string         `json:"extra_columns" yaml:"extra_columns"`
}

// Summarize reports row and column counts and which known columns the
// dataset carries.
func Summarize(ds *dataset.Dataset) Summary {
	s := Summary{
		Rows:    ds.Len(),
		Columns: ds.Columns(),
		Known:   []dataset.Column{},
		Missing: []dataset.Column{},
		Extra:   []string{},
	}
	if s.Columns == nil {
		s.Columns = []string{}
	}

	for _, c := range dataset.KnownColumns() {
		if ds.Has(c) {
			s.Known = append(s.Known, c)
		} else {
			s.Missing = append(s.Missing, c)
		}
	}
	for _, col := range s.Columns {
		if !dataset.Column(col).Known() {
			s.Extra = append(s.Extra, col)
		}
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("Loaded %d rows, %d columns", s.Rows, len(s.Columns))
}
