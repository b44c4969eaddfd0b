package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vegasq/securecheck/dataset"
)

// ID identifies one of the supported queries. The zero value is invalid.
type ID int

const (
	TotalStops ID = iota + 1
	ViolationCounts
	OutcomeCounts
	AverageDriverAge
	TopSearchTypes
	GenderCounts
	ViolationForArrests
)

// ErrUnknownQuery is matched by every UnknownQueryError.
var ErrUnknownQuery = errors.New("unknown query")

// UnknownQueryError reports a query name or ID outside the menu.
type UnknownQueryError struct {
	Name string // set when the query was selected by name
	ID   ID
}

func (e *UnknownQueryError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("unknown query %q", e.Name)
	}
	return fmt.Sprintf("unknown query id %d", int(e.ID))
}

// Is makes errors.Is(err, ErrUnknownQuery) true.
func (e *UnknownQueryError) Is(target error) bool {
	return target == ErrUnknownQuery
}

// definition describes one menu entry
type definition struct {
	name     string
	title    string
	requires []dataset.Column
	run      func(ds *dataset.Dataset) Result
}

// catalog is indexed by ID; entry 0 is unused
var catalog = [...]definition{
	TotalStops: {
		name:  "TotalStops",
		title: "Total Number of Police Stops",
		run:   totalStops,
	},
	ViolationCounts: {
		name:     "ViolationCounts",
		title:    "Count of Stops by Violation Type",
		requires: []dataset.Column{dataset.Violation},
		run:      violationCounts,
	},
	OutcomeCounts: {
		name:     "OutcomeCounts",
		title:    "Number of Arrests vs. Warnings",
		requires: []dataset.Column{dataset.StopOutcome},
		run:      outcomeCounts,
	},
	AverageDriverAge: {
		name:     "AverageDriverAge",
		title:    "Average Age of Drivers Stopped",
		requires: []dataset.Column{dataset.DriverAge},
		run:      averageDriverAge,
	},
	TopSearchTypes: {
		name:     "TopSearchTypes",
		title:    "Top 5 Most Frequent Search Types",
		requires: []dataset.Column{dataset.SearchType},
		run:      topSearchTypes,
	},
	GenderCounts: {
		name:     "GenderCounts",
		title:    "Count of Stops by Gender",
		requires: []dataset.Column{dataset.DriverGender},
		run:      genderCounts,
	},
	ViolationForArrests: {
		name:     "ViolationForArrests",
		title:    "Most Common Violation for Arrests",
		requires: []dataset.Column{dataset.StopOutcome, dataset.Violation},
		run:      violationForArrests,
	},
}

func lookup(id ID) (definition, bool) {
	if id < TotalStops || int(id) >= len(catalog) {
		return definition{}, false
	}
	return catalog[id], true
}

// All returns every query ID in menu order.
func All() []ID {
	ids := make([]ID, 0, len(catalog)-1)
	for id := TotalStops; int(id) < len(catalog); id++ {
		ids = append(ids, id)
	}
	return ids
}

// String returns the identifier, e.g. "ViolationCounts".
func (id ID) String() string {
	if def, ok := lookup(id); ok {
		return def.name
	}
	return fmt.Sprintf("ID(%d)", int(id))
}

// Title returns the menu title, e.g. "Count of Stops by Violation Type".
func (id ID) Title() string {
	def, _ := lookup(id)
	return def.title
}

// Requires returns the columns the query reads.
func (id ID) Requires() []dataset.Column {
	def, _ := lookup(id)
	return append([]dataset.Column(nil), def.requires...)
}

// Valid reports whether id is on the menu.
func (id ID) Valid() bool {
	_, ok := lookup(id)
	return ok
}

// MarshalText encodes the ID as its identifier.
func (id ID) MarshalText() ([]byte, error) {
	if !id.Valid() {
		return nil, &UnknownQueryError{ID: id}
	}
	return []byte(id.String()), nil
}

// UnmarshalText accepts anything Parse accepts.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Parse resolves a query by menu number ("2"), identifier
// ("ViolationCounts"), snake_case name ("violation_counts") or menu title.
// Matching ignores case.
func Parse(name string) (ID, error) {
	trimmed := strings.TrimSpace(name)
	if n, err := strconv.Atoi(trimmed); err == nil {
		if id := ID(n); id.Valid() {
			return id, nil
		}
		return 0, &UnknownQueryError{Name: name, ID: ID(n)}
	}
	key := normalizeName(trimmed)
	for _, id := range All() {
		def := catalog[id]
		if key == normalizeName(def.name) || strings.EqualFold(trimmed, def.title) {
			return id, nil
		}
	}
	return 0, &UnknownQueryError{Name: name}
}

// normalizeName lowercases s and drops underscores, dashes and spaces
func normalizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch r {
		case '_', '-', ' ':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
