package query

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/vegasq/securecheck/dataset"
)

// topSearchTypesLimit caps the TopSearchTypes table
const topSearchTypesLimit = 5

// arrestNeedle is matched against case-folded stop outcomes
const arrestNeedle = "arrest"

// Run executes the query id against ds.
//
// A non-empty ds must carry every column the query reads, otherwise Run
// returns a *dataset.MissingColumnError. A zero-row ds skips that check and
// yields zero or empty results. Run never modifies ds.
func Run(ds *dataset.Dataset, id ID) (Result, error) {
	def, ok := lookup(id)
	if !ok {
		return Result{}, &UnknownQueryError{ID: id}
	}

	if ds.Len() > 0 {
		if err := ds.Require(def.requires...); err != nil {
			return Result{}, err
		}
	}

	res := def.run(ds)
	res.Query = id
	res.Title = def.title
	return res, nil
}

// RunByName resolves name with Parse and runs the query.
func RunByName(ds *dataset.Dataset, name string) (Result, error) {
	id, err := Parse(name)
	if err != nil {
		return Result{}, err
	}
	return Run(ds, id)
}

func totalStops(ds *dataset.Dataset) Result {
	return scalarResult("Total Police Stops", Scalar{Value: float64(ds.Len())})
}

func violationCounts(ds *dataset.Dataset) Result {
	return tableResult("Violation", countBy(ds, dataset.Violation, nil, nil))
}

func outcomeCounts(ds *dataset.Dataset) Result {
	return tableResult("Outcome", countBy(ds, dataset.StopOutcome, nil, nil))
}

func averageDriverAge(ds *dataset.Dataset) Result {
	const label = "Average Driver Age"
	avg, ok := mean(ds, func(rec dataset.Record) dataset.Number { return rec.DriverAge })
	if !ok {
		return noDataResult(label)
	}
	return scalarResult(label, Scalar{Value: avg, Precision: 1, Unit: "years"})
}

func topSearchTypes(ds *dataset.Dataset) Result {
	nonEmpty := func(v string) bool { return v != "" }
	rows := countBy(ds, dataset.SearchType, nil, nonEmpty)
	if len(rows) > topSearchTypesLimit {
		rows = rows[:topSearchTypesLimit]
	}
	return tableResult("Search Type", rows)
}

func genderCounts(ds *dataset.Dataset) Result {
	return tableResult("Gender", countBy(ds, dataset.DriverGender, nil, nil))
}

func violationForArrests(ds *dataset.Dataset) Result {
	// Caser holds state, so each run gets its own.
	fold := cases.Fold()
	isArrest := func(rec dataset.Record) bool {
		if !rec.StopOutcome.Valid {
			return false
		}
		return strings.Contains(fold.String(rec.StopOutcome.Value), arrestNeedle)
	}
	return tableResult("Violation", countBy(ds, dataset.Violation, isArrest, nil))
}
