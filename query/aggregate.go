package query

import (
	"sort"

	"github.com/vegasq/securecheck/dataset"
)

// group tracks one category while counting
type group struct {
	key   string
	count int64
}

// countBy groups records by the text column c and counts each group.
//
// Records where keep returns false are skipped, as are null categories and
// categories rejected by accept. The result is sorted by descending count;
// equal counts keep first-encountered order.
func countBy(ds *dataset.Dataset, c dataset.Column, keep func(dataset.Record) bool, accept func(string) bool) []Row {
	index := make(map[string]int)
	groups := make([]group, 0)

	ds.Each(func(_ int, rec dataset.Record) {
		if keep != nil && !keep(rec) {
			return
		}
		v, _ := rec.Text(c)
		if !v.Valid {
			return
		}
		if accept != nil && !accept(v.Value) {
			return
		}

		if i, exists := index[v.Value]; exists {
			groups[i].count++
			return
		}
		index[v.Value] = len(groups)
		groups = append(groups, group{key: v.Value, count: 1})
	})

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].count > groups[j].count
	})

	rows := make([]Row, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, Row{Category: g.key, Count: g.count})
	}
	return rows
}

// mean averages the valid values of a numeric field
func mean(ds *dataset.Dataset, value func(dataset.Record) dataset.Number) (float64, bool) {
	var sum float64
	var n int
	ds.Each(func(_ int, rec dataset.Record) {
		if v := value(rec); v.Valid {
			sum += v.Value
			n++
		}
	})
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
