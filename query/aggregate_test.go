package query

import (
	"reflect"
	"testing"

	"github.com/vegasq/securecheck/dataset"
)

func TestCountBy_TieOrder(t *testing.T) {
	ds := mustDataset(t, []string{"violation"}, []map[string]interface{}{
		{"violation": "Parking"},
		{"violation": "Speeding"},
		{"violation": "Equipment"},
		{"violation": "Speeding"},
		{"violation": "Equipment"},
		{"violation": nil},
		{"violation": "Registration"},
	})

	got := countBy(ds, dataset.Violation, nil, nil)
	want := []Row{{"Speeding", 2}, {"Equipment", 2}, {"Parking", 1}, {"Registration", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("countBy() = %v, want %v", got, want)
	}

	var total int64
	for _, r := range got {
		total += r.Count
	}
	if total != 6 {
		t.Errorf("counts sum to %d, want 6 non-null rows", total)
	}
}

func TestCountBy_Filters(t *testing.T) {
	ds := mustDataset(t, []string{"violation", "driver_gender"}, []map[string]interface{}{
		{"violation": "Speeding", "driver_gender": "male"},
		{"violation": "Speeding", "driver_gender": "female"},
		{"violation": "DUI", "driver_gender": "female"},
	})

	female := func(rec dataset.Record) bool { return rec.DriverGender.Value == "female" }
	notDUI := func(v string) bool { return v != "DUI" }

	got := countBy(ds, dataset.Violation, female, notDUI)
	want := []Row{{"Speeding", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("countBy() = %v, want %v", got, want)
	}
}

func TestMean(t *testing.T) {
	ds := mustDataset(t, []string{"driver_age"}, []map[string]interface{}{
		{"driver_age": "18"}, {"driver_age": ""}, {"driver_age": int64(22)},
	})
	age := func(rec dataset.Record) dataset.Number { return rec.DriverAge }

	got, ok := mean(ds, age)
	if !ok || got != 20 {
		t.Errorf("mean() = %v, %v; want 20, true", got, ok)
	}

	if _, ok := mean(dataset.Empty(), age); ok {
		t.Errorf("mean() over empty dataset ok = true")
	}
}

func TestTableHelpers(t *testing.T) {
	table := &Table{
		CategoryHeader: "Violation",
		CountHeader:    "Count",
		Rows:           []Row{{"Speeding", 5}, {"DUI", 3}, {"Parking", 1}},
	}

	if got := table.Categories(); !reflect.DeepEqual(got, []string{"Speeding", "DUI", "Parking"}) {
		t.Errorf("Categories() = %v", got)
	}
	if got := table.Counts(); !reflect.DeepEqual(got, []int64{5, 3, 1}) {
		t.Errorf("Counts() = %v", got)
	}
	if got := table.Total(); got != 9 {
		t.Errorf("Total() = %d, want 9", got)
	}

	top := table.Top(2)
	if top.Len() != 2 || table.Len() != 3 {
		t.Errorf("Top(2) len = %d, original len = %d", top.Len(), table.Len())
	}
	top.Rows[0].Count = 99
	if table.Rows[0].Count != 5 {
		t.Errorf("Top() shares rows with the original table")
	}
	if table.Top(0).Len() != 3 {
		t.Errorf("Top(0) should keep every row")
	}

	var nilTable *Table
	if nilTable.Len() != 0 || nilTable.Total() != 0 || len(nilTable.Categories()) != 0 {
		t.Errorf("nil table helpers should report empty")
	}
}

func TestResult_Truncate(t *testing.T) {
	res := tableResult("Violation", []Row{{"a", 3}, {"b", 2}, {"c", 1}})
	if got := res.Truncate(1); got.Table.Len() != 1 {
		t.Errorf("Truncate(1) len = %d, want 1", got.Table.Len())
	}
	if res.Table.Len() != 3 {
		t.Errorf("Truncate modified the original result")
	}

	scalar := scalarResult("Total Police Stops", Scalar{Value: 4})
	if got := scalar.Truncate(1); got.Scalar.Value != 4 {
		t.Errorf("Truncate changed a scalar result")
	}
}
