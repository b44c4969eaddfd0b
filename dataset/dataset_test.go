package dataset

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestFromRows_Coercion(t *testing.T) {
	rows := []map[string]interface{}{
		{"violation": "Speeding", "driver_age": "31", "search_conducted": "1", "stop_outcome": "Citation"},
		{"violation": "DUI", "driver_age": int64(45), "search_conducted": true, "stop_outcome": "Arrest Driver"},
		{"violation": nil, "driver_age": "", "search_conducted": nil, "stop_outcome": nil},
		{"violation": "Equipment", "driver_age": 22.5, "search_conducted": float64(0), "stop_outcome": ""},
	}

	ds, err := FromRows([]string{"violation", "driver_age", "search_conducted", "stop_outcome"}, rows)
	if err != nil {
		t.Fatalf("FromRows() error = %v", err)
	}

	want := []Record{
		{Violation: NewText("Speeding"), DriverAge: NewNumber(31), SearchConducted: NewFlag(true), StopOutcome: NewText("Citation")},
		{Violation: NewText("DUI"), DriverAge: NewNumber(45), SearchConducted: NewFlag(true), StopOutcome: NewText("Arrest Driver")},
		{},
		{Violation: NewText("Equipment"), DriverAge: NewNumber(22.5), SearchConducted: NewFlag(false), StopOutcome: NewText("")},
	}

	got := ds.Records()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FromRows() records = %+v, want %+v", got, want)
	}
}

func TestFromRows_FieldError(t *testing.T) {
	tests := []struct {
		name   string
		row    map[string]interface{}
		column Column
	}{
		{
			name:   "non-numeric age",
			row:    map[string]interface{}{"driver_age": "thirty"},
			column: DriverAge,
		},
		{
			name:   "flag out of range",
			row:    map[string]interface{}{"drugs_related_stop": int64(2)},
			column: DrugsRelatedStop,
		},
		{
			name:   "flag word",
			row:    map[string]interface{}{"search_conducted": "maybe"},
			column: SearchConducted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := []map[string]interface{}{{}, tt.row}
			_, err := FromRows(nil, rows)
			if err == nil {
				t.Fatalf("FromRows() expected error, got nil")
			}

			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("FromRows() error = %T, want *FieldError", err)
			}
			if fe.Row != 1 {
				t.Errorf("FieldError.Row = %d, want 1", fe.Row)
			}
			if fe.Column != tt.column {
				t.Errorf("FieldError.Column = %q, want %q", fe.Column, tt.column)
			}
		})
	}
}

func TestFromRows_NonStringText(t *testing.T) {
	rows := []map[string]interface{}{
		{"county_name": int32(7), "driver_race": 1.5, "violation": false},
	}
	ds, err := FromRows(nil, rows)
	if err != nil {
		t.Fatalf("FromRows() error = %v", err)
	}

	rec := ds.Record(0)
	if rec.CountyName.Value != "7" || rec.DriverRace.Value != "1.5" || rec.Violation.Value != "false" {
		t.Errorf("unexpected text coercion: %+v", rec)
	}
}

func TestFromRows_JSONNumber(t *testing.T) {
	rows := []map[string]interface{}{
		{"driver_age": json.Number("33"), "county_name": json.Number("0042"), "search_conducted": json.Number("1")},
	}
	ds, err := FromRows(nil, rows)
	if err != nil {
		t.Fatalf("FromRows() error = %v", err)
	}

	rec := ds.Record(0)
	if rec.DriverAge != NewNumber(33) {
		t.Errorf("driver_age = %+v, want 33", rec.DriverAge)
	}
	if rec.CountyName != NewText("0042") {
		t.Errorf("county_name = %+v, want 0042", rec.CountyName)
	}
	if rec.SearchConducted != NewFlag(true) {
		t.Errorf("search_conducted = %+v, want true", rec.SearchConducted)
	}
}

func TestNew_Columns(t *testing.T) {
	ds, err := New([]string{"violation", "vehicle_number", "stop_outcome"}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if !ds.Has(Violation) || !ds.Has(StopOutcome) {
		t.Errorf("Has() missing a loaded known column")
	}
	if ds.Has(SearchType) {
		t.Errorf("Has(search_type) = true, want false")
	}

	wantCols := []string{"violation", "vehicle_number", "stop_outcome"}
	if got := ds.Columns(); !reflect.DeepEqual(got, wantCols) {
		t.Errorf("Columns() = %v, want %v", got, wantCols)
	}
}

func TestNew_DuplicateColumn(t *testing.T) {
	if _, err := New([]string{"violation", "violation"}, nil); err == nil {
		t.Errorf("New() expected error for duplicate column, got nil")
	}
}

func TestRequire(t *testing.T) {
	ds, err := New([]string{"violation"}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := ds.Require(Violation); err != nil {
		t.Errorf("Require(violation) error = %v", err)
	}

	err = ds.Require(Violation, StopOutcome)
	var mc *MissingColumnError
	if !errors.As(err, &mc) {
		t.Fatalf("Require() error = %v, want *MissingColumnError", err)
	}
	if mc.Column != StopOutcome {
		t.Errorf("MissingColumnError.Column = %q, want stop_outcome", mc.Column)
	}
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("errors.Is(err, ErrMissingColumn) = false")
	}
}

func TestDataset_Immutable(t *testing.T) {
	ds, err := New([]string{"violation"}, []Record{{Violation: NewText("Speeding")}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	records := ds.Records()
	records[0].Violation = NewText("Parking")
	cols := ds.Columns()
	cols[0] = "changed"

	if got := ds.Record(0).Violation.Value; got != "Speeding" {
		t.Errorf("record mutated through Records(): %q", got)
	}
	if got := ds.Columns()[0]; got != "violation" {
		t.Errorf("columns mutated through Columns(): %q", got)
	}
}

func TestNilDataset(t *testing.T) {
	var ds *Dataset
	if ds.Len() != 0 {
		t.Errorf("nil Len() = %d, want 0", ds.Len())
	}
	if ds.Has(Violation) {
		t.Errorf("nil Has() = true")
	}
	calls := 0
	ds.Each(func(int, Record) { calls++ })
	if calls != 0 {
		t.Errorf("nil Each() called fn %d times", calls)
	}
}

func TestRecordText(t *testing.T) {
	rec := Record{SearchType: NewText("Incident to Arrest")}
	if v, ok := rec.Text(SearchType); !ok || v.Value != "Incident to Arrest" {
		t.Errorf("Text(search_type) = %+v, %v", v, ok)
	}
	if _, ok := rec.Text(DriverAge); ok {
		t.Errorf("Text(driver_age) ok = true, want false")
	}
}

func TestDataset_Cell(t *testing.T) {
	rows := []map[string]interface{}{
		{"driver_age": 42.0, "drugs_related_stop": true, "violation": "DUI", "vehicle_number": "AB123", "meta": map[string]interface{}{"k": "v"}},
		{"driver_age": nil, "drugs_related_stop": false, "violation": nil, "vehicle_number": 7.0},
	}
	ds, err := FromRows([]string{"violation", "driver_age", "drugs_related_stop", "vehicle_number", "meta"}, rows)
	if err != nil {
		t.Fatalf("FromRows() error = %v", err)
	}

	tests := []struct {
		row  int
		col  string
		want Text
	}{
		{row: 0, col: "violation", want: NewText("DUI")},
		{row: 0, col: "driver_age", want: NewText("42")},
		{row: 0, col: "drugs_related_stop", want: NewText("1")},
		{row: 0, col: "vehicle_number", want: NewText("AB123")},
		{row: 0, col: "meta", want: NewText("map[k:v]")},
		{row: 1, col: "violation", want: Text{}},
		{row: 1, col: "driver_age", want: Text{}},
		{row: 1, col: "drugs_related_stop", want: NewText("0")},
		{row: 1, col: "vehicle_number", want: NewText("7")},
		{row: 1, col: "meta", want: Text{}},
		{row: 0, col: "stop_outcome", want: Text{}},
		{row: 0, col: "not_a_column", want: Text{}},
	}
	for _, tt := range tests {
		if got := ds.Cell(tt.row, tt.col); got != tt.want {
			t.Errorf("Cell(%d, %q) = %+v, want %+v", tt.row, tt.col, got, tt.want)
		}
	}
}
