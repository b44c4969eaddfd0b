package reader

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/vegasq/securecheck/dataset"
)

func TestRead_CSV(t *testing.T) {
	input := "\ufeffstop_date,driver_gender,driver_age,violation,search_type,stop_outcome,vehicle_number\n" +
		"2024-01-03,male,31,Speeding,,Citation,AB123\n" +
		"2024-01-04,female,,DUI,Inventory,Arrest Driver,CD456\n" +
		"2024-01-05,male,27,Speeding\n"

	ds, err := Read(strings.NewReader(input), FormatCSV)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if ds.Len() != 3 {
		t.Fatalf("Read() returned %d rows, want 3", ds.Len())
	}

	wantCols := []string{"stop_date", "driver_gender", "driver_age", "violation", "search_type", "stop_outcome", "vehicle_number"}
	if got := ds.Columns(); !reflect.DeepEqual(got, wantCols) {
		t.Errorf("Columns() = %v, want %v", got, wantCols)
	}

	first := ds.Record(0)
	if first.DriverAge != dataset.NewNumber(31) {
		t.Errorf("driver_age = %+v, want 31", first.DriverAge)
	}
	if first.SearchType.Valid {
		t.Errorf("empty CSV cell should be null, got %+v", first.SearchType)
	}

	second := ds.Record(1)
	if second.DriverAge.Valid {
		t.Errorf("empty age should be null, got %+v", second.DriverAge)
	}
	if second.StopOutcome.Value != "Arrest Driver" {
		t.Errorf("stop_outcome = %q", second.StopOutcome.Value)
	}

	short := ds.Record(2)
	if short.StopOutcome.Valid || short.SearchType.Valid {
		t.Errorf("fields missing from a short row should be null: %+v", short)
	}
}

func TestRead_CSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "too many fields", input: "violation\nSpeeding,extra\n"},
		{name: "bad age", input: "driver_age\nold\n"},
		{name: "duplicate header", input: "violation,violation\na,b\n"},
		{name: "unterminated quote", input: "violation\n\"Speeding\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tt.input), FormatCSV); err == nil {
				t.Errorf("Read() expected error, got nil")
			}
		})
	}
}

func TestRead_CSVFieldError(t *testing.T) {
	_, err := Read(strings.NewReader("violation,driver_age\nSpeeding,20\nDUI,unknown\n"), FormatCSV)
	var fe *dataset.FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("Read() error = %v, want *dataset.FieldError", err)
	}
	if fe.Row != 1 || fe.Column != dataset.DriverAge {
		t.Errorf("FieldError = %+v, want row 1 driver_age", fe)
	}
}

func TestRead_CSVHeaderOnly(t *testing.T) {
	ds, err := Read(strings.NewReader("violation,stop_outcome\n"), FormatCSV)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if ds.Len() != 0 {
		t.Errorf("Len() = %d, want 0", ds.Len())
	}
	if !ds.Has(dataset.Violation) || !ds.Has(dataset.StopOutcome) {
		t.Errorf("header-only CSV should still carry its columns")
	}
}

func TestRead_CSVMissingMarkers(t *testing.T) {
	tests := []struct {
		name   string
		marker string
	}{
		{name: "NA", marker: "NA"},
		{name: "N/A", marker: "N/A"},
		{name: "n/a", marker: "n/a"},
		{name: "NaN", marker: "NaN"},
		{name: "nan", marker: "nan"},
		{name: "null", marker: "null"},
		{name: "NULL", marker: "NULL"},
		{name: "None", marker: "None"},
		{name: "#N/A", marker: "#N/A"},
		{name: "<NA>", marker: "<NA>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "violation,driver_age\n" +
				"Speeding," + tt.marker + "\n" +
				tt.marker + ",30\n" +
				"DUI,40\n"
			ds, err := Read(strings.NewReader(input), FormatCSV)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if age := ds.Record(0).DriverAge; age.Valid {
				t.Errorf("driver_age %q should be null, got %+v", tt.marker, age)
			}
			if v := ds.Record(1).Violation; v.Valid {
				t.Errorf("violation %q should be null, got %+v", tt.marker, v)
			}
			if ds.Record(2).DriverAge != dataset.NewNumber(40) {
				t.Errorf("driver_age = %+v, want 40", ds.Record(2).DriverAge)
			}
		})
	}
}

func TestRead_CSVMarkersAreCaseSensitive(t *testing.T) {
	ds, err := Read(strings.NewReader("violation\nNone\nnone\nNa\n"), FormatCSV)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	want := []dataset.Text{{}, dataset.NewText("none"), dataset.NewText("Na")}
	for i, w := range want {
		if got := ds.Record(i).Violation; got != w {
			t.Errorf("row %d violation = %+v, want %+v", i, got, w)
		}
	}
}

func TestRead_CSVHeaderVerbatim(t *testing.T) {
	ds, err := Read(strings.NewReader(" violation,stop_outcome \nSpeeding,Warning\n"), FormatCSV)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	want := []string{" violation", "stop_outcome "}
	if got := ds.Columns(); !reflect.DeepEqual(got, want) {
		t.Errorf("Columns() = %q, want %q", got, want)
	}
	if ds.Has(dataset.Violation) || ds.Has(dataset.StopOutcome) {
		t.Errorf("padded header names must not match known columns")
	}
}
