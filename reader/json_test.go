package reader

import (
	"reflect"
	"strings"
	"testing"

	"github.com/vegasq/securecheck/dataset"
)

func violations(ds *dataset.Dataset) []string {
	var out []string
	ds.Each(func(_ int, rec dataset.Record) {
		out = append(out, rec.Violation.Value)
	})
	return out
}

func TestRead_JSON(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
		want   []string
	}{
		{
			name:   "array of records",
			format: FormatJSON,
			input:  `[{"violation":"Speeding","driver_age":30},{"violation":"DUI","driver_age":null}]`,
			want:   []string{"Speeding", "DUI"},
		},
		{
			name:   "stream of records",
			format: FormatJSON,
			input:  "{\"violation\":\"Speeding\"}\n{\"violation\":\"Parking\"}\n",
			want:   []string{"Speeding", "Parking"},
		},
		{
			name:   "pandas column orientation",
			format: FormatJSON,
			input:  `{"violation":{"0":"Speeding","1":"Parking","10":"DUI","2":"Equipment"},"driver_age":{"0":20,"1":30,"2":null,"10":40}}`,
			want:   []string{"Speeding", "Parking", "Equipment", "DUI"},
		},
		{
			name:   "json lines with blank lines",
			format: FormatJSONL,
			input:  "{\"violation\":\"Speeding\"}\n\n{\"violation\":\"Seat belt\"}\n",
			want:   []string{"Speeding", "Seat belt"},
		},
		{
			name:   "leading whitespace",
			format: FormatJSON,
			input:  "\n\t [ {\"violation\":\"Speeding\"} ]",
			want:   []string{"Speeding"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Read(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if got := violations(ds); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("violations = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRead_JSONColumnsAndNulls(t *testing.T) {
	input := `[{"violation":"Speeding","search_type":"","driver_age":"41"},{"violation":"DUI","stop_outcome":"Arrest Driver"}]`
	ds, err := Read(strings.NewReader(input), FormatJSON)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	wantCols := []string{"driver_age", "search_type", "stop_outcome", "violation"}
	if got := ds.Columns(); !reflect.DeepEqual(got, wantCols) {
		t.Errorf("Columns() = %v, want %v", got, wantCols)
	}

	first := ds.Record(0)
	if !first.SearchType.Valid || first.SearchType.Value != "" {
		t.Errorf("JSON empty string should stay an empty string, got %+v", first.SearchType)
	}
	if first.DriverAge != dataset.NewNumber(41) {
		t.Errorf("driver_age = %+v, want 41", first.DriverAge)
	}
	if first.StopOutcome.Valid {
		t.Errorf("missing key should be null, got %+v", first.StopOutcome)
	}
}

func TestRead_JSONNumbers(t *testing.T) {
	input := `{"county_name":12345678901234567890,"driver_age":27.5,"search_conducted":1,"drugs_related_stop":0}` + "\n"
	ds, err := Read(strings.NewReader(input), FormatJSONL)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	rec := ds.Record(0)
	if rec.CountyName != dataset.NewText("12345678901234567890") {
		t.Errorf("county_name = %+v, want the literal digits", rec.CountyName)
	}
	if rec.DriverAge != dataset.NewNumber(27.5) {
		t.Errorf("driver_age = %+v, want 27.5", rec.DriverAge)
	}
	if rec.SearchConducted != dataset.NewFlag(true) || rec.DrugsRelatedStop != dataset.NewFlag(false) {
		t.Errorf("flags = %+v, %+v", rec.SearchConducted, rec.DrugsRelatedStop)
	}
}

func TestRead_JSONErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{name: "empty", format: FormatJSON, input: "   "},
		{name: "scalar", format: FormatJSON, input: "42"},
		{name: "truncated array", format: FormatJSON, input: `[{"violation":"Speeding"}`},
		{name: "array of scalars", format: FormatJSON, input: `[1,2,3]`},
		{name: "bad line", format: FormatJSONL, input: "{\"violation\":\"a\"}\nnot json\n"},
		{name: "null line", format: FormatJSONL, input: "null\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tt.input), tt.format); err == nil {
				t.Errorf("Read() expected error, got nil")
			}
		})
	}
}
