package submission

import (
	"errors"
	"strings"
	"testing"

	"github.com/vegasq/securecheck/dataset"
	"github.com/vegasq/securecheck/predict"
)

func validForm() Form {
	return Form{
		StopDate:         "2024-03-01",
		StopTime:         "14:30",
		CountyName:       "Travis",
		DriverGender:     "female",
		DriverAge:        27,
		DriverRace:       "Asian",
		SearchConducted:  "0",
		DrugsRelatedStop: "1",
		Violation:        "Speeding",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Form)
		fields []dataset.Column
	}{
		{name: "valid", modify: func(*Form) {}},
		{name: "min age", modify: func(f *Form) { f.DriverAge = 16 }},
		{name: "max age", modify: func(f *Form) { f.DriverAge = 100 }},
		{name: "empty date and time", modify: func(f *Form) { f.StopDate, f.StopTime = "", "" }},
		{name: "time with seconds", modify: func(f *Form) { f.StopTime = "08:05:59" }},
		{name: "too young", modify: func(f *Form) { f.DriverAge = 15 }, fields: []dataset.Column{dataset.DriverAge}},
		{name: "too old", modify: func(f *Form) { f.DriverAge = 101 }, fields: []dataset.Column{dataset.DriverAge}},
		{name: "gender", modify: func(f *Form) { f.DriverGender = "Female" }, fields: []dataset.Column{dataset.DriverGender}},
		{name: "search flag", modify: func(f *Form) { f.SearchConducted = "yes" }, fields: []dataset.Column{dataset.SearchConducted}},
		{name: "drugs flag", modify: func(f *Form) { f.DrugsRelatedStop = "" }, fields: []dataset.Column{dataset.DrugsRelatedStop}},
		{name: "date", modify: func(f *Form) { f.StopDate = "03/01/2024" }, fields: []dataset.Column{dataset.StopDate}},
		{name: "time", modify: func(f *Form) { f.StopTime = "25:00" }, fields: []dataset.Column{dataset.StopTime}},
		{
			name: "several",
			modify: func(f *Form) {
				f.DriverAge = 0
				f.DriverGender = ""
				f.SearchConducted = "2"
			},
			fields: []dataset.Column{dataset.DriverAge, dataset.DriverGender, dataset.SearchConducted},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.modify(&f)
			err := f.Validate()

			if len(tt.fields) == 0 {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want errors for %v", tt.fields)
			}
			for _, field := range tt.fields {
				if !strings.Contains(err.Error(), string(field)+":") {
					t.Errorf("Validate() error %q does not mention %s", err, field)
				}
			}
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Errorf("Validate() error is not a *FieldError: %T", err)
			}
		})
	}
}

func TestRecord(t *testing.T) {
	f := validForm()
	f.DriverRace = " "
	rec, err := f.Record()
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if rec.DriverAge != dataset.NewNumber(27) {
		t.Errorf("DriverAge = %+v", rec.DriverAge)
	}
	if rec.SearchConducted != dataset.NewFlag(false) || rec.DrugsRelatedStop != dataset.NewFlag(true) {
		t.Errorf("flags = %+v, %+v", rec.SearchConducted, rec.DrugsRelatedStop)
	}
	if rec.DriverRace.Valid {
		t.Errorf("blank DriverRace should be null, got %+v", rec.DriverRace)
	}
	if rec.StopOutcome.Valid {
		t.Errorf("StopOutcome should be null, got %+v", rec.StopOutcome)
	}
	if rec.Violation != dataset.NewText("Speeding") {
		t.Errorf("Violation = %+v", rec.Violation)
	}

	f.DriverAge = 12
	if _, err := f.Record(); err == nil {
		t.Errorf("Record() with invalid age expected error")
	}
}

func TestSubmit(t *testing.T) {
	ack, err := Submit(nil, validForm())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if len(ack.Reference) != 21 {
		t.Errorf("Submit() reference = %q, want a 21 character id", ack.Reference)
	}
	want := Ack{
		Reference: ack.Reference,
		Message:   "New police log entry added successfully!",
		Outcome:   predict.OutcomeWarning,
		Summary:   "Likely Outcome for 'Speeding' is 'Warning'.",
	}
	if ack != want {
		t.Errorf("Submit() = %+v, want %+v", ack, want)
	}

	again, err := Submit(nil, validForm())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if again.Reference == ack.Reference {
		t.Errorf("two submissions share reference %q", ack.Reference)
	}
}

func TestSubmitUsesPredictor(t *testing.T) {
	var seen dataset.Record
	p := predict.PredictorFunc(func(rec dataset.Record) (predict.Outcome, error) {
		seen = rec
		return "Arrest Driver", nil
	})

	ack, err := Submit(p, validForm())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if ack.Outcome != "Arrest Driver" || ack.Summary != "Likely Outcome for 'Speeding' is 'Arrest Driver'." {
		t.Errorf("Submit() = %+v", ack)
	}
	if seen.CountyName != dataset.NewText("Travis") {
		t.Errorf("predictor saw %+v", seen)
	}

	boom := errors.New("offline")
	failing := predict.PredictorFunc(func(dataset.Record) (predict.Outcome, error) { return "", boom })
	if _, err := Submit(failing, validForm()); !errors.Is(err, boom) {
		t.Errorf("Submit() error = %v, want wrapped %v", err, boom)
	}
}

func TestSubmitRejectsInvalid(t *testing.T) {
	called := false
	p := predict.PredictorFunc(func(dataset.Record) (predict.Outcome, error) {
		called = true
		return predict.OutcomeWarning, nil
	})

	f := validForm()
	f.DriverGender = "other"
	if _, err := Submit(p, f); err == nil {
		t.Fatalf("Submit() expected validation error")
	}
	if called {
		t.Errorf("predictor called for invalid form")
	}
}
