// Package submission validates a new police log entry and acknowledges it
// with a predicted outcome. Submitted entries are not stored.
package submission

import (
	"errors"
	"fmt"
	"strings"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"

	"github.com/vegasq/securecheck/dataset"
	"github.com/vegasq/securecheck/predict"
)

const (
	MinDriverAge = 16
	MaxDriverAge = 100

	// AckMessage is the confirmation returned for every accepted form.
	AckMessage = "New police log entry added successfully!"
)

// Genders lists the accepted driver_gender values.
var Genders = []string{"male", "female"}

// Flags lists the accepted search_conducted and drugs_related_stop values.
var Flags = []string{"0", "1"}

var (
	dateLayouts = []string{"2006-01-02"}
	timeLayouts = []string{"15:04", "15:04:05"}
)

// Form is a new police log entry as entered by the user.
type Form struct {
	StopDate         string `json:"stop_date" yaml:"stop_date"`
	StopTime         string `json:"stop_time" yaml:"stop_time"`
	CountyName       string `json:"county_name" yaml:"county_name"`
	DriverGender     string `json:"driver_gender" yaml:"driver_gender"`
	DriverAge        int    `json:"driver_age" yaml:"driver_age"`
	DriverRace       string `json:"driver_race" yaml:"driver_race"`
	SearchConducted  string `json:"search_conducted" yaml:"search_conducted"`
	DrugsRelatedStop string `json:"drugs_related_stop" yaml:"drugs_related_stop"`
	Violation        string `json:"violation" yaml:"violation"`
}

// FieldError reports one invalid form field.
type FieldError struct {
	Field  dataset.Column
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", string(e.Field), e.Reason)
}

// Validate checks the form bounds. Every invalid field is reported as a
// *FieldError; multiple failures are joined with errors.Join.
func (f Form) Validate() error {
	var errs []error
	fail := func(field dataset.Column, format string, args ...interface{}) {
		errs = append(errs, &FieldError{Field: field, Reason: fmt.Sprintf(format, args...)})
	}

	if f.DriverAge < MinDriverAge || f.DriverAge > MaxDriverAge {
		fail(dataset.DriverAge, "must be between %d and %d, got %d", MinDriverAge, MaxDriverAge, f.DriverAge)
	}
	if !oneOf(f.DriverGender, Genders) {
		fail(dataset.DriverGender, "must be one of %v, got %q", Genders, f.DriverGender)
	}
	if !oneOf(f.SearchConducted, Flags) {
		fail(dataset.SearchConducted, "must be one of %v, got %q", Flags, f.SearchConducted)
	}
	if !oneOf(f.DrugsRelatedStop, Flags) {
		fail(dataset.DrugsRelatedStop, "must be one of %v, got %q", Flags, f.DrugsRelatedStop)
	}
	if f.StopDate != "" && !parses(f.StopDate, dateLayouts) {
		fail(dataset.StopDate, "must be YYYY-MM-DD, got %q", f.StopDate)
	}
	if f.StopTime != "" && !parses(f.StopTime, timeLayouts) {
		fail(dataset.StopTime, "must be HH:MM or HH:MM:SS, got %q", f.StopTime)
	}

	return errors.Join(errs...)
}

// Record validates the form and converts it to a typed record. Empty free
// text fields become null.
func (f Form) Record() (dataset.Record, error) {
	if err := f.Validate(); err != nil {
		return dataset.Record{}, err
	}
	return dataset.Record{
		StopDate:         optionalText(f.StopDate),
		StopTime:         optionalText(f.StopTime),
		CountyName:       optionalText(f.CountyName),
		DriverGender:     dataset.NewText(f.DriverGender),
		DriverAge:        dataset.NewNumber(float64(f.DriverAge)),
		DriverRace:       optionalText(f.DriverRace),
		Violation:        optionalText(f.Violation),
		SearchConducted:  dataset.NewFlag(f.SearchConducted == "1"),
		DrugsRelatedStop: dataset.NewFlag(f.DrugsRelatedStop == "1"),
	}, nil
}

// Ack acknowledges an accepted form. Reference is a random id the user can
// quote for the entry.
type Ack struct {
	Reference string          `json:"reference" yaml:"reference"`
	Message   string          `json:"message" yaml:"message"`
	Outcome   predict.Outcome `json:"outcome" yaml:"outcome"`
	Summary   string          `json:"summary" yaml:"summary"`
}

// Submit validates f, predicts its outcome with p and returns the
// acknowledgment. A nil p uses predict.Default.
func Submit(p predict.Predictor, f Form) (Ack, error) {
	rec, err := f.Record()
	if err != nil {
		return Ack{}, err
	}
	if p == nil {
		p = predict.Default()
	}

	outcome, err := p.PredictOutcome(rec)
	if err != nil {
		return Ack{}, fmt.Errorf("failed to predict outcome: %w", err)
	}
	ref, err := nanoid.New()
	if err != nil {
		return Ack{}, fmt.Errorf("failed to generate reference: %w", err)
	}
	return Ack{
		Reference: ref,
		Message:   AckMessage,
		Outcome:   outcome,
		Summary:   fmt.Sprintf("Likely Outcome for '%s' is '%s'.", f.Violation, outcome),
	}, nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

func parses(v string, layouts []string) bool {
	for _, layout := range layouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}

func optionalText(s string) dataset.Text {
	if strings.TrimSpace(s) == "" {
		return dataset.Text{}
	}
	return dataset.NewText(s)
}
