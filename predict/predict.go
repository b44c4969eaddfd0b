// Package predict defines the outcome prediction capability used by record
// submission.
//
// Only a placeholder implementation exists: Stub answers Warning for every
// record. A trained model can replace it by implementing Predictor.
package predict

import (
	"github.com/vegasq/securecheck/dataset"
)

// Outcome is a predicted stop outcome label, e.g. "Warning".
type Outcome string

// OutcomeWarning is the label every Stub prediction returns.
const OutcomeWarning Outcome = "Warning"

func (o Outcome) String() string {
	return string(o)
}

// Predictor predicts the likely outcome of a traffic stop.
type Predictor interface {
	PredictOutcome(rec dataset.Record) (Outcome, error)
}

// PredictorFunc adapts a function to the Predictor interface.
type PredictorFunc func(rec dataset.Record) (Outcome, error)

// PredictOutcome calls f(rec).
func (f PredictorFunc) PredictOutcome(rec dataset.Record) (Outcome, error) {
	return f(rec)
}

// Stub is a Predictor that ignores its input.
type Stub struct {
	// Outcome overrides the returned label; empty means OutcomeWarning.
	Outcome Outcome
}

// PredictOutcome returns the fixed label.
func (s Stub) PredictOutcome(dataset.Record) (Outcome, error) {
	if s.Outcome == "" {
		return OutcomeWarning, nil
	}
	return s.Outcome, nil
}

// Default returns the predictor used when none is configured.
func Default() Predictor {
	return Stub{}
}
