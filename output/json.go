package output

import (
	"encoding/json"
	"io"

	"github.com/vegasq/securecheck/query"
)

// JSONFormatter outputs a result as one indented JSON document
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes res as a JSON document
func (j *JSONFormatter) Format(res query.Result) error {
	encoder := json.NewEncoder(j.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(res)
}

// JSONLinesFormatter outputs a result as JSON Lines
type JSONLinesFormatter struct {
	writer io.Writer
}

// NewJSONLinesFormatter creates a new JSON Lines formatter
func NewJSONLinesFormatter(w io.Writer) *JSONLinesFormatter {
	return &JSONLinesFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONLinesFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// scalarLine is the JSON Lines shape of scalar and no-data results
type scalarLine struct {
	Label   string   `json:"label"`
	Value   *float64 `json:"value"`
	Display string   `json:"display"`
	NoData  bool     `json:"no_data,omitempty"`
}

// Format writes one object per table row, or a single object for scalar
// and no-data results
func (j *JSONLinesFormatter) Format(res query.Result) error {
	encoder := json.NewEncoder(j.writer)

	if res.Kind == query.KindTable {
		for _, row := range res.Table.Rows {
			if err := encoder.Encode(row); err != nil {
				return err
			}
		}
		return nil
	}

	line := scalarLine{Label: res.Label, Display: scalarText(res)}
	if v, err := res.Value(); err == nil {
		line.Value = &v
	} else {
		line.NoData = true
	}
	return encoder.Encode(line)
}
