package output

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/vegasq/securecheck/query"
)

// YAMLFormatter outputs a result as a YAML document
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// SetOutput sets the output writer
func (y *YAMLFormatter) SetOutput(w io.Writer) {
	y.writer = w
}

// Format writes res as YAML
func (y *YAMLFormatter) Format(res query.Result) error {
	encoder := yaml.NewEncoder(y.writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(res); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}
