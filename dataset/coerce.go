package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// toFloat64 converts a numeric value to float64 if possible
func toFloat64(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// coerceText converts a raw value to Text. Non-string scalars are formatted.
func coerceText(v interface{}) (Text, error) {
	switch val := v.(type) {
	case nil:
		return Text{}, nil
	case string:
		return NewText(val), nil
	case []byte:
		return NewText(string(val)), nil
	case json.Number:
		return NewText(val.String()), nil
	case bool:
		return NewText(strconv.FormatBool(val)), nil
	case float32:
		return NewText(strconv.FormatFloat(float64(val), 'g', -1, 32)), nil
	case float64:
		if math.IsNaN(val) {
			return Text{}, nil
		}
		return NewText(strconv.FormatFloat(val, 'g', -1, 64)), nil
	}
	if _, ok := toFloat64(v); ok {
		return NewText(fmt.Sprintf("%d", v)), nil
	}
	return Text{}, fmt.Errorf("unsupported text value of type %T", v)
}

// displayText renders a value of an untyped column. Values coerceText
// rejects, such as nested JSON objects, are formatted with fmt.
func displayText(v interface{}) Text {
	if t, err := coerceText(v); err == nil {
		return t
	}
	return NewText(fmt.Sprint(v))
}

// coerceNumber converts a raw value to Number. Empty strings and NaN are null.
func coerceNumber(v interface{}) (Number, error) {
	if v == nil {
		return Number{}, nil
	}
	if f, ok := toFloat64(v); ok {
		if math.IsNaN(f) {
			return Number{}, nil
		}
		return NewNumber(f), nil
	}

	s, ok := v.(string)
	if !ok {
		return Number{}, fmt.Errorf("unsupported numeric value of type %T", v)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return Number{}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Number{}, fmt.Errorf("invalid number %q", s)
	}
	if math.IsNaN(f) {
		return Number{}, nil
	}
	return NewNumber(f), nil
}

// coerceFlag converts a raw value to Flag. Accepted: bool, 0/1 numbers and
// the strings "0", "1", "true", "false" in any case.
func coerceFlag(v interface{}) (Flag, error) {
	switch val := v.(type) {
	case nil:
		return Flag{}, nil
	case bool:
		return NewFlag(val), nil
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "":
			return Flag{}, nil
		case "0", "false":
			return NewFlag(false), nil
		case "1", "true":
			return NewFlag(true), nil
		}
		return Flag{}, fmt.Errorf("invalid flag %q, want 0 or 1", val)
	}

	f, ok := toFloat64(v)
	if !ok {
		return Flag{}, fmt.Errorf("unsupported flag value of type %T", v)
	}
	switch f {
	case 0:
		return NewFlag(false), nil
	case 1:
		return NewFlag(true), nil
	}
	return Flag{}, fmt.Errorf("invalid flag %v, want 0 or 1", v)
}
