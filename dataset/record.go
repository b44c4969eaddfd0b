package dataset

import "strconv"

// Column is the name of a known traffic-stop column. Names are case-sensitive.
type Column string

const (
	StopDate         Column = "stop_date"
	StopTime         Column = "stop_time"
	CountyName       Column = "county_name"
	DriverGender     Column = "driver_gender"
	DriverAge        Column = "driver_age"
	DriverRace       Column = "driver_race"
	Violation        Column = "violation"
	SearchConducted  Column = "search_conducted"
	SearchType       Column = "search_type"
	StopOutcome      Column = "stop_outcome"
	DrugsRelatedStop Column = "drugs_related_stop"
)

// kind is the storage type of a known column
type kind int

const (
	kindText kind = iota
	kindNumber
	kindFlag
)

// knownColumns lists every typed column in canonical order
var knownColumns = []Column{
	StopDate,
	StopTime,
	CountyName,
	DriverGender,
	DriverAge,
	DriverRace,
	Violation,
	SearchConducted,
	SearchType,
	StopOutcome,
	DrugsRelatedStop,
}

var columnKinds = map[Column]kind{
	StopDate:         kindText,
	StopTime:         kindText,
	CountyName:       kindText,
	DriverGender:     kindText,
	DriverAge:        kindNumber,
	DriverRace:       kindText,
	Violation:        kindText,
	SearchConducted:  kindFlag,
	SearchType:       kindText,
	StopOutcome:      kindText,
	DrugsRelatedStop: kindFlag,
}

// KnownColumns returns the typed columns in canonical order.
func KnownColumns() []Column {
	out := make([]Column, len(knownColumns))
	copy(out, knownColumns)
	return out
}

// Known reports whether c has a typed field on Record.
func (c Column) Known() bool {
	_, ok := columnKinds[c]
	return ok
}

func (c Column) String() string {
	return string(c)
}

// Text is a nullable string value.
type Text struct {
	Value string
	Valid bool
}

// NewText returns a valid Text holding s.
func NewText(s string) Text {
	return Text{Value: s, Valid: true}
}

// Number is a nullable float64 value.
type Number struct {
	Value float64
	Valid bool
}

// NewNumber returns a valid Number holding f.
func NewNumber(f float64) Number {
	return Number{Value: f, Valid: true}
}

// Flag is a nullable 0/1 indicator.
type Flag struct {
	Value bool
	Valid bool
}

// NewFlag returns a valid Flag holding b.
func NewFlag(b bool) Flag {
	return Flag{Value: b, Valid: true}
}

// Record is one traffic stop.
type Record struct {
	StopDate         Text
	StopTime         Text
	CountyName       Text
	DriverGender     Text
	DriverAge        Number
	DriverRace       Text
	Violation        Text
	SearchConducted  Flag
	SearchType       Text
	StopOutcome      Text
	DrugsRelatedStop Flag
}

// Text returns the value of a text column. The second result is false when
// c is not a text column.
func (r Record) Text(c Column) (Text, bool) {
	switch c {
	case StopDate:
		return r.StopDate, true
	case StopTime:
		return r.StopTime, true
	case CountyName:
		return r.CountyName, true
	case DriverGender:
		return r.DriverGender, true
	case DriverRace:
		return r.DriverRace, true
	case Violation:
		return r.Violation, true
	case SearchType:
		return r.SearchType, true
	case StopOutcome:
		return r.StopOutcome, true
	default:
		return Text{}, false
	}
}

// Cell formats the value of c as text. Numbers use the shortest
// representation and flags render as "1" or "0".
func (r Record) Cell(c Column) Text {
	if t, ok := r.Text(c); ok {
		return t
	}
	switch c {
	case DriverAge:
		if !r.DriverAge.Valid {
			return Text{}
		}
		return NewText(strconv.FormatFloat(r.DriverAge.Value, 'f', -1, 64))
	case SearchConducted:
		return r.SearchConducted.text()
	case DrugsRelatedStop:
		return r.DrugsRelatedStop.text()
	}
	return Text{}
}

func (f Flag) text() Text {
	switch {
	case !f.Valid:
		return Text{}
	case f.Value:
		return NewText("1")
	default:
		return NewText("0")
	}
}

// setText, setNumber and setFlag assign a coerced value to the field for c
func (r *Record) setText(c Column, v Text) {
	switch c {
	case StopDate:
		r.StopDate = v
	case StopTime:
		r.StopTime = v
	case CountyName:
		r.CountyName = v
	case DriverGender:
		r.DriverGender = v
	case DriverRace:
		r.DriverRace = v
	case Violation:
		r.Violation = v
	case SearchType:
		r.SearchType = v
	case StopOutcome:
		r.StopOutcome = v
	}
}

func (r *Record) setNumber(c Column, v Number) {
	if c == DriverAge {
		r.DriverAge = v
	}
}

func (r *Record) setFlag(c Column, v Flag) {
	switch c {
	case SearchConducted:
		r.SearchConducted = v
	case DrugsRelatedStop:
		r.DrugsRelatedStop = v
	}
}
