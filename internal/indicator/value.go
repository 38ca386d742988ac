package indicator

import (
	"errors"
	"time"

	"StratForge/internal/model"
)

// ErrInsufficientData is returned when the available history is shorter than
// an indicator's minimum window. Callers treat it as "no value yet", not as a
// run failure.
var ErrInsufficientData = errors.New("insufficient data")

// Value is the result of one indicator computation: either a single scalar or
// a small named-field record, tagged with the kind and the time of the bar it
// was computed on.
type Value struct {
	Kind   model.IndicatorKind
	Time   time.Time
	Scalar float64
	Fields map[string]float64
}

// Structured reports whether the value carries named fields.
func (v Value) Structured() bool { return v.Fields != nil }

// Field returns the named field of a structured value, or the scalar when
// name is empty and the value is scalar.
func (v Value) Field(name string) (float64, bool) {
	if v.Fields == nil {
		if name == "" {
			return v.Scalar, true
		}
		return 0, false
	}
	f, ok := v.Fields[name]
	return f, ok
}

func scalar(kind model.IndicatorKind, ts time.Time, x float64) Value {
	return Value{Kind: kind, Time: ts, Scalar: x}
}

func structured(kind model.IndicatorKind, ts time.Time, fields map[string]float64) Value {
	return Value{Kind: kind, Time: ts, Fields: fields}
}
