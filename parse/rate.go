package parse

import (
	"bytes"
	"math"
	"strconv"
)

// Rate is a metric value that may be mathematically undefined, for example on a zero
// length fight. Defined values are rounded half-up to one decimal place.
type Rate struct {
	Value   float64
	Defined bool
}

func Undefined() Rate {
	return Rate{}
}

func DefinedRate(v float64) Rate {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Rate{}
	}
	return Rate{Value: round1(v), Defined: true}
}

// Ratio returns num / den, undefined when den is not positive.
func Ratio(num, den float64) Rate {
	if den <= 0 {
		return Rate{}
	}
	return DefinedRate(num / den)
}

func round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

// Float returns the value, or 0 for an undefined rate.
func (r Rate) Float() float64 {
	if !r.Defined {
		return 0
	}
	return r.Value
}

// Err returns ErrUndefinedRate when the rate has no value.
func (r Rate) Err() error {
	if !r.Defined {
		return ErrUndefinedRate
	}
	return nil
}

func (r Rate) String() string {
	if !r.Defined {
		return "n/a"
	}
	return strconv.FormatFloat(r.Value, 'f', 1, 64)
}

func (r Rate) MarshalJSON() ([]byte, error) {
	if !r.Defined {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, r.Value, 'f', 1, 64), nil
}

func (r *Rate) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = Rate{}
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*r = Rate{Value: v, Defined: true}
	return nil
}
