package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/spf13/cast"
)

// Number is a numeric field from the remote service that may be absent, null,
// a JSON number or a numeric string. Valid is false for anything that does
// not coerce to a finite float. FromString records that the value arrived as
// a numeric string rather than a JSON number.
type Number struct {
	Value      float64
	Valid      bool
	FromString bool
}

// NumberOf returns a valid Number holding v.
func NumberOf(v float64) Number {
	return Number{Value: v, Valid: !math.IsNaN(v) && !math.IsInf(v, 0)}
}

// Or returns the value when valid and fallback otherwise.
func (n Number) Or(fallback float64) float64 {
	if !n.Valid {
		return fallback
	}
	return n.Value
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var raw any
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil
	}

	v, err := cast.ToFloat64E(raw)
	if err != nil {
		return nil
	}
	*n = NumberOf(v)
	_, n.FromString = raw.(string)
	return nil
}

// IsJSONNumber reports whether the value is valid and arrived as a JSON number.
func (n Number) IsJSONNumber() bool {
	return n.Valid && !n.FromString
}

// MarshalJSON implements json.Marshaler. Invalid numbers encode as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	text := strconv.FormatFloat(n.Value, 'f', -1, 64)
	if n.FromString {
		return []byte(strconv.Quote(text)), nil
	}
	return []byte(text), nil
}

// MarshalYAML implements yaml.Marshaler.
func (n Number) MarshalYAML() (any, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Value, nil
}
