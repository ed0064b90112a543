package model

import (
	"encoding/json"

	"github.com/spf13/cast"
)

// The service payload is semi-structured: a field of an unexpected type is
// dropped instead of failing the whole payload. Only malformed JSON is an
// error, and encoding/json reports that before these decoders run.

// UnmarshalJSON implements json.Unmarshaler.
func (p *CompatibilityPayload) UnmarshalJSON(data []byte) error {
	*p = CompatibilityPayload{}
	fields := objectFields(data)

	p.Scores = lenient[map[string]Number](fields["scores"])
	p.Ratios = lenient[map[string]Number](fields["ratios"])
	p.Copy = lenient[Copy](fields["copy"])
	p.Micro = lenient[Micro](fields["micro"])
	p.Macro = lenient[Macro](fields["macro"])
	p.Confidence = lenient[Number](fields["confidence"])

	for _, raw := range lenient[[]json.RawMessage](fields["known_types"]) {
		if name, ok := text(raw); ok {
			p.KnownTypes = append(p.KnownTypes, name)
		}
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Macro) UnmarshalJSON(data []byte) error {
	*m = Macro{}
	fields := objectFields(data)

	m.Top, _ = text(fields["top"])
	m.Second = optionalText(fields["second"])
	m.Margin = lenient[Number](fields["margin"])
	for _, raw := range lenient[[]json.RawMessage](fields["candidates"]) {
		var c Candidate
		if err := json.Unmarshal(raw, &c); err == nil && c.Name != "" {
			m.Candidates = append(m.Candidates, c)
		}
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Candidate) UnmarshalJSON(data []byte) error {
	*c = Candidate{}
	fields := objectFields(data)

	c.Name, _ = text(fields["name"])
	c.Distance = lenient[Number](fields["distance"])
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Micro) UnmarshalJSON(data []byte) error {
	*m = Micro{}
	fields := objectFields(data)

	m.Type, _ = text(fields["type"])
	m.Quadrant, _ = text(fields["quadrant"])
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Copy) UnmarshalJSON(data []byte) error {
	*c = Copy{}
	fields := objectFields(data)

	c.Catch = optionalText(fields["catch"])
	c.Body = optionalText(fields["body"])
	c.Feature = optionalText(fields["feature"])
	c.Advice = optionalText(fields["advice"])
	return nil
}

// objectFields splits a JSON object into its members. Anything other than an
// object yields no members.
func objectFields(data []byte) map[string]json.RawMessage {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	return fields
}

// lenient decodes raw into a T, or returns the zero T when raw is absent or
// has the wrong shape.
func lenient[T any](raw json.RawMessage) T {
	var v T
	if len(raw) == 0 {
		return v
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		return zero
	}
	return v
}

// text reads a scalar as a string. Numbers and booleans are formatted;
// null, objects and arrays are not text.
func text(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	switch v.(type) {
	case string, float64, bool:
		s, err := cast.ToStringE(v)
		return s, err == nil
	default:
		return "", false
	}
}

// optionalText is text for fields where absence matters.
func optionalText(raw json.RawMessage) *string {
	s, ok := text(raw)
	if !ok {
		return nil
	}
	return &s
}
