package utils

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexFloat is a float64 decoded from either a JSON number or a JSON string
// (e.g. 52.525 or "52.525"). Values that cannot be parsed leave Valid false
// instead of failing the whole document, so a single bad record never
// aborts a load.
type FlexFloat struct {
	Value float64
	Valid bool
}

// NewFlexFloat returns a valid FlexFloat holding v.
func NewFlexFloat(v float64) FlexFloat {
	return FlexFloat{Value: v, Valid: true}
}

// UnmarshalJSON accepts numbers and numeric strings. Anything else
// (null, booleans, objects, empty or non-numeric strings) yields an invalid value.
func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	*f = FlexFloat{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	raw := string(b)
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	*f = FlexFloat{Value: v, Valid: true}
	return nil
}

// MarshalJSON writes valid values as numbers and invalid ones as null.
func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
