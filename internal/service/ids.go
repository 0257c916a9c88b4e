package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FlexID is an identifier sent either as a JSON number or as a string.
// A numeric zero decodes to the empty value.
type FlexID string

func (f *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*f = ""
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a number or a string")
	}
	if v, err := n.Float64(); err == nil && v == 0 {
		*f = ""
		return nil
	}
	*f = FlexID(n.String())
	return nil
}

// parseNumber accepts any finite decimal. whole is false for fractional or
// negative values, which can never match a row.
func parseNumber(raw string) (id uint, whole bool, err error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, fmt.Errorf("not a number: %q", raw)
	}
	if v < 0 || v != math.Trunc(v) || v > math.MaxUint32 {
		return 0, false, nil
	}
	return uint(v), true, nil
}

// ParseID parses a strictly positive integer identifier.
func ParseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}
