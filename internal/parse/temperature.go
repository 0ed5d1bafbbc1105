// Package parse normalizes free-text form input into typed values.
package parse

import (
	"math"
	"strconv"
	"strings"
)

// Temperature converts raw text input into a pump temperature reading.
// Blank input and anything that does not parse as a finite number yield nil;
// a bad reading is recorded as "not measured", never as an error. No range
// check happens here: out-of-range values are surfaced as alerts downstream
// instead of being rejected at entry.
func Temperature(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
