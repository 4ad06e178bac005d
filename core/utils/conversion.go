package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToUint converts ids arriving as JSON numbers, strings or integers to uint.
// Negative, fractional and unparsable values report false.
func ToUint(val any) (uint, bool) {
	switch v := val.(type) {
	case uint:
		return v, true
	case uint64:
		return uint(v), true
	case uint32:
		return uint(v), true
	case int:
		return uint(v), v >= 0
	case int64:
		return uint(v), v >= 0
	case int32:
		return uint(v), v >= 0
	case float64:
		if v < 0 || v != math.Trunc(v) {
			return 0, false
		}
		return uint(v), true
	case string:
		n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		return uint(n), err == nil
	case []byte:
		return ToUint(string(v))
	default:
		return 0, false
	}
}

// ParseID parses a positive surrogate id taken from a path or query parameter.
func ParseID(s string) (uint, error) {
	id, ok := ToUint(s)
	if !ok || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// ToBool converts query flags to bool.
// It handles bool, numeric types (1=true), and strings ("1", "true", "yes").
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case int, int64, int32, uint, uint64, uint32, float64:
		n, ok := ToUint(v)
		return ok && n == 1
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		return s == "1" || s == "true" || s == "yes"
	default:
		return false
	}
}
