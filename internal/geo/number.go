package geo

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// decimalLiteral matches plain decimal numbers with an optional exponent.
// Hex, binary, "Inf", "NaN" and digit separators are not accepted.
var decimalLiteral = regexp.MustCompile(`^[+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)

// Number extracts a finite float64 from loosely typed input.
//
// Go numeric kinds and json.Number are accepted when finite. Strings are
// accepted only if the whole trimmed string is a decimal literal, so "12abc",
// "0x10", "" and "Infinity" are all rejected. Anything else (nil, bool,
// slices) yields false.
func Number(v interface{}) (float64, bool) {
	var f float64

	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		return parseDecimal(string(n))
	case string:
		return parseDecimal(n)
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}

// IsNumber reports whether Number would accept v.
func IsNumber(v interface{}) bool {
	_, ok := Number(v)
	return ok
}

func parseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !decimalLiteral.MatchString(s) {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}
