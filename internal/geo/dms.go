package geo

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// FormatDMS formats decimal degrees as D°M'S" with seconds to at most two
// decimals. Degrees are truncated toward zero and carry the sign; minutes
// and seconds are always written unsigned. Values in (-1, 0) are written
// with a "-0" degree part so the sign survives a round trip.
// It returns false for a non-finite input.
func FormatDMS(deg float64) (string, bool) {
	if !finite(deg) {
		return "", false
	}

	degrees := math.Trunc(deg)
	fraction := (deg - degrees) * 60
	minutes := math.Trunc(fraction)
	seconds := round((fraction-minutes)*60, 2)

	var b strings.Builder
	if math.Signbit(deg) {
		b.WriteByte('-')
	}
	b.WriteString(strconv.FormatFloat(math.Abs(degrees), 'f', 0, 64))
	b.WriteString("°")
	b.WriteString(strconv.FormatFloat(math.Abs(minutes), 'f', 0, 64))
	b.WriteByte('\'')
	b.WriteString(strconv.FormatFloat(math.Abs(seconds), 'f', -1, 64))
	b.WriteByte('"')

	return b.String(), true
}

// ParseDMS parses a D°M'S" string back into decimal degrees rounded to 6
// decimals. Both the degree and minute delimiters must be present and the
// string must be at least 6 characters long. Degrees and minutes are floored;
// the seconds part may be empty. The sign of the result follows the degree
// part, including "-0".
func ParseDMS(s string) (float64, bool) {
	if utf8.RuneCountInString(s) < 6 {
		return 0, false
	}

	degPart, rest, found := strings.Cut(s, "°")
	if !found {
		return 0, false
	}
	minPart, secPart, found := strings.Cut(rest, "'")
	if !found {
		return 0, false
	}
	secPart, _, _ = strings.Cut(secPart, "'")

	degrees, ok := parseDecimal(degPart)
	if !ok {
		return 0, false
	}
	minutes, ok := parseDecimal(minPart)
	if !ok {
		return 0, false
	}

	var seconds float64
	secPart = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(secPart), `"`))
	if secPart != "" {
		if seconds, ok = parseDecimal(secPart); !ok {
			return 0, false
		}
	}

	degrees = math.Floor(degrees)
	minutes = math.Floor(minutes)

	value := round(math.Abs(degrees)+(minutes+seconds/60)/60, 6)
	if math.Signbit(degrees) {
		return -value, true
	}

	return value, true
}
