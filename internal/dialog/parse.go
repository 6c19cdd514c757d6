package dialog

import (
	"strconv"
	"strings"
	"unicode"
)

// parseNumeric accepts what the profile and log commands call "a
// number": any float the user typed.
func parseNumeric(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseInRange parses and range-checks user input. Both bounds are
// exclusive.
func parseInRange(s string, lower, upper float64) (float64, bool) {
	v, ok := parseNumeric(s)
	if !ok || !(lower < v && v < upper) {
		return 0, false
	}
	return v, true
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// normalizeName trims and capitalizes a city/product/activity name the
// way the bot displays it.
func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// fmtNum prints a float the shortest exact way: 900 not 900.00, 133.5
// not 133.50.
func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
