package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Thousands-grouped runs such as "1,500,000" count as one number, which is
// how perf stat prints counters. A minus sign directly before the digits is
// kept.
var (
	intPattern   = regexp.MustCompile(`-?(?:\d{1,3}(?:,\d{3})+|\d+)`)
	floatPattern = regexp.MustCompile(`-?(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d+)?(?:[eE][-+]?\d+)?`)
)

// ParseFloat accepts only a complete, finite decimal number.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ExtractInt parses the first run of digits anywhere in s, so "1500000",
// "1500000 cycles" and "cycles: 1500000" all yield 1500000, and "-5" yields -5.
func ExtractInt(s string) (int64, bool) {
	match := intPattern.FindString(s)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(strings.ReplaceAll(match, ",", ""), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ExtractFloat is ExtractInt with an optional fraction and exponent.
func ExtractFloat(s string) (float64, bool) {
	match := floatPattern.FindString(s)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func ParseCount(s string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
