package normalizer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"speclogic/internal/models"
)

var (
	numberPattern   = regexp.MustCompile(`(\d+(?:\.\d+)?)`)
	clockPattern    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(ghz|mhz)?`)
	nonPricePattern = regexp.MustCompile(`[^\d.]`)
)

var trueStrings = map[string]bool{"true": true, "yes": true, "1": true, "y": true, "t": true}

// mhzCutoff separates MHz readings from GHz readings for bare numbers.
const mhzCutoff = 100

// textOf returns the trimmed text form of a non-null value. Blank text counts as null.
func textOf(value any) (string, bool) {
	if models.IsNull(value) {
		return "", false
	}

	s := strings.TrimSpace(models.Stringify(value))
	if s == "" {
		return "", false
	}

	return s, true
}

// NormalizeSocket maps a raw socket name to its canonical form, e.g.
// "Socket AM5" to "AM5". Unknown names are upper-cased with spaces removed.
func NormalizeSocket(value any) (string, bool) {
	s, ok := textOf(value)
	if !ok {
		return "", false
	}

	if canonical, ok := match(socketPatterns, s); ok {
		return canonical, true
	}

	return strings.ReplaceAll(strings.ToUpper(s), " ", ""), true
}

// NormalizeMemoryType maps a raw memory type to DDR/GDDR/HBM canonical names.
// Unknown values are upper-cased.
func NormalizeMemoryType(value any) (string, bool) {
	s, ok := textOf(value)
	if !ok {
		return "", false
	}

	if canonical, ok := match(memoryTypePatterns, s); ok {
		return canonical, true
	}

	return strings.ToUpper(s), true
}

// NormalizeFormFactor maps a raw form factor to ATX, Micro-ATX, Mini-ITX,
// E-ATX, SFX or SFX-L. Unknown values are returned trimmed but otherwise unchanged.
func NormalizeFormFactor(value any) (string, bool) {
	s, ok := textOf(value)
	if !ok {
		return "", false
	}

	if canonical, ok := match(formFactorPatterns, s); ok {
		return canonical, true
	}

	return s, true
}

// NormalizeTDP returns whole watts. Numbers are truncated; strings use their
// first numeric token, so "125W" gives 125. Negative wattage is rejected on
// both paths. A minus that follows a letter or digit is a hyphen, so "-5W"
// fails while "TDP-125W" and "65-95W" still parse.
func NormalizeTDP(value any) (int, bool) {
	if models.IsNull(value) {
		return 0, false
	}

	if f, ok := models.ToFloat(value); ok {
		return truncate(f)
	}

	s, ok := value.(string)
	if !ok {
		return 0, false
	}

	loc := numberPattern.FindStringIndex(s)
	if loc == nil || signedNegative(s, loc[0]) {
		return 0, false
	}

	f, err := strconv.ParseFloat(s[loc[0]:loc[1]], 64)
	if err != nil {
		return 0, false
	}

	return truncate(f)
}

// NormalizePrice returns a USD amount. Strings are stripped of everything but
// digits and dots before parsing, so "$1,299.99" gives 1299.99.
func NormalizePrice(value any) (float64, bool) {
	if models.IsNull(value) {
		return 0, false
	}

	if f, ok := models.ToFloat(value); ok {
		if f < 0 || math.IsInf(f, 0) {
			return 0, false
		}

		return f, true
	}

	s, ok := value.(string)
	if !ok {
		return 0, false
	}

	cleaned := nonPricePattern.ReplaceAllString(s, "")
	if cleaned == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}

// NormalizeClockSpeed returns GHz. Bare numbers above 100 are read as MHz.
// Strings accept an optional "ghz" or "mhz" unit and default to GHz.
func NormalizeClockSpeed(value any) (float64, bool) {
	if models.IsNull(value) {
		return 0, false
	}

	if f, ok := models.ToFloat(value); ok {
		if math.IsInf(f, 0) {
			return 0, false
		}

		if f > mhzCutoff {
			return f / 1000, true
		}

		return f, true
	}

	s, ok := value.(string)
	if !ok {
		return 0, false
	}

	m := clockPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return 0, false
	}

	num, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}

	if m[2] == "mhz" {
		return num / 1000, true
	}

	return num, true
}

// NormalizeBoolean reads loose boolean representations. Null is false.
func NormalizeBoolean(value any) bool {
	if models.IsNull(value) {
		return false
	}

	switch v := value.(type) {
	case bool:
		return v
	case string:
		return trueStrings[strings.ToLower(strings.TrimSpace(v))]
	}

	if f, ok := models.ToFloat(value); ok {
		return f != 0
	}

	return trueStrings[strings.ToLower(strings.TrimSpace(models.Stringify(value)))]
}

// signedNegative reports whether the number starting at start carries a
// minus sign rather than a hyphen joining it to a previous word or number.
func signedNegative(s string, start int) bool {
	if start == 0 || s[start-1] != '-' {
		return false
	}

	if start == 1 {
		return true
	}

	prev := rune(s[start-2])

	return !unicode.IsLetter(prev) && !unicode.IsDigit(prev)
}

func truncate(f float64) (int, bool) {
	if math.IsInf(f, 0) || f < 0 || f > math.MaxInt32 {
		return 0, false
	}

	return int(f), true
}
