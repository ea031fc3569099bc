package questionui

import (
	"strconv"
	"strings"
)

type indexFormat string

const (
	formatArabic     indexFormat = "123"
	formatLower      indexFormat = "abc"
	formatUpper      indexFormat = "ABC"
	formatLowerRoman indexFormat = "iii"
	formatUpperRoman indexFormat = "III"
)

// formatIndex renders a 1-based index. Unknown formats fall back to Arabic
// numerals and report false.
func formatIndex(i int, f indexFormat) (string, bool) {
	switch f {
	case formatArabic:
		return strconv.Itoa(i), true
	case formatLower:
		return toLetters(i), true
	case formatUpper:
		return strings.ToUpper(toLetters(i)), true
	case formatLowerRoman:
		return strings.ToLower(toRoman(i)), true
	case formatUpperRoman:
		return toRoman(i), true
	default:
		return strconv.Itoa(i), false
	}
}

// toLetters counts a, b, ..., z, aa, ab, ...
func toLetters(i int) string {
	var b []byte
	for i > 0 {
		i--
		b = append([]byte{byte('a' + i%26)}, b...)
		i /= 26
	}
	return string(b)
}

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"},
	{1, "I"},
}

func toRoman(i int) string {
	var b strings.Builder
	for _, r := range romanNumerals {
		for i >= r.value {
			b.WriteString(r.symbol)
			i -= r.value
		}
	}
	return b.String()
}
