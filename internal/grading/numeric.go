package grading

import (
	"context"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// numericStrategy compares a typed number with AnswerKey[0]. Further key
// entries widen the match:
//
//	AnswerKey: ["3.14159", "tol=0.01"]   // absolute tolerance
//	AnswerKey: ["100", "reltol=0.05"]    // 5% relative tolerance
//
// A key that is not a number only accepts the literal answer.
type numericStrategy struct{}

func (numericStrategy) Grade(_ context.Context, q Q, response string) (Result, error) {
	res := Result{MaxPoints: q.Points}
	if len(q.AnswerKey) == 0 {
		return res, nil
	}
	key := strings.TrimSpace(q.AnswerKey[0])
	if strings.TrimSpace(response) == key {
		res.AutoPoints = q.Points
		return res, nil
	}

	got, ok := parseNumber(response)
	if !ok {
		return res, nil
	}
	want, ok := parseNumber(key)
	if !ok {
		return res, nil
	}
	if parseTolerance(q.AnswerKey[1:]).accepts(got, want) {
		res.AutoPoints = q.Points
	}
	return res, nil
}

// parseNumber reads a number as it is typed into a form field. Digit groups
// may be separated by spaces or apostrophes, anything after the number that
// does not start with a digit is taken as a unit and ignored, and a lone
// comma is the decimal separator. When both "," and "." occur, the last one
// is the decimal separator.
func parseNumber(s string) (float64, bool) {
	fields := strings.Fields(strings.Map(func(r rune) rune {
		if r == '\'' || r == '’' {
			return -1
		}
		return r
	}, s))
	if len(fields) == 0 {
		return 0, false
	}
	num := fields[0]
	for _, f := range fields[1:] {
		if !unicode.IsDigit([]rune(f)[0]) {
			break
		}
		num += f
	}

	dots, commas := strings.Count(num, "."), strings.Count(num, ",")
	switch {
	case dots > 0 && commas > 0:
		if strings.LastIndex(num, ",") > strings.LastIndex(num, ".") {
			num = strings.ReplaceAll(num, ".", "")
			num = strings.Replace(num, ",", ".", 1)
		} else {
			num = strings.ReplaceAll(num, ",", "")
		}
	case commas == 1:
		num = strings.Replace(num, ",", ".", 1)
	case commas > 1:
		num = strings.ReplaceAll(num, ",", "")
	case dots > 1:
		num = strings.ReplaceAll(num, ".", "")
	}

	v, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// tolerance bounds accepted deviations. Negative values are unset.
type tolerance struct {
	abs, rel float64
}

func parseTolerance(extras []string) tolerance {
	t := tolerance{abs: -1, rel: -1}
	for _, e := range extras {
		name, value, ok := strings.Cut(strings.ToLower(strings.TrimSpace(e)), "=")
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || v < 0 {
			continue
		}
		switch strings.TrimSpace(name) {
		case "tol":
			t.abs = v
		case "reltol":
			t.rel = v
		}
	}
	return t
}

func (t tolerance) accepts(got, want float64) bool {
	diff := math.Abs(got - want)
	switch {
	case diff == 0:
		return true
	case t.abs >= 0 && diff <= t.abs:
		return true
	case t.rel >= 0 && diff <= t.rel*math.Abs(want):
		return true
	}
	return false
}
