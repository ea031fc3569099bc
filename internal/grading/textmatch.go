package grading

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// normalize prepares a typed answer for comparison. Compatibility forms such
// as full-width letters, ligatures and no-break spaces are unified, case is
// folded, punctuation dropped and whitespace collapsed, so "  Lorem, IPSUM!"
// and "lorem ipsum" compare equal.
func normalize(s string) string {
	// a Caser keeps state and must not be shared between goroutines
	s = cases.Fold().String(norm.NFKC.String(s))
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.Map(func(r rune) rune {
			if unicode.IsPunct(r) {
				return -1
			}
			return r
		}, w)
	}
	words = slices.DeleteFunc(words, func(w string) bool { return w == "" })
	return strings.Join(words, " ")
}

// withinEdits reports whether a and b are at most limit edits apart.
func withinEdits(a, b string, limit int) bool {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la-lb > limit || lb-la > limit {
		return false
	}
	return editDistance(a, b) <= limit
}

// editDistance is the Levenshtein distance between a and b, counted in runes.
func editDistance(a, b string) int {
	ar, br := []rune(a), []rune(b)
	if len(ar) < len(br) {
		ar, br = br, ar
	}
	prev := make([]int, len(br)+1)
	cur := make([]int, len(br)+1)
	for j := range prev {
		prev[j] = j
	}
	for i, ra := range ar {
		cur[0] = i + 1
		for j, rb := range br {
			sub := prev[j]
			if ra != rb {
				sub++
			}
			cur[j+1] = min(prev[j+1]+1, cur[j]+1, sub)
		}
		prev, cur = cur, prev
	}
	return prev[len(br)]
}
