package questionui

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/mind-engage/questionui/internal/xmltree"
)

// formatFloats replaces every qpy:format-float element with its formatted
// number.
//
//	precision            digits after the decimal point; absent or negative
//	                     means the shortest exact representation
//	strip-zeros          drop trailing fractional zeros (and a bare point)
//	thousands-separator  "yes" groups the integer part
func formatFloats(st *renderState) error {
	nodes, err := scan(st.root, cFormatFloat)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		n.ReplaceWith(xmltree.NewText(st.doc.formatFloat(n)))
	}
	return nil
}

func (d *Document) formatFloat(el *xmltree.Node) string {
	raw := strings.TrimSpace(el.Text())
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		d.log.Debug("format-float content is not a number", "text", raw)
		return raw
	}

	precision := -1
	if p, ok := el.Get("", "precision"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(p)); err == nil {
			precision = n
		}
	}
	s := strconv.FormatFloat(v, 'f', precision, 64)

	if el.Has("", "strip-zeros") && strings.Contains(s, ".") {
		s = strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
	}

	intPart, frac, hasFrac := strings.Cut(s, ".")
	if el.GetOr("", "thousands-separator", "no") == "yes" {
		intPart = groupThousands(intPart, d.thousandsSep)
	}
	if hasFrac {
		return intPart + d.decimalSep + frac
	}
	return intPart
}

func groupThousands(digits, sep string) string {
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	n, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return sign + digits
	}
	return sign + strings.ReplaceAll(humanize.BigComma(n), ",", sep)
}
