package textutil

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Ellipsis is appended to truncated descriptions. The storefront appends it
// unconditionally, matching the catalogue display contract.
const Ellipsis = "..."

var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Slugify lowercases the input, folds away diacritics, collapses every run
// of non-alphanumeric characters into a single dash, and trims leading and
// trailing dashes.
func Slugify(value string) string {
	folded, _, err := transform.String(diacriticStripper, value)
	if err != nil {
		folded = value
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	pendingDash := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// FormatMoney renders an amount of cents as a dollar string, e.g. 1120 ->
// "$11.20". Negative amounts keep the sign ahead of the dollar figure.
func FormatMoney(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// Truncate collapses whitespace runs to single spaces, trims the result,
// cuts it to at most limit runes, and appends Ellipsis.
func Truncate(value string, limit int) string {
	collapsed := strings.Join(strings.Fields(value), " ")
	if limit <= 0 {
		return Ellipsis
	}
	runesOut := []rune(collapsed)
	if len(runesOut) > limit {
		runesOut = runesOut[:limit]
	}
	return string(runesOut) + Ellipsis
}
