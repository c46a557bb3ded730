package core

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type categoryRule struct {
	category TaxCategory
	keywords []string
	// wholeWord keywords only match when not embedded in a longer word.
	wholeWord bool
}

// categoryRules are tried in order. Lodging and food service come first so
// "PPN Hotel" style descriptions land in the specific bucket.
var categoryRules = []categoryRule{
	{CategoryLodgingTax, []string{"hotel", "penginapan", "lodging", "losmen", "motel"}, false},
	{CategoryFoodServiceTax, []string{"resto", "restoran", "restaurant", "rumah makan", "food", "kuliner"}, false},
	{CategoryNonTaxable, []string{"non", "nonpajak", "bebas", "exempt", "tidak kena"}, true},
	{CategoryPPN, []string{"ppn", "vat", "pertambahan nilai"}, false},
}

var categoryPrefixes = []string{"pajak", "tax"}

// NormalizeCategory maps free-text tax descriptions to a TaxCategory.
// Empty text is NON_TAXABLE; text matching no keyword is UNKNOWN.
func NormalizeCategory(text string) TaxCategory {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" || s == "-" {
		return CategoryNonTaxable
	}
	s = stripPrefix(s)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if matches(s, kw, rule.wholeWord) {
				return rule.category
			}
		}
	}
	return CategoryUnknown
}

// stripPrefix removes one leading "pajak"/"tax" token.
func stripPrefix(s string) string {
	for _, p := range categoryPrefixes {
		if rest, ok := strings.CutPrefix(s, p); ok {
			rest = strings.TrimLeft(rest, " -_:")
			if rest != "" {
				return rest
			}
		}
	}
	return s
}

func matches(s, kw string, wholeWord bool) bool {
	if !wholeWord {
		return strings.Contains(s, kw)
	}
	for i := 0; ; {
		j := strings.Index(s[i:], kw)
		if j < 0 {
			return false
		}
		start, end := i+j, i+j+len(kw)
		if !wordRuneBefore(s, start) && !wordRuneAt(s, end) {
			return true
		}
		i = start + 1
	}
}

func wordRuneBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func wordRuneAt(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
