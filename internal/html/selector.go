package html

import (
	"regexp"
	"strings"
)

// The supported selector grammar is deliberately narrow: type, class, id,
// compound, descendant, child, adjacent-sibling, grouped, universal,
// attribute presence/equality, and :not() and :root as the only
// pseudo-classes. Everything else (pseudo-elements, the remaining
// pseudo-classes, general-sibling combinators, case-insensitive attribute
// flags) matches nothing rather than failing the analysis.
var (
	pseudoRe         = regexp.MustCompile(`::?[\w-]+`)
	generalSiblingRe = regexp.MustCompile(`~`)
	caseInsensAttrRe = regexp.MustCompile(`\[[^\]]*\s+[iI]\s*\]`)
)

// IsSupportedSelector reports whether the selector stays inside the supported
// grammar. The check is stable under surrounding whitespace.
func IsSupportedSelector(selector string) bool {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return false
	}

	if generalSiblingRe.MatchString(selector) {
		return false
	}
	if caseInsensAttrRe.MatchString(selector) {
		return false
	}

	for _, m := range pseudoRe.FindAllString(selector, -1) {
		if strings.HasPrefix(m, "::") {
			// Pseudo-elements are never supported.
			return false
		}
		if m != ":not" && m != ":root" {
			return false
		}
	}
	return true
}
