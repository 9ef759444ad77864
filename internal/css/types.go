package css

import (
	"errors"
	"fmt"
)

// Syntax-level problems that abort parsing of a stylesheet. Anything less
// severe (a malformed declaration, a brace-less ruleset) is recorded on the
// offending object instead and parsing continues.
var (
	// ErrUnbalancedComment is returned when /* and */ delimiters don't pair up.
	ErrUnbalancedComment = errors.New("css: unbalanced comment delimiters")
	// ErrUnbalancedBraces is returned when braces can't be paired at the
	// stylesheet level.
	ErrUnbalancedBraces = errors.New("css: unbalanced braces")
)

// Messages recorded on invalid declarations. Three distinct failure modes,
// matched by tests; sibling declarations keep parsing.
const (
	errNoColon      = "missing colon between property and value"
	errEmptyValue   = "missing value after colon"
	errTrailingText = "unexpected text after declaration terminator"
)

// Specificity is a CSS specificity score: (id count, class count, type count)
// compared lexicographically. Class count includes attribute selectors and
// pseudo-classes; type count is bare element names.
//
// The struct is the single source of truth. The legacy zero-padded string
// form ("014") exists only as a projection for display and for comparing
// against stored string scores; ParseSpecificity converts back at the
// boundary.
type Specificity struct {
	IDs     int
	Classes int
	Types   int
}

// Compare returns -1 if s is less specific than other, 0 if equal, 1 if more
// specific. ID count dominates class count, which dominates type count,
// independent of absolute magnitudes.
func (s Specificity) Compare(other Specificity) int {
	pairs := [3][2]int{
		{s.IDs, other.IDs},
		{s.Classes, other.Classes},
		{s.Types, other.Types},
	}
	for _, p := range pairs {
		if p[0] != p[1] {
			if p[0] > p[1] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// String renders the canonical zero-padded form, e.g. (0,1,4) -> "014".
// Counts above nine clamp to nine so the lexical ordering of the projection
// never disagrees with Compare.
func (s Specificity) String() string {
	clamp := func(n int) int {
		if n > 9 {
			return 9
		}
		return n
	}
	return fmt.Sprintf("%d%d%d", clamp(s.IDs), clamp(s.Classes), clamp(s.Types))
}

// ParseSpecificity converts a canonical three-digit string back into a
// Specificity. Malformed input yields the zero score.
func ParseSpecificity(canonical string) Specificity {
	if len(canonical) != 3 {
		return Specificity{}
	}
	digit := func(b byte) int {
		if b < '0' || b > '9' {
			return 0
		}
		return int(b - '0')
	}
	return Specificity{
		IDs:     digit(canonical[0]),
		Classes: digit(canonical[1]),
		Types:   digit(canonical[2]),
	}
}

// Declaration is a single property: value pair. A declaration that fails
// validation keeps its raw text, sets Invalid, and records a human-readable
// message; it never aborts the ruleset it belongs to.
type Declaration struct {
	Property string
	Value    string
	Invalid  bool
	Error    string // one of the three validation messages when Invalid
}

// GetDeclaration renders the declaration back to normalized "property: value"
// form.
func (d Declaration) GetDeclaration() string {
	return d.Property + ": " + d.Value
}

// Ruleset is a selector plus its declaration block. Specificity is computed
// lazily from the selector on first use.
type Ruleset struct {
	Selector     string
	Declarations []Declaration
	Invalid      bool // missing brace, or } before {

	spec    Specificity
	specSet bool
}

// Specificity returns the ruleset's selector specificity, computing and
// caching it on first call.
func (r *Ruleset) Specificity() Specificity {
	if !r.specSet {
		r.spec = GetSpecificity(r.Selector)
		r.specSet = true
	}
	return r.spec
}

// Declaration returns the last valid declaration for a property, if any.
// Last wins within one block, matching how browsers collapse duplicates.
func (r *Ruleset) Declaration(property string) (Declaration, bool) {
	var found Declaration
	ok := false
	for _, d := range r.Declarations {
		if !d.Invalid && d.Property == property {
			found = d
			ok = true
		}
	}
	return found, ok
}

// NestedAtRule is an at-rule that contains its own rulesets, such as
// @media or @keyframes. AtRule is the full header text, e.g.
// "@media (min-width: 520px)".
type NestedAtRule struct {
	AtRule   string
	Rulesets []Ruleset
}

// Stylesheet is one parsed CSS source: an external file or the contents of a
// <style> tag.
type Stylesheet struct {
	Href string // filename, or the style-tag identifier
	Type string // "file" or "tag"

	Rulesets      []Ruleset
	NestedAtRules []NestedAtRule
	Comments      []string

	// Selector bookkeeping. Repeated selectors outside of at-rules usually
	// mean the sheet violates DRY, which the reporting layer can surface.
	Selectors          []string
	HasRepeatSelectors bool
	RepeatedSelectors  []string
}

// Empty reports whether the sheet contains no usable rulesets at all.
func (s *Stylesheet) Empty() bool {
	return len(s.Rulesets) == 0 && len(s.NestedAtRules) == 0
}

// ColorRulesets returns the rulesets that declare at least one valid
// color-related property.
func (s *Stylesheet) ColorRulesets() []Ruleset {
	var out []Ruleset
	for _, r := range s.Rulesets {
		if r.Invalid {
			continue
		}
		for _, d := range r.Declarations {
			if d.Invalid {
				continue
			}
			if d.Property == "color" || d.Property == "background-color" || d.Property == "background" {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
