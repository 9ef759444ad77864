package css

import (
	"regexp"
	"strings"
)

// VariableBinding is one :root-scoped custom property declaration. A name can
// be bound several times across a document's stylesheets; resolution picks by
// specificity and then by latest sheet.
type VariableBinding struct {
	Value       string
	Selector    string
	Specificity Specificity
	SheetIndex  int // position of the defining stylesheet in source order
}

// VariableRegistry collects CSS custom properties (--foo) per document.
type VariableRegistry struct {
	bindings map[string][]VariableBinding
}

// NewVariableRegistry returns an empty registry.
func NewVariableRegistry() *VariableRegistry {
	return &VariableRegistry{bindings: make(map[string][]VariableBinding)}
}

// CollectSheet registers every custom property declared at :root scope in the
// sheet. sheetIndex is the sheet's position in the document's source order.
func (v *VariableRegistry) CollectSheet(sheet *Stylesheet, sheetIndex int) {
	for i := range sheet.Rulesets {
		rs := &sheet.Rulesets[i]
		if rs.Invalid || !isRootScoped(rs.Selector) {
			continue
		}
		for _, d := range rs.Declarations {
			if d.Invalid || !strings.HasPrefix(d.Property, "--") {
				continue
			}
			v.bindings[d.Property] = append(v.bindings[d.Property], VariableBinding{
				Value:       d.Value,
				Selector:    rs.Selector,
				Specificity: rs.Specificity(),
				SheetIndex:  sheetIndex,
			})
		}
	}
}

func isRootScoped(selector string) bool {
	for _, part := range strings.Split(selector, ",") {
		if strings.TrimSpace(part) == ":root" {
			return true
		}
	}
	return false
}

// Resolve looks up a custom property by exact name. When several bindings
// exist, the highest specificity wins; at equal specificity the binding from
// the latest-loaded sheet wins. The second result reports whether the name
// was found; callers fall back to the var() fallback text when it wasn't.
func (v *VariableRegistry) Resolve(name string) (string, bool) {
	entries := v.bindings[name]
	if len(entries) == 0 {
		return "", false
	}
	best := entries[0]
	for _, e := range entries[1:] {
		switch e.Specificity.Compare(best.Specificity) {
		case 1:
			best = e
		case 0:
			if e.SheetIndex >= best.SheetIndex {
				best = e
			}
		}
	}
	return best.Value, true
}

// varCallRe matches var(--name) and var(--name, fallback). The fallback may
// itself contain parentheses (e.g. rgb(...)), so it runs to the last closing
// paren of the call.
var varCallRe = regexp.MustCompile(`var\(\s*(--[\w-]+)\s*(?:,\s*([^)]*(?:\([^)]*\)[^)]*)*))?\)`)

// ExpandValue substitutes every var() call in a raw property value. An
// unresolvable name with a fallback becomes the literal fallback text; with
// no fallback the call collapses to the empty string. The bool reports
// whether every call resolved from the registry.
func (v *VariableRegistry) ExpandValue(raw string) (string, bool) {
	allResolved := true
	expanded := varCallRe.ReplaceAllStringFunc(raw, func(call string) string {
		groups := varCallRe.FindStringSubmatch(call)
		name, fallback := groups[1], groups[2]
		if value, ok := v.Resolve(name); ok {
			return value
		}
		allResolved = false
		return strings.TrimSpace(fallback)
	})
	return strings.TrimSpace(expanded), allResolved
}
