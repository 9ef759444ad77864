package cascade

import (
	"github.com/HundredVisionsGuy/webcode-tk-sub000/internal/html"
)

// inheritedProperties are the tracked properties that flow from parent to
// child through standard CSS inheritance. Backgrounds deliberately aren't
// here; they get the visual propagation pass instead.
var inheritedProperties = []string{"color", "font-size", "font-weight"}

// ApplyCSSInheritance fills inheritance gaps after every rule has been
// applied. For each element whose property wasn't set by a rule, the nearest
// tracked ancestor with any value for that property donates it, keeping the
// donor's rule provenance so reports can trace the value to its origin.
// Inheritance only ever fills gaps; a value an element won through the
// cascade is never replaced.
func (e *Engine) ApplyCSSInheritance(doc html.Document, styles ComputedStyles) {
	// Document order guarantees ancestors settle before descendants, so a
	// chain of gaps resolves in one pass.
	for _, node := range doc.Nodes() {
		pm, tracked := styles[node.Key()]
		if !tracked {
			continue
		}
		for _, property := range inheritedProperties {
			if current := pm[property]; current != nil &&
				(current.Source == SourceRule || current.ElementDefault) {
				continue
			}
			donor, donorKey, ok := findAncestorValue(node, property, styles)
			if !ok {
				continue
			}
			pm[property] = &PropertyValue{
				Value:            donor.Value,
				Source:           SourceInheritance,
				Specificity:      donor.Specificity,
				Selector:         donor.Selector,
				CSSFile:          donor.CSSFile,
				CSSSourceType:    donor.CSSSourceType,
				InheritedFrom:    donorKey,
				ContrastAnalysis: donor.ContrastAnalysis,
				Reason:           donor.Reason,
			}
		}
	}
}

// findAncestorValue walks up the parent chain and returns the first tracked
// ancestor's value for the property, together with the ancestor's key.
func findAncestorValue(node html.Node, property string, styles ComputedStyles) (*PropertyValue, html.NodeKey, bool) {
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		pm, tracked := styles[parent.Key()]
		if !tracked {
			continue
		}
		if pv := pm[property]; pv != nil {
			return pv, parent.Key(), true
		}
	}
	return nil, html.NoParent, false
}
