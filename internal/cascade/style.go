// Package cascade resolves the CSS cascade for contrast analysis: browser
// defaults, author rules in source order, specificity conflicts, inheritance,
// CSS variables, and the visual propagation of backgrounds that don't
// CSS-inherit but are visually present behind descendants.
package cascade

import (
	"github.com/HundredVisionsGuy/webcode-tk-sub000/internal/css"
	"github.com/HundredVisionsGuy/webcode-tk-sub000/internal/html"
)

// StyleSource identifies where a property value came from.
type StyleSource string

const (
	// SourceDefault is a user-agent default assigned before any author CSS.
	SourceDefault StyleSource = "default"
	// SourceRule is an author rule that matched and won the cascade.
	SourceRule StyleSource = "rule"
	// SourceInheritance is a value copied down from an ancestor through
	// standard CSS inheritance.
	SourceInheritance StyleSource = "inheritance"
	// SourceVisualInheritance is a background propagated from the nearest
	// ancestor with a determinable background. Backgrounds don't CSS-inherit;
	// this source exists only for contrast analysis.
	SourceVisualInheritance StyleSource = "visual_inheritance"
)

// ContrastAnalysis states whether a property value can feed the contrast
// math.
type ContrastAnalysis string

const (
	// Determinable values resolve to a single usable color.
	Determinable ContrastAnalysis = "determinable"
	// Indeterminate values cannot be resolved (e.g. raster image
	// backgrounds); the Reason field says why.
	Indeterminate ContrastAnalysis = "indeterminate"
)

// Reasons attached to indeterminate values.
const (
	ReasonBackgroundImage = "background_image_blocks_color_analysis"
	ReasonAncestorImage   = "ancestor_has_background_image"
)

// PropertyValue is the resolved state of one CSS property on one element,
// with full provenance so a reviewer can see why a value is what it is.
type PropertyValue struct {
	// Value is the winning value. Empty with ContrastAnalysis ==
	// Indeterminate means no usable color exists; Reason carries the cause.
	Value string

	Source      StyleSource
	Specificity css.Specificity

	// ElementDefault marks a user-agent default specific to the element's
	// tag (link colors, heading sizes, bold weights). Like real UA rules,
	// these hold their ground against inherited ancestor values; only the
	// global defaults yield to inheritance.
	ElementDefault bool

	// Rule provenance. Selector and CSSFile persist through inheritance so
	// the reporting layer can still point at the originating rule.
	Selector      string
	CSSFile       string
	CSSSourceType string // "file" or "tag"

	// InheritedFrom names the donor element for inheritance and visual
	// inheritance; html.NoParent otherwise.
	InheritedFrom html.NodeKey

	ContrastAnalysis ContrastAnalysis
	Reason           string

	// OriginalBackground keeps the raw background value when the usable
	// color was derived (gradient endpoint, image fallback) or blocked.
	OriginalBackground string
}

// Inherited reports whether the value was donated by an ancestor.
func (pv *PropertyValue) Inherited() bool {
	return pv.InheritedFrom != html.NoParent
}

// PropertyMap holds the resolved properties of a single element.
type PropertyMap map[string]*PropertyValue

// ComputedStyles is the per-document style side-table, keyed by stable
// element identity. The DOM itself is never mutated.
type ComputedStyles map[html.NodeKey]PropertyMap

// Get returns the resolved value of a property on an element, or nil when
// the element isn't tracked or never received the property.
func (cs ComputedStyles) Get(key html.NodeKey, property string) *PropertyValue {
	pm, ok := cs[key]
	if !ok {
		return nil
	}
	return pm[property]
}

// Warning is a structured, non-fatal problem found during cascade
// resolution. Warnings replace side-channel debug output: they ride along
// with the analysis results.
type Warning struct {
	Kind     string // e.g. "unsupported_selector", "invalid_declaration"
	Message  string
	Selector string
	Property string
	CSSFile  string
}
