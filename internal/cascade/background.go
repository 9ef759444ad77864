package cascade

import (
	"regexp"

	"go.uber.org/zap"

	"github.com/HundredVisionsGuy/webcode-tk-sub000/internal/colormath"
	"github.com/HundredVisionsGuy/webcode-tk-sub000/internal/css"
	"github.com/HundredVisionsGuy/webcode-tk-sub000/internal/html"
)

// rasterImageRe spots raster image urls inside a background value. SVG is
// deliberately absent: a vector reference doesn't block color analysis the
// way a photo does.
var rasterImageRe = regexp.MustCompile(`(?i)url\([^)]*\.(jpg|jpeg|png|gif|webp|bmp)`)

var urlRe = regexp.MustCompile(`(?i)url\([^)]*\)`)

// ContainsRasterImage reports whether a background value references a raster
// image, which blocks color-based contrast analysis.
func ContainsRasterImage(value string) bool {
	return rasterImageRe.MatchString(value)
}

// ExtractFallbackColorAfterImage pulls the solid color an author wrote after
// a url() reference, e.g. "url(hero.png) #336699" yields "#336699". Returns
// "" when no fallback exists.
func ExtractFallbackColorAfterImage(value string) string {
	remaining := urlRe.ReplaceAllString(value, "")
	colors := colormath.FindColors(remaining)
	if len(colors) == 0 {
		return ""
	}
	return colors[0]
}

// ExtractContrastColor reduces an arbitrary background value to the single
// color a reader effectively sees text against. Raster images yield their
// written fallback color or ""; gradients yield their final color stop;
// anything else yields the first color token found.
func ExtractContrastColor(value string) string {
	if value == "" {
		return ""
	}
	if ContainsRasterImage(value) {
		return ExtractFallbackColorAfterImage(value)
	}
	if colormath.IsGradient(value) {
		return colormath.GradientEndColor(value)
	}
	colors := colormath.FindColors(value)
	if len(colors) == 0 {
		return ""
	}
	return colors[0]
}

// AncestorBackground is the result of walking the parent chain for a usable
// background.
type AncestorBackground struct {
	Value              string
	Source             html.NodeKey // html.NoParent when nothing was found
	ContrastAnalysis   ContrastAnalysis
	Reason             string
	OriginalBackground string

	// Donor provenance carried through so reports can still name the rule.
	Selector      string
	CSSFile       string
	CSSSourceType string
}

// ApplyVisualBackgroundInheritance gives every element without a declared
// background the background a reader actually sees: the nearest ancestor's.
// Backgrounds don't CSS-inherit, so this runs as its own pass after standard
// inheritance, writing source=VisualInheritance at the lowest possible
// specificity so any later author rule still overrides it.
//
// Document order matters: an element whose background derives from an
// ancestor is itself skipped as an anchor when its descendants walk up, so
// the chain always resolves back to an originally-declared background, and
// indeterminate image backgrounds propagate transitively until a declared
// background interrupts them.
func (e *Engine) ApplyVisualBackgroundInheritance(doc html.Document, styles ComputedStyles) {
	for _, node := range doc.Nodes() {
		pm, tracked := styles[node.Key()]
		if !tracked {
			continue
		}
		if e.resolveOwnBackground(pm) {
			continue
		}
		anc := e.findAncestorBackground(node, styles)
		if anc.Source == html.NoParent {
			// Nothing declared anywhere above; the seeded default stands.
			continue
		}
		if anc.ContrastAnalysis == Indeterminate {
			pm["background-color"] = &PropertyValue{
				Source:             SourceVisualInheritance,
				Specificity:        css.Specificity{},
				InheritedFrom:      anc.Source,
				ContrastAnalysis:   Indeterminate,
				Reason:             anc.Reason,
				OriginalBackground: anc.OriginalBackground,
			}
			continue
		}
		value := ExtractContrastColor(anc.Value)
		if value == "" {
			value = anc.Value
		}
		pm["background-color"] = &PropertyValue{
			Value:            value,
			Source:           SourceVisualInheritance,
			Specificity:      css.Specificity{},
			Selector:         anc.Selector,
			CSSFile:          anc.CSSFile,
			CSSSourceType:    anc.CSSSourceType,
			InheritedFrom:    anc.Source,
			ContrastAnalysis: Determinable,
			OriginalBackground: func() string {
				if value != anc.Value {
					return anc.Value
				}
				return ""
			}(),
		}
	}
}

// resolveOwnBackground settles an element's declared background shorthand
// and reports whether the element already has a rule-set background of its
// own (in which case the ancestor walk is skipped).
func (e *Engine) resolveOwnBackground(pm PropertyMap) bool {
	if bgc := pm["background-color"]; bgc != nil && bgc.Source == SourceRule {
		if ContainsRasterImage(bgc.Value) {
			e.markImageBlocked(pm, bgc.Value)
		}
		return true
	}
	bg := pm["background"]
	if bg == nil || bg.Source != SourceRule {
		return false
	}
	if ContainsRasterImage(bg.Value) {
		if fallback := ExtractFallbackColorAfterImage(bg.Value); fallback != "" {
			pm["background-color"] = &PropertyValue{
				Value:              fallback,
				Source:             SourceRule,
				Specificity:        bg.Specificity,
				Selector:           bg.Selector,
				CSSFile:            bg.CSSFile,
				CSSSourceType:      bg.CSSSourceType,
				InheritedFrom:      html.NoParent,
				ContrastAnalysis:   Determinable,
				OriginalBackground: bg.Value,
			}
			return true
		}
		e.markImageBlocked(pm, bg.Value)
		return true
	}
	// Usable shorthand (solid color or gradient); no ancestor walk needed.
	return true
}

func (e *Engine) markImageBlocked(pm PropertyMap, original string) {
	pm["background-color"] = &PropertyValue{
		Source:             SourceRule,
		Specificity:        css.Specificity{},
		InheritedFrom:      html.NoParent,
		ContrastAnalysis:   Indeterminate,
		Reason:             ReasonBackgroundImage,
		OriginalBackground: original,
	}
	e.logger.Debug("background image blocks color analysis",
		zap.String("background", original))
}

// findAncestorBackground walks the DOM parent chain for the nearest
// originally-declared background. Ancestors whose background was itself
// derived through visual inheritance are skipped so the walk never anchors
// on a derived value, and untouched defaults keep the walk going.
func (e *Engine) findAncestorBackground(node html.Node, styles ComputedStyles) AncestorBackground {
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		pm, tracked := styles[parent.Key()]
		if !tracked {
			continue
		}
		for _, property := range []string{"background-color", "background"} {
			pv := pm[property]
			if pv == nil {
				continue
			}
			if pv.Source == SourceVisualInheritance {
				break
			}
			if pv.Source != SourceRule {
				continue
			}
			if pv.ContrastAnalysis == Indeterminate {
				original := pv.OriginalBackground
				if original == "" {
					original = pv.Value
				}
				return AncestorBackground{
					Source:             parent.Key(),
					ContrastAnalysis:   Indeterminate,
					Reason:             ReasonAncestorImage,
					OriginalBackground: original,
				}
			}
			if pv.Value == "" {
				continue
			}
			if ContainsRasterImage(pv.Value) {
				if fallback := ExtractFallbackColorAfterImage(pv.Value); fallback != "" {
					return AncestorBackground{
						Value:              fallback,
						Source:             parent.Key(),
						ContrastAnalysis:   Determinable,
						OriginalBackground: pv.Value,
						Selector:           pv.Selector,
						CSSFile:            pv.CSSFile,
						CSSSourceType:      pv.CSSSourceType,
					}
				}
				return AncestorBackground{
					Source:             parent.Key(),
					ContrastAnalysis:   Indeterminate,
					Reason:             ReasonAncestorImage,
					OriginalBackground: pv.Value,
				}
			}
			return AncestorBackground{
				Value:            pv.Value,
				Source:           parent.Key(),
				ContrastAnalysis: Determinable,
				Selector:         pv.Selector,
				CSSFile:          pv.CSSFile,
				CSSSourceType:    pv.CSSSourceType,
			}
		}
	}
	return AncestorBackground{Source: html.NoParent, ContrastAnalysis: Determinable}
}
