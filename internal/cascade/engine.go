package cascade

import (
	"strings"

	"go.uber.org/zap"

	"github.com/HundredVisionsGuy/webcode-tk-sub000/internal/config"
	"github.com/HundredVisionsGuy/webcode-tk-sub000/internal/css"
	"github.com/HundredVisionsGuy/webcode-tk-sub000/internal/html"
)

// Engine resolves computed styles for one document at a time. It is not safe
// for concurrent use; callers analyzing documents in parallel create one
// engine per document.
type Engine struct {
	cfg      config.CascadeConfig
	logger   *zap.Logger
	vars     *css.VariableRegistry
	warnings []Warning
}

// New returns an engine seeded with the given defaults. A nil logger
// disables logging.
func New(cfg config.CascadeConfig, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:    cfg,
		logger: logger,
		vars:   css.NewVariableRegistry(),
	}
}

// Warnings returns the non-fatal problems gathered so far, in the order they
// were found.
func (e *Engine) Warnings() []Warning {
	return e.warnings
}

// CollectVariables registers the sheet's :root custom properties so later
// var() calls can resolve. Callers collect every sheet before applying any,
// since a var() in sheet one may reference a binding from sheet two.
func (e *Engine) CollectVariables(sheet *css.Stylesheet, sheetIndex int) {
	e.vars.CollectSheet(sheet, sheetIndex)
}

// inlineSpecificity outranks any selector the supported grammar can produce,
// so a style attribute always beats author rules.
var inlineSpecificity = css.Specificity{IDs: 9, Classes: 9, Types: 9}

// ApplySheet runs every ruleset of one stylesheet against the document, in
// source order. Invalid rulesets and unsupported selectors are recorded as
// warnings and skipped; they never abort the sheet.
func (e *Engine) ApplySheet(doc html.Document, sheet *css.Stylesheet, styles ComputedStyles) {
	for i := range sheet.Rulesets {
		rs := &sheet.Rulesets[i]
		if rs.Invalid {
			e.warn(Warning{
				Kind:     "invalid_ruleset",
				Message:  "ruleset could not be parsed and was skipped",
				Selector: rs.Selector,
				CSSFile:  sheet.Href,
			})
			continue
		}
		e.applyRuleset(doc, rs, sheet, styles)
	}
}

func (e *Engine) applyRuleset(doc html.Document, rs *css.Ruleset, sheet *css.Stylesheet, styles ComputedStyles) {
	selector := rs.Selector
	visited := false
	if strings.Contains(selector, ":visited") {
		// :visited can't be queried against a static DOM; match the bare
		// selector and route color into the visited-color slot instead.
		selector = strings.ReplaceAll(selector, ":visited", "")
		visited = true
	}
	if !html.IsSupportedSelector(selector) {
		e.warn(Warning{
			Kind:     "unsupported_selector",
			Message:  "selector uses syntax outside the supported grammar",
			Selector: rs.Selector,
			CSSFile:  sheet.Href,
		})
		return
	}
	elements := doc.FindMatching(selector)
	if len(elements) == 0 {
		return
	}
	// Specificity is scored on the author's original selector, pseudo-class
	// included.
	spec := rs.Specificity()
	for _, el := range elements {
		e.applyRuleTo(el, rs, spec, visited, sheet, styles)
	}
}

func (e *Engine) applyRuleTo(el html.Node, rs *css.Ruleset, spec css.Specificity, visited bool, sheet *css.Stylesheet, styles ComputedStyles) {
	pm, tracked := styles[el.Key()]
	if !tracked {
		// The element renders no text; nothing to resolve on it.
		return
	}
	for _, d := range rs.Declarations {
		if d.Invalid {
			e.warn(Warning{
				Kind:     "invalid_declaration",
				Message:  d.Error,
				Selector: rs.Selector,
				Property: d.Property,
				CSSFile:  sheet.Href,
			})
			continue
		}
		property := d.Property
		if !config.IsContrastRelevant(property) {
			continue
		}
		if visited && property == "color" {
			property = "visited-color"
		}
		value := e.resolveValue(el, property, d.Value, rs.Selector, sheet.Href, styles)
		if value == "" {
			continue
		}
		e.applyValue(pm, property, &PropertyValue{
			Value:            value,
			Source:           SourceRule,
			Specificity:      spec,
			Selector:         rs.Selector,
			CSSFile:          sheet.Href,
			CSSSourceType:    sheet.Type,
			InheritedFrom:    html.NoParent,
			ContrastAnalysis: Determinable,
		})
	}
}

// ApplyInlineStyles applies each element's style attribute after all sheets,
// at a specificity above anything a selector can reach.
func (e *Engine) ApplyInlineStyles(doc html.Document, styles ComputedStyles) {
	for _, node := range doc.Nodes() {
		raw := node.InlineStyle()
		if raw == "" {
			continue
		}
		pm, tracked := styles[node.Key()]
		if !tracked {
			continue
		}
		for _, d := range css.ParseInline(raw) {
			if d.Invalid {
				e.warn(Warning{
					Kind:     "invalid_declaration",
					Message:  d.Error,
					Selector: "style attribute",
					Property: d.Property,
				})
				continue
			}
			if !config.IsContrastRelevant(d.Property) {
				continue
			}
			value := e.resolveValue(node, d.Property, d.Value, "style attribute", "", styles)
			if value == "" {
				continue
			}
			e.applyValue(pm, d.Property, &PropertyValue{
				Value:            value,
				Source:           SourceRule,
				Specificity:      inlineSpecificity,
				Selector:         "style attribute",
				CSSSourceType:    "inline",
				InheritedFrom:    html.NoParent,
				ContrastAnalysis: Determinable,
			})
		}
	}
}

// resolveValue normalizes a declaration value for the style map: var() calls
// are expanded, the initial keyword snaps back to the user-agent default, and
// font sizes are converted to pixels.
func (e *Engine) resolveValue(el html.Node, property, raw, selector, cssFile string, styles ComputedStyles) string {
	value := strings.TrimSpace(raw)
	if strings.Contains(value, "var(") {
		expanded, ok := e.vars.ExpandValue(value)
		if !ok && expanded == "" {
			e.warn(Warning{
				Kind:     "unresolved_variable",
				Message:  "custom property has no :root binding and no fallback",
				Selector: selector,
				Property: property,
				CSSFile:  cssFile,
			})
			return ""
		}
		value = expanded
	}
	if value == "initial" {
		value = e.initialValue(el, property)
	}
	if property == "font-size" {
		value = e.ConvertFontSize(value, el, styles)
	}
	return value
}

// initialValue is what the initial keyword resolves to for each tracked
// property.
func (e *Engine) initialValue(el html.Node, property string) string {
	switch property {
	case "color", "visited-color":
		return e.cfg.DefaultColor
	case "background-color", "background":
		return e.cfg.DefaultBackground
	case "font-size":
		return formatPixels(e.cfg.RootFontSize)
	case "font-weight":
		return "normal"
	case "opacity":
		return "1"
	case "visibility":
		return "visible"
	case "display":
		return displayInitial(el.TagName())
	}
	return ""
}

func displayInitial(tag string) string {
	switch tag {
	case "span", "a", "b", "strong", "em", "i", "small", "code":
		return "inline"
	default:
		return "block"
	}
}

// applyValue settles a single property conflict. A tie in specificity goes
// to the newcomer, which is how source order wins; user-agent defaults lose
// to any author rule regardless of specificity.
func (e *Engine) applyValue(pm PropertyMap, property string, next *PropertyValue) {
	current := pm[property]
	switch {
	case current == nil:
		pm[property] = next
	case current.Source != SourceRule:
		pm[property] = next
	case next.Specificity.Compare(current.Specificity) >= 0:
		pm[property] = next
	default:
		e.logger.Debug("rule lost cascade",
			zap.String("property", property),
			zap.String("selector", next.Selector),
			zap.String("winner", current.Selector))
	}
}

func (e *Engine) warn(w Warning) {
	e.warnings = append(e.warnings, w)
	e.logger.Debug("cascade warning",
		zap.String("kind", w.Kind),
		zap.String("selector", w.Selector),
		zap.String("message", w.Message))
}
