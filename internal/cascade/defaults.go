package cascade

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/HundredVisionsGuy/webcode-tk-sub000/internal/css"
	"github.com/HundredVisionsGuy/webcode-tk-sub000/internal/html"
)

// ApplyBrowserDefaults seeds a fresh style table with user-agent defaults
// for every element that renders text, directly or through a descendant.
// Elements with no renderable text anywhere below them (br, img, empty
// spacer divs) are left out of the table entirely, so the analysis only
// ever reports on elements a reader can see text in. Container elements
// with text-bearing descendants are kept because they serve as inheritance
// and background anchors.
func (e *Engine) ApplyBrowserDefaults(doc html.Document) ComputedStyles {
	styles := make(ComputedStyles)
	for _, node := range doc.Nodes() {
		if !rendersText(node) {
			continue
		}
		styles[node.Key()] = e.defaultProperties(node)
	}
	e.logger.Debug("applied browser defaults", zap.Int("elements", len(styles)))
	return styles
}

// rendersText reports whether node has non-whitespace direct text or any
// descendant that does.
func rendersText(node html.Node) bool {
	if node.DirectText() != "" {
		return true
	}
	for _, child := range node.Children() {
		if rendersText(child) {
			return true
		}
	}
	return false
}

func (e *Engine) defaultProperties(node html.Node) PropertyMap {
	tag := node.TagName()
	pm := PropertyMap{
		"color":            e.defaultValue(e.cfg.DefaultColor),
		"background-color": e.defaultValue(e.cfg.DefaultBackground),
		"font-size":        e.defaultValue(formatPixels(e.cfg.RootFontSize)),
		"font-weight":      e.defaultValue("normal"),
	}
	// Tag-specific defaults act like UA rules: inheritance won't displace
	// them the way it displaces the global defaults above.
	if size, ok := e.cfg.HeadingFontSizes[tag]; ok {
		pm["font-size"] = e.elementDefault(formatPixels(size))
	}
	if e.cfg.IsBoldByDefault(tag) {
		pm["font-weight"] = e.elementDefault("bold")
	}
	if tag == "a" {
		pm["color"] = e.elementDefault(e.cfg.LinkColor)
		pm["visited-color"] = e.elementDefault(e.cfg.LinkVisitedColor)
	}
	return pm
}

func (e *Engine) defaultValue(value string) *PropertyValue {
	return &PropertyValue{
		Value:            value,
		Source:           SourceDefault,
		Specificity:      css.Specificity{},
		InheritedFrom:    html.NoParent,
		ContrastAnalysis: Determinable,
	}
}

func (e *Engine) elementDefault(value string) *PropertyValue {
	pv := e.defaultValue(value)
	pv.ElementDefault = true
	return pv
}

// formatPixels renders a pixel count the way a stylesheet author would
// write it: no trailing zeros, px suffix.
func formatPixels(px float64) string {
	return strconv.FormatFloat(px, 'f', -1, 64) + "px"
}
