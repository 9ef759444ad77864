package cascade

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/HundredVisionsGuy/webcode-tk-sub000/internal/html"
)

// Absolute size keywords mapped to typical user-agent pixel values (medium
// being the 16px root size).
var absoluteKeywordSizes = map[string]float64{
	"xx-small":  9,
	"x-small":   10,
	"small":     13,
	"medium":    16,
	"large":     18,
	"x-large":   24,
	"xx-large":  32,
	"xxx-large": 48,
}

// relativeKeywordRatio scales the parent size for larger/smaller.
const relativeKeywordRatio = 1.2

// Absolute length units and their px-per-unit factors.
var absoluteUnitFactors = map[string]float64{
	"px": 1,
	"pt": 96.0 / 72.0,
	"pc": 16,
	"in": 96,
	"cm": 96.0 / 2.54,
	"mm": 96.0 / 25.4,
	"q":  96.0 / 101.6,
}

var fontSizeRe = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*(px|pt|pc|in|cm|mm|q|em|rem|%)?$`)

// ClassifyFontUnit buckets a raw font-size value by how it resolves:
// "absolute" (fixed lengths), "relative" (em, rem, %), "absolute_keyword"
// (small, large, ...), "relative_keyword" (larger, smaller), or "unknown".
func ClassifyFontUnit(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "larger" || value == "smaller" {
		return "relative_keyword"
	}
	if _, ok := absoluteKeywordSizes[value]; ok {
		return "absolute_keyword"
	}
	m := fontSizeRe.FindStringSubmatch(value)
	if m == nil {
		return "unknown"
	}
	unit := strings.ToLower(m[2])
	switch unit {
	case "em", "rem", "%":
		return "relative"
	case "":
		return "unknown"
	default:
		return "absolute"
	}
}

// ConvertFontSize resolves any font-size value to canonical "<float>px"
// form, one decimal place. Relative units scale against the nearest
// ancestor's already-resolved size; rem always scales against the root size.
// Unparseable input falls back to the root size rather than failing, since a
// wrong-but-reasonable size only softens the large-text threshold check.
func (e *Engine) ConvertFontSize(value string, el html.Node, styles ComputedStyles) string {
	value = strings.ToLower(strings.TrimSpace(value))

	if px, ok := absoluteKeywordSizes[value]; ok {
		return formatPx(px)
	}
	if value == "larger" {
		return formatPx(e.parentFontSize(el, styles) * relativeKeywordRatio)
	}
	if value == "smaller" {
		return formatPx(e.parentFontSize(el, styles) / relativeKeywordRatio)
	}

	m := fontSizeRe.FindStringSubmatch(value)
	if m == nil {
		return formatPx(e.cfg.RootFontSize)
	}
	number, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return formatPx(e.cfg.RootFontSize)
	}
	switch unit := strings.ToLower(m[2]); unit {
	case "em":
		return formatPx(number * e.parentFontSize(el, styles))
	case "%":
		return formatPx(number / 100 * e.parentFontSize(el, styles))
	case "rem":
		return formatPx(number * e.cfg.RootFontSize)
	case "":
		// Bare numbers aren't valid CSS but show up in student code;
		// treat them as pixels.
		return formatPx(number)
	default:
		return formatPx(number * absoluteUnitFactors[unit])
	}
}

// parentFontSize walks the DOM parent chain for the nearest ancestor with a
// resolved font-size, falling back to the root size at the top of the tree.
func (e *Engine) parentFontSize(el html.Node, styles ComputedStyles) float64 {
	if el == nil {
		return e.cfg.RootFontSize
	}
	for parent := el.Parent(); parent != nil; parent = parent.Parent() {
		pm, tracked := styles[parent.Key()]
		if !tracked {
			continue
		}
		pv := pm["font-size"]
		if pv == nil || pv.Value == "" {
			continue
		}
		if px, err := ParsePixels(pv.Value); err == nil {
			return px
		}
	}
	return e.cfg.RootFontSize
}

// ParsePixels reads a float out of a "<number>px" string.
func ParsePixels(value string) (float64, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(value), "px")
	px, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("cascade: not a pixel value %q: %w", value, err)
	}
	return px, nil
}

func formatPx(px float64) string {
	return fmt.Sprintf("%.1fpx", px)
}
