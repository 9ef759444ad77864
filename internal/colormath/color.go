// Package colormath implements the color conversions and WCAG contrast math
// the analyzer consumes. It is a pure function library: no state, no I/O.
package colormath

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color value syntaxes recognized in CSS property values.
var (
	hexRe  = regexp.MustCompile(`#[0-9a-fA-F]{3,8}\b`)
	rgbRe  = regexp.MustCompile(`rgba?\(\s*([\d.]+)\s*,\s*([\d.]+)\s*,\s*([\d.]+)\s*(?:,\s*[\d.]+\s*)?\)`)
	hslRe  = regexp.MustCompile(`hsla?\(\s*([\d.]+)\s*,\s*([\d.]+)%\s*,\s*([\d.]+)%\s*(?:,\s*[\d.]+\s*)?\)`)
	wordRe = regexp.MustCompile(`[a-zA-Z]+`)
)

// ToHex normalizes any supported color syntax (hex, rgb(), rgba(), hsl(),
// hsla(), or a CSS color keyword) to lowercase six-digit hex.
func ToHex(value string) (string, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "", fmt.Errorf("empty color value")
	}

	if strings.HasPrefix(value, "#") {
		return normalizeHex(value)
	}

	if m := rgbRe.FindStringSubmatch(value); m != nil {
		r, _ := strconv.ParseFloat(m[1], 64)
		g, _ := strconv.ParseFloat(m[2], 64)
		b, _ := strconv.ParseFloat(m[3], 64)
		c := colorful.Color{R: clamp01(r / 255), G: clamp01(g / 255), B: clamp01(b / 255)}
		return c.Hex(), nil
	}

	if m := hslRe.FindStringSubmatch(value); m != nil {
		h, _ := strconv.ParseFloat(m[1], 64)
		s, _ := strconv.ParseFloat(m[2], 64)
		l, _ := strconv.ParseFloat(m[3], 64)
		return colorful.Hsl(h, s/100, l/100).Clamped().Hex(), nil
	}

	if hex, ok := KeywordHex(value); ok {
		return hex, nil
	}

	return "", fmt.Errorf("unrecognized color value %q", value)
}

// normalizeHex expands short hex forms and drops alpha digits.
func normalizeHex(hex string) (string, error) {
	digits := hex[1:]
	switch len(digits) {
	case 3, 4:
		var sb strings.Builder
		sb.WriteByte('#')
		for i := 0; i < 3; i++ {
			sb.WriteByte(digits[i])
			sb.WriteByte(digits[i])
		}
		digits = sb.String()[1:]
	case 6:
	case 8:
		digits = digits[:6]
	default:
		return "", fmt.Errorf("invalid hex color %q", hex)
	}
	c, err := colorful.Hex("#" + digits)
	if err != nil {
		return "", fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return c.Hex(), nil
}

// HexToRGB converts a hex color to 0-255 channel values.
func HexToRGB(hex string) (r, g, b uint8, err error) {
	normalized, err := normalizeHex(strings.TrimSpace(hex))
	if err != nil {
		return 0, 0, 0, err
	}
	c, _ := colorful.Hex(normalized)
	ri, gi, bi := c.RGB255()
	return ri, gi, bi, nil
}

// RGBToHex converts 0-255 channel values to lowercase hex.
func RGBToHex(r, g, b uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// RelativeLuminance computes WCAG relative luminance for a hex color.
// The linearized sRGB channels come from go-colorful.
func RelativeLuminance(hex string) (float64, error) {
	normalized, err := normalizeHex(strings.TrimSpace(strings.ToLower(hex)))
	if err != nil {
		return 0, err
	}
	c, _ := colorful.Hex(normalized)
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b, nil
}

// ContrastRatio computes the WCAG contrast ratio between two hex colors.
// The result ranges from 1 (identical) to 21 (black on white).
func ContrastRatio(hexA, hexB string) (float64, error) {
	la, err := RelativeLuminance(hexA)
	if err != nil {
		return 0, err
	}
	lb, err := RelativeLuminance(hexB)
	if err != nil {
		return 0, err
	}
	lighter, darker := math.Max(la, lb), math.Min(la, lb)
	return (lighter + 0.05) / (darker + 0.05), nil
}

// Verdicts in a ContrastReport.
const (
	Pass = "Pass"
	Fail = "Fail"
)

// ContrastReport holds pass/fail verdicts for the five WCAG categories.
type ContrastReport struct {
	Ratio      float64
	NormalAA   string
	NormalAAA  string
	LargeAA    string
	LargeAAA   string
	GraphicsUI string
}

// GetColorContrastReport computes the full WCAG verdict set for a foreground
// and background pair.
func GetColorContrastReport(hexA, hexB string) (ContrastReport, error) {
	ratio, err := ContrastRatio(hexA, hexB)
	if err != nil {
		return ContrastReport{}, err
	}
	verdict := func(threshold float64) string {
		if ratio >= threshold {
			return Pass
		}
		return Fail
	}
	return ContrastReport{
		Ratio:      ratio,
		NormalAA:   verdict(4.5),
		NormalAAA:  verdict(7.0),
		LargeAA:    verdict(3.0),
		LargeAAA:   verdict(4.5),
		GraphicsUI: verdict(3.0),
	}, nil
}

// IsGradient reports whether a CSS value is a gradient function.
func IsGradient(value string) bool {
	return strings.Contains(strings.ToLower(value), "gradient")
}

// FindColors extracts every color token from a CSS value, in order of
// appearance: hex codes, rgb()/rgba(), hsl()/hsla(), and color keywords.
func FindColors(value string) []string {
	var colors []string
	taken := make([]bool, len(value))

	mark := func(loc []int) {
		for i := loc[0]; i < loc[1]; i++ {
			taken[i] = true
		}
	}

	type match struct {
		start int
		text  string
	}
	var matches []match

	for _, re := range []*regexp.Regexp{hslRe, rgbRe, hexRe} {
		for _, loc := range re.FindAllStringIndex(value, -1) {
			overlap := false
			for i := loc[0]; i < loc[1]; i++ {
				if taken[i] {
					overlap = true
					break
				}
			}
			if overlap {
				continue
			}
			mark(loc)
			matches = append(matches, match{loc[0], value[loc[0]:loc[1]]})
		}
	}

	for _, loc := range wordRe.FindAllStringIndex(value, -1) {
		if taken[loc[0]] {
			continue
		}
		word := strings.ToLower(value[loc[0]:loc[1]])
		if _, ok := KeywordHex(word); ok {
			matches = append(matches, match{loc[0], word})
		}
	}

	// Restore source order across syntaxes.
	for i := 1; i < len(matches); i++ {
		for j := i; j > 0 && matches[j].start < matches[j-1].start; j-- {
			matches[j], matches[j-1] = matches[j-1], matches[j]
		}
	}
	for _, m := range matches {
		colors = append(colors, m.text)
	}
	return colors
}

// GradientEndColor returns the last color stop of a gradient, which the
// analyzer treats as the effective background behind text. Empty when no
// color token is present.
func GradientEndColor(value string) string {
	colors := FindColors(value)
	if len(colors) == 0 {
		return ""
	}
	return colors[len(colors)-1]
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
