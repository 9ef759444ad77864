package config

// CascadeConfig holds the browser-default constants the cascade engine starts
// from, plus the WCAG thresholds the contrast analyzer judges against.
// Passing the config explicitly (instead of package-level globals) keeps the
// engine deterministic under test and lets callers model non-default user
// agents.
type CascadeConfig struct {
	// Global browser defaults applied before any author CSS.
	DefaultColor      string // text color for every element
	DefaultBackground string // page background
	LinkColor         string // unvisited <a>
	LinkVisitedColor  string // visited <a>

	// RootFontSize is the font size of the root element in pixels. rem units
	// always resolve against this value, never against an ancestor.
	RootFontSize float64

	// HeadingFontSizes maps h1..h6 to their default pixel sizes.
	HeadingFontSizes map[string]float64

	// BoldByDefault lists tags whose default font-weight is bold.
	BoldByDefault []string

	// WCAG contrast ratio thresholds.
	WCAGAANormal  float64
	WCAGAALarge   float64
	WCAGAAANormal float64
	WCAGAAALarge  float64

	// Large-text size boundaries in pixels. Text at or above these sizes is
	// judged against the large-text thresholds.
	LargeTextSizePx     float64
	LargeTextBoldSizePx float64
}

// Default returns the standard browser-default configuration.
func Default() CascadeConfig {
	return CascadeConfig{
		DefaultColor:      "#000000",
		DefaultBackground: "#ffffff",
		LinkColor:         "#0000EE",
		LinkVisitedColor:  "#551A8B",
		RootFontSize:      16,
		HeadingFontSizes: map[string]float64{
			"h1": 32,
			"h2": 24,
			"h3": 18.72,
			"h4": 16,
			"h5": 13.28,
			"h6": 10.72,
		},
		BoldByDefault: []string{"strong", "b", "h1", "h2", "h3", "h4", "h5", "h6"},

		WCAGAANormal:  4.5,
		WCAGAALarge:   3.0,
		WCAGAAANormal: 7.0,
		WCAGAAALarge:  4.5,

		LargeTextSizePx:     24.0,
		LargeTextBoldSizePx: 18.66,
	}
}

// IsBoldByDefault reports whether a tag renders bold without author CSS.
func (c CascadeConfig) IsBoldByDefault(tag string) bool {
	for _, t := range c.BoldByDefault {
		if t == tag {
			return true
		}
	}
	return false
}

// ContrastRelevantProperties is the set of CSS properties the engine tracks.
// Declarations outside this set never enter the computed style map.
var ContrastRelevantProperties = map[string]bool{
	"color":            true,
	"background-color": true,
	"background":       true,
	"font-size":        true,
	"font-weight":      true,
	"opacity":          true,
	"visibility":       true,
	"display":          true,
}

// IsContrastRelevant reports whether the engine tracks the given property.
func IsContrastRelevant(property string) bool {
	return ContrastRelevantProperties[property]
}
