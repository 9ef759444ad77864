package contrast

import (
	"github.com/HundredVisionsGuy/webcode-tk-sub000/internal/cascade"
	"github.com/HundredVisionsGuy/webcode-tk-sub000/internal/html"
)

// Analysis outcomes carried on every Result.
const (
	AnalysisDeterminable  = "determinable"
	AnalysisIndeterminate = "indeterminate"
	AnalysisWarning       = "warning"
)

// PropertySource describes where a resolved color came from, in terms a
// report reader can act on.
type PropertySource struct {
	// SourceType is one of css_rule, browser_default, inherited,
	// visual_inheritance, or missing.
	SourceType    string `json:"source_type"`
	CSSFile       string `json:"css_file,omitempty"`
	Selector      string `json:"selector,omitempty"`
	InheritedFrom string `json:"inherited_from,omitempty"` // donor element's tag
}

// Result is one contrast verdict for one text-bearing element, or a
// document-level warning when the page has no CSS sources at all.
type Result struct {
	Filename    string `json:"filename"`
	ElementTag  string `json:"element_tag,omitempty"`
	TextContent string `json:"text_content,omitempty"`

	TextColor             string         `json:"text_color,omitempty"`
	TextColorSource       PropertySource `json:"text_color_source,omitempty"`
	BackgroundColor       string         `json:"background_color,omitempty"`
	BackgroundColorSource PropertySource `json:"background_color_source,omitempty"`
	OriginalBackground    string         `json:"original_background,omitempty"`

	FontSize    string `json:"font_size,omitempty"`
	Bold        bool   `json:"bold,omitempty"`
	IsLargeText bool   `json:"is_large_text,omitempty"`

	ContrastRatio float64 `json:"contrast_ratio,omitempty"`
	WCAGAAPass    bool    `json:"wcag_aa_pass"`
	WCAGAAAPass   bool    `json:"wcag_aaa_pass"`

	// Visited-link extras, present only on anchors.
	VisitedColor         string  `json:"visited_color,omitempty"`
	VisitedContrastRatio float64 `json:"visited_contrast_ratio,omitempty"`
	VisitedAAPass        bool    `json:"visited_aa_pass,omitempty"`

	// ContrastAnalysis is determinable, indeterminate, or warning.
	ContrastAnalysis string `json:"contrast_analysis"`
	Reason           string `json:"reason,omitempty"`

	WarningType    string `json:"warning_type,omitempty"`
	WarningMessage string `json:"warning_message,omitempty"`
}

// Passed reports whether the element cleared the requested WCAG level
// ("aa" or "aaa"). Warnings and indeterminate outcomes count as not passed
// so gating callers treat them conservatively.
func (r Result) Passed(level string) bool {
	if r.ContrastAnalysis != AnalysisDeterminable {
		return false
	}
	if level == "aaa" {
		return r.WCAGAAAPass
	}
	return r.WCAGAAPass
}

// extractPropertySource flattens a resolved property's provenance into the
// report form. A nil property means no value was ever assigned.
func extractPropertySource(pv *cascade.PropertyValue, doc html.Document) PropertySource {
	if pv == nil {
		return PropertySource{SourceType: "missing"}
	}
	donorTag := ""
	if pv.InheritedFrom != html.NoParent {
		if donor, ok := doc.NodeByKey(pv.InheritedFrom); ok {
			donorTag = donor.TagName()
		}
	}
	switch pv.Source {
	case cascade.SourceRule:
		return PropertySource{
			SourceType: "css_rule",
			CSSFile:    pv.CSSFile,
			Selector:   pv.Selector,
		}
	case cascade.SourceInheritance:
		src := PropertySource{
			SourceType:    "inherited",
			CSSFile:       pv.CSSFile,
			Selector:      pv.Selector,
			InheritedFrom: donorTag,
		}
		if src.Selector == "" {
			src.Selector = "inherited"
		}
		return src
	case cascade.SourceVisualInheritance:
		return PropertySource{
			SourceType:    "visual_inheritance",
			CSSFile:       "visual_cascade",
			Selector:      "ancestor_background",
			InheritedFrom: donorTag,
		}
	default:
		return PropertySource{
			SourceType: "browser_default",
			CSSFile:    "user_agent_stylesheet",
			Selector:   "default",
		}
	}
}
