// Package contrast analyzes WCAG color contrast for static HTML/CSS
// projects. It resolves each document's CSS cascade (defaults, author rules,
// inheritance, visual background propagation) and judges every text-bearing
// element's text/background pair against the WCAG AA and AAA thresholds.
package contrast

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/HundredVisionsGuy/webcode-tk-sub000/internal/cascade"
	"github.com/HundredVisionsGuy/webcode-tk-sub000/internal/colormath"
	"github.com/HundredVisionsGuy/webcode-tk-sub000/internal/config"
	"github.com/HundredVisionsGuy/webcode-tk-sub000/internal/css"
	"github.com/HundredVisionsGuy/webcode-tk-sub000/internal/html"
)

// Analyzer runs contrast analysis over whole projects or single documents.
type Analyzer struct {
	cfg        config.CascadeConfig
	logger     *zap.Logger
	cssParser  *css.Parser
	htmlParser html.Parser
}

// New creates an analyzer with the given browser-default configuration. A
// nil logger disables logging.
func New(cfg config.CascadeConfig, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		cfg:        cfg,
		logger:     logger,
		cssParser:  css.NewParser(),
		htmlParser: html.NewParser(logger),
	}
}

// NewWithDefaults creates an analyzer with standard browser defaults.
func NewWithDefaults() *Analyzer {
	return New(config.Default(), nil)
}

// AnalyzeContrast analyzes every HTML document under projectPath with
// default configuration.
func AnalyzeContrast(projectPath string) ([]Result, error) {
	return NewWithDefaults().AnalyzeProject(projectPath)
}

// AnalyzeProject walks projectPath for .html files and returns one result
// per text-bearing element per document, in deterministic order. Missing
// referenced stylesheets and unreadable HTML files fail the run; malformed
// CSS inside a readable sheet degrades to skip-and-continue.
func (a *Analyzer) AnalyzeProject(projectPath string) ([]Result, error) {
	files, err := findHTMLFiles(projectPath)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("contrast: no HTML files under %s", projectPath)
	}

	sheetCache := make(map[string]*css.Stylesheet)
	var results []Result
	for _, file := range files {
		doc, err := a.htmlParser.ParseFile(file)
		if err != nil {
			return nil, err
		}
		sheets, err := a.documentSheets(doc, file, projectPath, sheetCache)
		if err != nil {
			return nil, err
		}
		results = append(results, a.analyzeDocument(file, doc, sheets)...)
	}
	a.logger.Info("project analyzed",
		zap.String("project", projectPath),
		zap.Int("documents", len(files)),
		zap.Int("results", len(results)))
	return results, nil
}

// AnalyzeDocument analyzes a single already-parsed document against the
// given stylesheets, in the order provided.
func (a *Analyzer) AnalyzeDocument(filename string, doc html.Document, sheets []*css.Stylesheet) []Result {
	return a.analyzeDocument(filename, doc, sheets)
}

func (a *Analyzer) analyzeDocument(filename string, doc html.Document, sheets []*css.Stylesheet) []Result {
	if len(sheets) == 0 && !HasAnyCSSSources(doc) {
		a.logger.Warn("document has no CSS sources", zap.String("file", filename))
		return []Result{{
			Filename:         filename,
			ContrastAnalysis: AnalysisWarning,
			WarningType:      "no_css_sources",
			WarningMessage: fmt.Sprintf(
				"%s has no CSS sources: contrast reflects bare browser defaults", filename),
		}}
	}

	engine := cascade.New(a.cfg, a.logger)
	styles := engine.ApplyBrowserDefaults(doc)

	// Variables first: a var() in the first sheet may resolve from a later
	// one.
	for i, sheet := range sheets {
		engine.CollectVariables(sheet, i)
	}
	for _, sheet := range sheets {
		engine.ApplySheet(doc, sheet, styles)
	}
	engine.ApplyInlineStyles(doc, styles)
	engine.ApplyCSSInheritance(doc, styles)
	engine.ApplyVisualBackgroundInheritance(doc, styles)

	for _, w := range engine.Warnings() {
		a.logger.Warn("cascade warning",
			zap.String("file", filename),
			zap.String("kind", w.Kind),
			zap.String("selector", w.Selector),
			zap.String("message", w.Message))
	}

	var results []Result
	for _, node := range doc.Nodes() {
		text := node.DirectText()
		if text == "" {
			continue
		}
		if _, tracked := styles[node.Key()]; !tracked {
			continue
		}
		results = append(results, a.analyzeElement(filename, doc, node, text, styles))
	}
	return results
}

// analyzeElement turns one element's resolved styles into a contrast
// verdict.
func (a *Analyzer) analyzeElement(filename string, doc html.Document, node html.Node, text string, styles cascade.ComputedStyles) Result {
	key := node.Key()
	colorPV := styles.Get(key, "color")
	bgPV := styles.Get(key, "background-color")
	if bgPV == nil {
		bgPV = styles.Get(key, "background")
	}

	result := Result{
		Filename:              filename,
		ElementTag:            node.TagName(),
		TextContent:           text,
		TextColorSource:       extractPropertySource(colorPV, doc),
		BackgroundColorSource: extractPropertySource(bgPV, doc),
		ContrastAnalysis:      AnalysisDeterminable,
	}
	a.fillTypography(&result, node, styles)

	if colorPV != nil {
		result.TextColor = colorPV.Value
	}
	if bgPV != nil {
		result.BackgroundColor = bgPV.Value
		result.OriginalBackground = bgPV.OriginalBackground
	}

	if pv := firstIndeterminate(colorPV, bgPV); pv != nil {
		result.ContrastAnalysis = AnalysisIndeterminate
		result.Reason = pv.Reason
		if pv.OriginalBackground != "" {
			result.OriginalBackground = pv.OriginalBackground
		}
		return result
	}

	textHex, bgHex, err := a.resolveHexPair(colorPV, bgPV)
	if err != nil {
		result.ContrastAnalysis = AnalysisIndeterminate
		result.Reason = "unresolvable_color_value"
		a.logger.Debug("color pair could not be resolved",
			zap.String("file", filename),
			zap.String("tag", node.TagName()),
			zap.Error(err))
		return result
	}

	ratio, err := colormath.ContrastRatio(textHex, bgHex)
	if err != nil {
		result.ContrastAnalysis = AnalysisIndeterminate
		result.Reason = "unresolvable_color_value"
		return result
	}
	result.ContrastRatio = ratio
	if result.IsLargeText {
		result.WCAGAAPass = ratio >= a.cfg.WCAGAALarge
		result.WCAGAAAPass = ratio >= a.cfg.WCAGAAALarge
	} else {
		result.WCAGAAPass = ratio >= a.cfg.WCAGAANormal
		result.WCAGAAAPass = ratio >= a.cfg.WCAGAAANormal
	}

	if node.TagName() == "a" {
		a.fillVisitedContrast(&result, styles.Get(key, "visited-color"), bgHex)
	}
	return result
}

// fillTypography records the resolved font size and weight, and whether the
// element qualifies as WCAG large text (which relaxes the ratio thresholds).
func (a *Analyzer) fillTypography(result *Result, node html.Node, styles cascade.ComputedStyles) {
	key := node.Key()
	if pv := styles.Get(key, "font-weight"); pv != nil {
		result.Bold = pv.Value == "bold" || pv.Value == "bolder" ||
			pv.Value == "700" || pv.Value == "800" || pv.Value == "900"
	}
	pv := styles.Get(key, "font-size")
	if pv == nil {
		return
	}
	result.FontSize = pv.Value
	px, err := cascade.ParsePixels(pv.Value)
	if err != nil {
		return
	}
	if result.Bold {
		result.IsLargeText = px >= a.cfg.LargeTextBoldSizePx
	} else {
		result.IsLargeText = px >= a.cfg.LargeTextSizePx
	}
}

// fillVisitedContrast judges an anchor's visited color against the same
// background, at the normal-text AA threshold.
func (a *Analyzer) fillVisitedContrast(result *Result, visitedPV *cascade.PropertyValue, bgHex string) {
	if visitedPV == nil || visitedPV.Value == "" {
		return
	}
	visitedHex, err := colormath.ToHex(visitedPV.Value)
	if err != nil {
		return
	}
	ratio, err := colormath.ContrastRatio(visitedHex, bgHex)
	if err != nil {
		return
	}
	result.VisitedColor = visitedPV.Value
	result.VisitedContrastRatio = ratio
	threshold := a.cfg.WCAGAANormal
	if result.IsLargeText {
		threshold = a.cfg.WCAGAALarge
	}
	result.VisitedAAPass = ratio >= threshold
}

// resolveHexPair reduces the resolved text and background values to two hex
// colors the ratio formula accepts. Backgrounds may still be shorthand at
// this point (a gradient, or a solid color buried in "background" syntax);
// the last gradient stop or first color token is what a reader effectively
// sees.
func (a *Analyzer) resolveHexPair(colorPV, bgPV *cascade.PropertyValue) (string, string, error) {
	textValue := a.cfg.DefaultColor
	if colorPV != nil && colorPV.Value != "" {
		textValue = colorPV.Value
	}
	textHex, err := colormath.ToHex(textValue)
	if err != nil {
		return "", "", fmt.Errorf("text color: %w", err)
	}

	bgValue := a.cfg.DefaultBackground
	if bgPV != nil && bgPV.Value != "" {
		bgValue = bgPV.Value
	}
	if extracted := cascade.ExtractContrastColor(bgValue); extracted != "" {
		bgValue = extracted
	}
	bgHex, err := colormath.ToHex(bgValue)
	if err != nil {
		return "", "", fmt.Errorf("background color: %w", err)
	}
	return textHex, bgHex, nil
}

func firstIndeterminate(pvs ...*cascade.PropertyValue) *cascade.PropertyValue {
	for _, pv := range pvs {
		if pv != nil && pv.ContrastAnalysis == cascade.Indeterminate {
			return pv
		}
	}
	return nil
}
