package contrast

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HundredVisionsGuy/webcode-tk-sub000/internal/cascade"
	"github.com/HundredVisionsGuy/webcode-tk-sub000/internal/html"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		writeFile(t, filepath.Join(dir, name), content)
	}
	return dir
}

func TestExtractPropertySource(t *testing.T) {
	doc, err := html.NewParser(nil).Parse(`<body><div><p>hi</p></div></body>`)
	require.NoError(t, err)
	divKey := doc.FindMatching("div")[0].Key()

	assert.Equal(t, PropertySource{SourceType: "missing"}, extractPropertySource(nil, doc))

	src := extractPropertySource(&cascade.PropertyValue{
		Source: cascade.SourceRule, Selector: "p", CSSFile: "styles.css",
		InheritedFrom: html.NoParent,
	}, doc)
	assert.Equal(t, PropertySource{
		SourceType: "css_rule", CSSFile: "styles.css", Selector: "p",
	}, src)

	src = extractPropertySource(&cascade.PropertyValue{
		Source: cascade.SourceDefault, InheritedFrom: html.NoParent,
	}, doc)
	assert.Equal(t, PropertySource{
		SourceType: "browser_default", CSSFile: "user_agent_stylesheet", Selector: "default",
	}, src)

	src = extractPropertySource(&cascade.PropertyValue{
		Source: cascade.SourceInheritance, Selector: "div", CSSFile: "styles.css",
		InheritedFrom: divKey,
	}, doc)
	assert.Equal(t, PropertySource{
		SourceType: "inherited", CSSFile: "styles.css", Selector: "div",
		InheritedFrom: "div",
	}, src)

	// Inheritance from a default has no selector to point at.
	src = extractPropertySource(&cascade.PropertyValue{
		Source: cascade.SourceInheritance, InheritedFrom: divKey,
	}, doc)
	assert.Equal(t, "inherited", src.Selector)

	src = extractPropertySource(&cascade.PropertyValue{
		Source: cascade.SourceVisualInheritance, InheritedFrom: divKey,
	}, doc)
	assert.Equal(t, PropertySource{
		SourceType: "visual_inheritance", CSSFile: "visual_cascade",
		Selector: "ancestor_background", InheritedFrom: "div",
	}, src)
}

func TestHasAnyCSSSources(t *testing.T) {
	parse := func(source string) html.Document {
		doc, err := html.NewParser(nil).Parse(source)
		require.NoError(t, err)
		return doc
	}
	assert.True(t, HasAnyCSSSources(parse(
		`<html><head><link rel="stylesheet" href="styles.css"></head><body></body></html>`)))
	assert.True(t, HasAnyCSSSources(parse(
		`<html><head><style>p { color: red; }</style></head><body></body></html>`)))
	assert.False(t, HasAnyCSSSources(parse(
		`<html><head><style>   </style></head><body></body></html>`)))
	assert.False(t, HasAnyCSSSources(parse(
		`<html><head><link rel="icon" href="favicon.ico"></head><body></body></html>`)))
	assert.False(t, HasAnyCSSSources(parse(
		`<html><head><title>plain</title></head><body><p>hi</p></body></html>`)))
}

func TestAnalyzeProject_NoCSSSourcesWarning(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"plain.html": `<html><head><title>x</title></head><body><p>hi</p></body></html>`,
	})
	results, err := AnalyzeContrast(dir)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, AnalysisWarning, r.ContrastAnalysis)
	assert.Equal(t, "no_css_sources", r.WarningType)
	assert.Contains(t, r.WarningMessage, "no CSS sources")
	assert.False(t, r.Passed("aa"))
}

func TestAnalyzeProject_InheritedColorAgainstDefaultBackground(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"styles.css": `div { color: red; }`,
		"index.html": `<html><head><link rel="stylesheet" href="styles.css"></head>` +
			`<body><div><p>call me</p></div></body></html>`,
	})
	results, err := NewWithDefaults().AnalyzeProject(dir)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.True(t, strings.HasSuffix(r.Filename, "index.html"))
	assert.Equal(t, "p", r.ElementTag)
	assert.Equal(t, "call me", r.TextContent)
	assert.Equal(t, "red", r.TextColor)
	assert.Equal(t, "inherited", r.TextColorSource.SourceType)
	assert.Equal(t, "div", r.TextColorSource.InheritedFrom)
	assert.Equal(t, "styles.css", r.TextColorSource.CSSFile)
	assert.Equal(t, "browser_default", r.BackgroundColorSource.SourceType)
	assert.Equal(t, AnalysisDeterminable, r.ContrastAnalysis)
	// Red on white sits just under the normal-text AA line.
	assert.InDelta(t, 4.0, r.ContrastRatio, 0.05)
	assert.False(t, r.WCAGAAPass)
	assert.False(t, r.Passed("aa"))
}

func TestAnalyzeProject_MultipleDocumentsShareSheet(t *testing.T) {
	css := `p { color: #000000; background-color: #ffffff; }`
	page := func(title string) string {
		return `<html><head><link rel="stylesheet" href="shared.css"></head>` +
			`<body><p>` + title + `</p></body></html>`
	}
	dir := writeProject(t, map[string]string{
		"shared.css": css,
		"a.html":     page("first"),
		"b.html":     page("second"),
	})
	results, err := NewWithDefaults().AnalyzeProject(dir)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Documents come back in sorted filename order.
	assert.True(t, strings.HasSuffix(results[0].Filename, "a.html"))
	assert.True(t, strings.HasSuffix(results[1].Filename, "b.html"))
	for _, r := range results {
		assert.InDelta(t, 21.0, r.ContrastRatio, 1e-6)
		assert.True(t, r.WCAGAAPass)
		assert.True(t, r.WCAGAAAPass)
		assert.True(t, r.Passed("aaa"))
	}
}

func TestAnalyzeProject_StyleTagSource(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"index.html": `<html><head><style>p { color: #ffffff; background-color: #000000; }</style></head>` +
			`<body><p>hi</p></body></html>`,
	})
	results, err := AnalyzeContrast(dir)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "css_rule", r.TextColorSource.SourceType)
	assert.Equal(t, "style_tag--index.html", r.TextColorSource.CSSFile)
	assert.InDelta(t, 21.0, r.ContrastRatio, 1e-6)
}

func TestAnalyzeProject_BackgroundImageIndeterminate(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"index.html": `<html><head><style>p { background: url(photo.jpg) no-repeat; }</style></head>` +
			`<body><p>hi</p></body></html>`,
	})
	results, err := AnalyzeContrast(dir)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, AnalysisIndeterminate, r.ContrastAnalysis)
	assert.Equal(t, "background_image_blocks_color_analysis", r.Reason)
	assert.Contains(t, r.OriginalBackground, "photo.jpg")
	assert.False(t, r.Passed("aa"))
	assert.Zero(t, r.ContrastRatio)
}

func TestAnalyzeProject_LargeTextThresholds(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"index.html": `<html><head><style>h1 { color: #777777; } p { color: #777777; }</style></head>` +
			`<body><h1>Big heading</h1><p>small print</p></body></html>`,
	})
	results, err := AnalyzeContrast(dir)
	require.NoError(t, err)
	require.Len(t, results, 2)

	var h1, p Result
	for _, r := range results {
		switch r.ElementTag {
		case "h1":
			h1 = r
		case "p":
			p = r
		}
	}
	// Same ratio either way (just under the 4.5 normal-text line), but the
	// 32px bold heading is large text and clears the relaxed AA threshold.
	assert.True(t, h1.Bold)
	assert.True(t, h1.IsLargeText)
	assert.Equal(t, "32px", h1.FontSize)
	assert.True(t, h1.WCAGAAPass)
	assert.False(t, p.IsLargeText)
	assert.InDelta(t, h1.ContrastRatio, p.ContrastRatio, 1e-9)
	assert.InDelta(t, 4.48, p.ContrastRatio, 0.01)
	assert.Less(t, p.ContrastRatio, 4.5)
	assert.False(t, p.WCAGAAPass)
}

func TestAnalyzeProject_VisitedLinkContrast(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"index.html": `<html><head><style>a:visited { color: #551A8B; }</style></head>` +
			`<body><a href="/next">next page</a></body></html>`,
	})
	results, err := AnalyzeContrast(dir)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "a", r.ElementTag)
	assert.Equal(t, "#0000EE", r.TextColor)
	assert.Equal(t, "#551A8B", r.VisitedColor)
	assert.Greater(t, r.VisitedContrastRatio, 1.0)
	assert.True(t, r.VisitedAAPass)
}

func TestAnalyzeProject_MissingStylesheetFails(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"index.html": `<html><head><link rel="stylesheet" href="missing.css"></head>` +
			`<body><p>hi</p></body></html>`,
	})
	_, err := AnalyzeContrast(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.css")
}

func TestAnalyzeProject_NoHTMLFiles(t *testing.T) {
	_, err := AnalyzeContrast(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no HTML files")
}
