package cascade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HundredVisionsGuy/webcode-tk-sub000/internal/config"
)

func TestClassifyFontUnit(t *testing.T) {
	cases := map[string]string{
		"16px":     "absolute",
		"12pt":     "absolute",
		"1in":      "absolute",
		"2.5mm":    "absolute",
		"1.5em":    "relative",
		"150%":     "relative",
		"2rem":     "relative",
		"small":    "absolute_keyword",
		"XX-Large": "absolute_keyword",
		"larger":   "relative_keyword",
		"smaller":  "relative_keyword",
		"16":       "unknown",
		"bogus":    "unknown",
		"":         "unknown",
	}
	for value, want := range cases {
		assert.Equal(t, want, ClassifyFontUnit(value), value)
	}
}

func TestConvertFontSize_AbsoluteValues(t *testing.T) {
	e := New(config.Default(), nil)
	cases := map[string]string{
		"16px":      "16.0px",
		"18":        "18.0px",
		"12pt":      "16.0px",
		"1pc":       "16.0px",
		"1in":       "96.0px",
		"2.54cm":    "96.0px",
		"medium":    "16.0px",
		"large":     "18.0px",
		"xx-large":  "32.0px",
		"xxx-large": "48.0px",
		"xx-small":  "9.0px",
	}
	for value, want := range cases {
		assert.Equal(t, want, e.ConvertFontSize(value, nil, nil), value)
	}
}

func TestConvertFontSize_RelativeToAncestor(t *testing.T) {
	_, doc, styles := resolveStyles(t, `<body><div><p>hi</p></div></body>`,
		`div { font-size: 20px; }`)
	e := New(config.Default(), nil)
	p := findOne(t, doc, "p")

	assert.Equal(t, "30.0px", e.ConvertFontSize("1.5em", p, styles))
	assert.Equal(t, "30.0px", e.ConvertFontSize("150%", p, styles))
	assert.Equal(t, "24.0px", e.ConvertFontSize("larger", p, styles))
	assert.Equal(t, "16.7px", e.ConvertFontSize("smaller", p, styles))
	// rem scales against the root size no matter what the ancestors say.
	assert.Equal(t, "24.0px", e.ConvertFontSize("1.5rem", p, styles))
}

func TestConvertFontSize_NoAncestorFallsBackToRoot(t *testing.T) {
	e := New(config.Default(), nil)
	assert.Equal(t, "24.0px", e.ConvertFontSize("1.5em", nil, nil))
	assert.Equal(t, "19.2px", e.ConvertFontSize("larger", nil, nil))
	assert.Equal(t, "16.0px", e.ConvertFontSize("not-a-size", nil, nil))
}

func TestConvertFontSize_NestedEmCompounds(t *testing.T) {
	_, doc, styles := resolveStyles(t,
		`<body><div><span>hi</span></div></body>`,
		`div { font-size: 1.5em; } span { font-size: 1.2em; }`)
	// div resolves against the 16px body default, span against the div.
	div := findOne(t, doc, "div")
	span := findOne(t, doc, "span")
	assert.Equal(t, "24.0px", styles.Get(div.Key(), "font-size").Value)
	assert.Equal(t, "28.8px", styles.Get(span.Key(), "font-size").Value)
}

func TestParsePixels(t *testing.T) {
	px, err := ParsePixels("24.5px")
	require.NoError(t, err)
	assert.Equal(t, 24.5, px)

	px, err = ParsePixels(" 16px ")
	require.NoError(t, err)
	assert.Equal(t, 16.0, px)

	_, err = ParsePixels("bold")
	assert.Error(t, err)
}
