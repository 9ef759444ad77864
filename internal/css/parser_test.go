package css

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_BasicRulesets(t *testing.T) {
	source := `
		h1 { color: red; font-size: 2em; }
		.lead { color: #336699; }
	`

	sheet, err := NewParser().Parse("style.css", "file", source)

	require.NoError(t, err)
	require.Len(t, sheet.Rulesets, 2)

	assert.Equal(t, "h1", sheet.Rulesets[0].Selector)
	require.Len(t, sheet.Rulesets[0].Declarations, 2)
	assert.Equal(t, "color", sheet.Rulesets[0].Declarations[0].Property)
	assert.Equal(t, "red", sheet.Rulesets[0].Declarations[0].Value)

	assert.Equal(t, ".lead", sheet.Rulesets[1].Selector)
	assert.Equal(t, "#336699", sheet.Rulesets[1].Declarations[0].Value)
}

func TestParse_StripsCommentsAndKeepsThem(t *testing.T) {
	source := `/* palette */ p { color: blue; } /* end */`

	sheet, err := NewParser().Parse("style.css", "file", source)

	require.NoError(t, err)
	require.Len(t, sheet.Rulesets, 1)
	assert.Equal(t, "p", sheet.Rulesets[0].Selector)
	assert.Equal(t, []string{"/* palette */", "/* end */"}, sheet.Comments)
}

func TestParse_UnbalancedCommentIsError(t *testing.T) {
	_, err := NewParser().Parse("style.css", "file", `/* open p { color: blue; }`)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnbalancedComment)
}

func TestParse_UnbalancedBracesIsError(t *testing.T) {
	_, err := NewParser().Parse("style.css", "file", `p { color: blue;`)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnbalancedBraces)
}

func TestParse_StripsExternalImports(t *testing.T) {
	source := `@import url("https://example.com/fonts.css"); p { color: blue; }`

	sheet, err := NewParser().Parse("style.css", "file", source)

	require.NoError(t, err)
	require.Len(t, sheet.Rulesets, 1)
	assert.Equal(t, "p", sheet.Rulesets[0].Selector)
}

func TestParse_KeepsLocalImports(t *testing.T) {
	source := `@import "local.css"; p { color: blue; }`

	sheet, err := NewParser().Parse("style.css", "file", source)

	require.NoError(t, err)
	// The local import is a documented limitation; it stays in the text and
	// surfaces as an invalid ruleset rather than disappearing silently.
	var selectors []string
	for _, rs := range sheet.Rulesets {
		selectors = append(selectors, rs.Selector)
	}
	assert.Contains(t, strings.Join(selectors, " "), "p")
}

func TestParse_ExtractsNestedAtRules(t *testing.T) {
	source := `
		body { margin: 0; }
		@media (min-width: 520px) {
			h1 { font-size: 3em; }
			p { color: gray; }
		}
	`

	sheet, err := NewParser().Parse("style.css", "file", source)

	require.NoError(t, err)
	require.Len(t, sheet.NestedAtRules, 1)
	at := sheet.NestedAtRules[0]
	assert.Equal(t, "@media (min-width: 520px)", at.AtRule)
	require.Len(t, at.Rulesets, 2)
	assert.Equal(t, "h1", at.Rulesets[0].Selector)
	assert.Equal(t, "p", at.Rulesets[1].Selector)

	require.Len(t, sheet.Rulesets, 1)
	assert.Equal(t, "body", sheet.Rulesets[0].Selector)
}

func TestParse_InvalidRulesetDoesNotAbortSheet(t *testing.T) {
	source := `} p { color: blue; }{`

	sheet, err := NewParser().Parse("style.css", "file", source)

	require.NoError(t, err)
	valid := 0
	for _, rs := range sheet.Rulesets {
		if !rs.Invalid {
			valid++
			assert.Equal(t, "p", rs.Selector)
		}
	}
	assert.Equal(t, 1, valid)
}

func TestParse_RepeatedSelectorsFlagged(t *testing.T) {
	source := `p { color: blue; } h1 { color: red; } p { color: green; }`

	sheet, err := NewParser().Parse("style.css", "file", source)

	require.NoError(t, err)
	assert.True(t, sheet.HasRepeatSelectors)
	assert.Equal(t, []string{"p"}, sheet.RepeatedSelectors)
}

func TestNewDeclaration_RoundTrip(t *testing.T) {
	d := NewDeclaration("  color :  red  ")

	require.False(t, d.Invalid)
	assert.Equal(t, "color: red", d.GetDeclaration())
}

func TestNewDeclaration_MissingColon(t *testing.T) {
	d := NewDeclaration("color red")

	assert.True(t, d.Invalid)
	assert.Equal(t, "missing colon between property and value", d.Error)
}

func TestNewDeclaration_MissingValue(t *testing.T) {
	d := NewDeclaration("color:")

	assert.True(t, d.Invalid)
	assert.Equal(t, "missing value after colon", d.Error)
}

func TestNewDeclaration_TrailingText(t *testing.T) {
	d := NewDeclaration("color: red; padding")

	assert.True(t, d.Invalid)
	assert.Equal(t, "unexpected text after declaration terminator", d.Error)
}

func TestParseInline(t *testing.T) {
	decls := ParseInline("color: red; font-size: 2em")

	require.Len(t, decls, 2)
	assert.Equal(t, "color", decls[0].Property)
	assert.Equal(t, "red", decls[0].Value)
	assert.Equal(t, "font-size", decls[1].Property)
}

func TestGetSpecificity_Counts(t *testing.T) {
	tests := []struct {
		selector string
		want     Specificity
	}{
		{"h1", Specificity{0, 0, 1}},
		{".lead", Specificity{0, 1, 0}},
		{"#main", Specificity{1, 0, 0}},
		{"nav ul li a", Specificity{0, 0, 4}},
		{"#main .lead a:hover", Specificity{1, 2, 1}},
		{"input[type=text]", Specificity{0, 1, 1}},
		{"* ", Specificity{0, 0, 0}},
		// Pseudo-elements carry no class weight; pseudo-classes do.
		{"p::before", Specificity{0, 0, 1}},
		{"a:hover::after", Specificity{0, 1, 1}},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, GetSpecificity(tc.selector), "selector %q", tc.selector)
	}
}

func TestSpecificity_ClassDominatesAnyTypeCount(t *testing.T) {
	// Twenty type selectors still lose to one class selector.
	var tags []string
	for i := 0; i < 20; i++ {
		tags = append(tags, "h1")
	}
	manyTypes := GetSpecificity(strings.Join(tags, ","))
	oneClass := GetSpecificity(".single-class")

	assert.Equal(t, 20, manyTypes.Types)
	assert.Equal(t, -1, manyTypes.Compare(oneClass))
	assert.Equal(t, 1, oneClass.Compare(manyTypes))
}

func TestSpecificity_StringProjectionOrdersConsistently(t *testing.T) {
	a := Specificity{IDs: 1, Classes: 0, Types: 0}
	b := Specificity{IDs: 0, Classes: 9, Types: 9}

	assert.Equal(t, "100", a.String())
	assert.Equal(t, "099", b.String())
	assert.Equal(t, 1, a.Compare(b))
	assert.True(t, a.String() > b.String())

	// Counts past nine clamp so the projection never flips the order.
	c := Specificity{Classes: 20}
	assert.Equal(t, "090", c.String())
}

func TestParseSpecificity(t *testing.T) {
	assert.Equal(t, Specificity{0, 1, 4}, ParseSpecificity("014"))
	assert.Equal(t, Specificity{}, ParseSpecificity("bogus"))
}

func TestRuleset_LastValidDeclarationWins(t *testing.T) {
	sheet, err := NewParser().Parse("style.css", "file",
		`p { color: red; color: blue; color:; }`)

	require.NoError(t, err)
	d, ok := sheet.Rulesets[0].Declaration("color")
	require.True(t, ok)
	assert.Equal(t, "blue", d.Value)
}

func TestStylesheet_ColorRulesets(t *testing.T) {
	sheet, err := NewParser().Parse("style.css", "file",
		`p { margin: 0; } h1 { color: red; } div { background: navy; }`)

	require.NoError(t, err)
	rulesets := sheet.ColorRulesets()
	require.Len(t, rulesets, 2)
	assert.Equal(t, "h1", rulesets[0].Selector)
	assert.Equal(t, "div", rulesets[1].Selector)
}
