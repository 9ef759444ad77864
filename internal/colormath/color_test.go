package colormath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHex(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"#ffffff", "#ffffff"},
		{"#FFF", "#ffffff"},
		{"#abc", "#aabbcc"},
		{"#11223344", "#112233"},
		{"rgb(255, 0, 0)", "#ff0000"},
		{"rgba(0, 0, 255, 0.5)", "#0000ff"},
		{"hsl(0, 100%, 50%)", "#ff0000"},
		{"hsl(120, 100%, 25%)", "#008000"},
		{"navy", "#000080"},
		{"RebeccaPurple", "#663399"},
		{"  White  ", "#ffffff"},
	}
	for _, tc := range cases {
		got, err := ToHex(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestToHex_Invalid(t *testing.T) {
	for _, in := range []string{"", "blurple", "#12", "#12345", "rgb(red)"} {
		_, err := ToHex(in)
		assert.Error(t, err, in)
	}
}

func TestHexRGBRoundTrip(t *testing.T) {
	r, g, b, err := HexToRGB("#336699")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x33), r)
	assert.Equal(t, uint8(0x66), g)
	assert.Equal(t, uint8(0x99), b)
	assert.Equal(t, "#336699", RGBToHex(r, g, b))

	_, _, _, err = HexToRGB("#zz0011")
	assert.Error(t, err)
}

func TestRelativeLuminance(t *testing.T) {
	black, err := RelativeLuminance("#000000")
	require.NoError(t, err)
	assert.InDelta(t, 0.0, black, 1e-9)

	white, err := RelativeLuminance("#ffffff")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, white, 1e-9)

	red, err := RelativeLuminance("#ff0000")
	require.NoError(t, err)
	assert.InDelta(t, 0.2126, red, 1e-4)
}

func TestContrastRatio(t *testing.T) {
	ratio, err := ContrastRatio("#000000", "#ffffff")
	require.NoError(t, err)
	assert.InDelta(t, 21.0, ratio, 1e-6)

	// Order of arguments must not matter.
	flipped, err := ContrastRatio("#ffffff", "#000000")
	require.NoError(t, err)
	assert.InDelta(t, ratio, flipped, 1e-12)

	same, err := ContrastRatio("#808080", "#808080")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, same, 1e-9)

	_, err = ContrastRatio("#000000", "nope")
	assert.Error(t, err)
}

func TestGetColorContrastReport(t *testing.T) {
	report, err := GetColorContrastReport("#000000", "#ffffff")
	require.NoError(t, err)
	assert.InDelta(t, 21.0, report.Ratio, 1e-6)
	assert.Equal(t, Pass, report.NormalAA)
	assert.Equal(t, Pass, report.NormalAAA)
	assert.Equal(t, Pass, report.LargeAA)
	assert.Equal(t, Pass, report.LargeAAA)
	assert.Equal(t, Pass, report.GraphicsUI)

	// #767676 on white sits at roughly 4.54: normal AA passes, AAA fails.
	report, err = GetColorContrastReport("#767676", "#ffffff")
	require.NoError(t, err)
	assert.Greater(t, report.Ratio, 4.5)
	assert.Less(t, report.Ratio, 7.0)
	assert.Equal(t, Pass, report.NormalAA)
	assert.Equal(t, Fail, report.NormalAAA)
	assert.Equal(t, Pass, report.LargeAA)
	assert.Equal(t, Pass, report.LargeAAA)

	// Low contrast fails everything.
	report, err = GetColorContrastReport("#cccccc", "#ffffff")
	require.NoError(t, err)
	assert.Equal(t, Fail, report.NormalAA)
	assert.Equal(t, Fail, report.LargeAA)
}

func TestIsGradient(t *testing.T) {
	assert.True(t, IsGradient("linear-gradient(#fff, #000)"))
	assert.True(t, IsGradient("Radial-Gradient(circle, red, blue)"))
	assert.False(t, IsGradient("#ffffff"))
	assert.False(t, IsGradient("url(photo.png)"))
}

func TestFindColors(t *testing.T) {
	colors := FindColors("linear-gradient(#ff0000, rgb(0, 0, 255), navy)")
	assert.Equal(t, []string{"#ff0000", "rgb(0, 0, 255)", "navy"}, colors)

	// Source order is preserved across syntaxes even though the scan
	// runs one syntax at a time.
	colors = FindColors("navy solid hsl(0, 100%, 50%) then #abc")
	assert.Equal(t, []string{"navy", "hsl(0, 100%, 50%)", "#abc"}, colors)

	assert.Empty(t, FindColors("1px solid none"))
	assert.Empty(t, FindColors(""))
}

func TestGradientEndColor(t *testing.T) {
	assert.Equal(t, "#000080", GradientEndColor("linear-gradient(#ffffff, #000080)"))
	assert.Equal(t, "blue", GradientEndColor("linear-gradient(45deg, red, blue)"))
	assert.Equal(t, "", GradientEndColor("linear-gradient(45deg)"))
}
