package chart

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"surveykit/domain/survey"
	"surveykit/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStyle(t *testing.T) Style {
	style, err := ParseStyle([]string{"#1E325A", "#710101", "#051C48", "#141E34"}, "#1E325A")
	require.NoError(t, err)
	return style
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#710101")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x71, G: 0x01, B: 0x01, A: 0xff}, c)

	_, err = ParseHex("blue")
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Região_Norte_(A)", SanitizeFilename(" Região  Norte (A) ", 50))
	assert.Equal(t, "a_b", SanitizeFilename("a/?b", 50))
	assert.Equal(t, "abc", SanitizeFilename("abcdef", 3))
}

func TestFileNamerKeepsPartitionsApart(t *testing.T) {
	n := NewFileNamer("JPG")
	assert.Equal(t, "Geral_columnB.jpg", n.Name(0, "Geral", "B"))
	assert.Equal(t, "Geral_columnC.jpg", n.Name(0, "Geral", "C"))
	assert.Equal(t, "Norte_Sul_columnB.jpg", n.Name(1, "Norte/Sul", "B"))
	assert.Equal(t, "Norte_Sul_2_columnB.jpg", n.Name(2, "Norte:Sul", "B"))
	assert.Equal(t, "chart_columnC.jpg", n.Name(3, "???", "C"))
	assert.Equal(t, "Geral_2_columnB.jpg", n.Name(4, "Geral", "B"))
	assert.Equal(t, "Geral_columnB.jpg", n.Name(0, "Geral", "B"))
}

func TestWrapAndTruncate(t *testing.T) {
	assert.Equal(t, "one two\nthree", wrap("one two three", 8))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "short", truncate("short", 10))
}

func TestRenderPieAndBars(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir, "png", testStyle(t), nil)

	pie := survey.Distribution{{Label: "Yes", Count: 3, Percent: 75}, {Label: "No", Count: 1, Percent: 25}}
	path, err := r.Render(0, "Geral", "B", "Do you agree?", pie)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Geral_columnB.png"), path)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	var bars survey.Distribution
	for _, l := range []string{"a", "b", "c", "d", "e"} {
		bars = append(bars, survey.Entry{Label: strings.Repeat(l, 60), Count: 1, Percent: 16})
	}
	bars = append(bars, survey.Entry{Label: "Outros", Count: 1, Percent: 20, Overflow: true})
	path, err = r.Render(0, "Geral", "C", "Channels", bars)
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestRenderSkipsEmptyDistribution(t *testing.T) {
	r := NewRenderer(t.TempDir(), "png", testStyle(t), nil)
	path, err := r.Render(0, "Geral", "B", "Empty", nil)
	require.NoError(t, err)
	assert.Empty(t, path)
}
