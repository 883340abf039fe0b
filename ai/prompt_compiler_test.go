package ai

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"surveykit/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileQuestionFragments(t *testing.T) {
	frags := CompileQuestionFragments([]QuestionRef{
		{Letter: "B", Header: "Region \n of origin"},
		{Letter: "C", Header: "Channels", Empty: true},
		{Letter: "B", Header: "Region of origin"},
	})
	assert.Equal(t, []string{
		"B: Region of origin",
		"C: Channels (sem respostas válidas)",
	}, frags)
}

func TestPromptManagerEmbeddedDefault(t *testing.T) {
	pm := NewPromptManager("", nil)
	out, err := pm.RenderPrompt(ReportOutlinePrompt, map[string]string{"QUESTIONS": "B: Region"})
	require.NoError(t, err)
	assert.Contains(t, out, "B: Region")
	assert.NotContains(t, out, "{QUESTIONS}")
}

func TestPromptManagerDirectoryOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ReportOutlinePrompt+".txt"), []byte("Outline for {QUESTIONS}."), 0o644))

	out, err := NewPromptManager(dir, nil).RenderPrompt(ReportOutlinePrompt, map[string]string{"QUESTIONS": "A: Q"})
	require.NoError(t, err)
	assert.Equal(t, "Outline for A: Q.", out)

	other, err := NewPromptManager(t.TempDir(), nil).LoadPrompt(ReportOutlinePrompt)
	require.NoError(t, err)
	assert.True(t, strings.Contains(other, "{QUESTIONS}"))
}

func TestPromptManagerUnknownPrompt(t *testing.T) {
	_, err := NewPromptManager("", nil).LoadPrompt("missing")
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}
