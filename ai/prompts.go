package ai

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"surveykit/internal"
	"surveykit/internal/errors"
)

//go:embed prompts/*.txt
var defaultPrompts embed.FS

// ReportOutlinePrompt is the template used to request the report outline
const ReportOutlinePrompt = "report_outline"

// PromptManager - Simple external prompt loader with embedded defaults
type PromptManager struct {
	PromptsDir string
	logger     *internal.Logger
}

// NewPromptManager creates a prompt manager; an empty dir uses only the embedded prompts
func NewPromptManager(promptsDir string, logger *internal.Logger) *PromptManager {
	if logger == nil {
		logger = internal.NopLogger()
	}
	if promptsDir != "" {
		logger.Debug("[PromptManager] Initialized for directory: %s", promptsDir)
	}
	return &PromptManager{PromptsDir: promptsDir, logger: logger}
}

// LoadPrompt loads a prompt template by name, preferring PromptsDir over the embedded copy
func (pm *PromptManager) LoadPrompt(name string) (string, error) {
	if pm.PromptsDir != "" {
		path := filepath.Join(pm.PromptsDir, name+".txt")
		content, err := os.ReadFile(path)
		if err == nil {
			return string(content), nil
		}
		if !os.IsNotExist(err) {
			return "", errors.Wrapf(err, "failed to load prompt %s", name)
		}
		pm.logger.Debug("[PromptManager] %s not found, using embedded prompt", path)
	}

	content, err := defaultPrompts.ReadFile("prompts/" + name + ".txt")
	if err != nil {
		return "", errors.NotFound(fmt.Sprintf("prompt template %s", name))
	}
	return string(content), nil
}

// RenderPrompt replaces {PLACEHOLDER} with values
func (pm *PromptManager) RenderPrompt(name string, replacements map[string]string) (string, error) {
	template, err := pm.LoadPrompt(name)
	if err != nil {
		return "", err
	}

	result := template
	for placeholder, value := range replacements {
		placeholderKey := "{" + placeholder + "}"
		result = strings.ReplaceAll(result, placeholderKey, value)
	}

	return result, nil
}
