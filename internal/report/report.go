package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"surveykit/ai"
	"surveykit/internal"
	"surveykit/internal/errors"
	"surveykit/ports"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// DefaultTitle heads every generated report
const DefaultTitle = "Roteiro de Diagnóstico"

// chartRef matches outline lines that open with a column letter, such as "- **B**: ..."
var chartRef = regexp.MustCompile(`^[-•\s]*\*{0,2}([A-Z]{1,3})\*{0,2}\s*[:—\-–]`)

// Report is the assembled outline in Markdown and HTML
type Report struct {
	Title    string
	Outline  string
	Markdown string
	HTML     []byte
	// Missing lists column letters referenced by the outline without a chart
	Missing []string
}

// Builder asks the text generator for an outline and weaves the charts into it
type Builder struct {
	prompts   *ai.PromptManager
	generator ports.TextGenerator
	logger    *internal.Logger
}

// NewBuilder creates a report builder
func NewBuilder(prompts *ai.PromptManager, generator ports.TextGenerator, logger *internal.Logger) *Builder {
	if logger == nil {
		logger = internal.NopLogger()
	}
	return &Builder{prompts: prompts, generator: generator, logger: logger}
}

// Prompt renders the outline request for the given questions
func (b *Builder) Prompt(questions []ai.QuestionRef) (string, error) {
	fragments := ai.CompileQuestionFragments(questions)
	return b.prompts.RenderPrompt(ai.ReportOutlinePrompt, map[string]string{
		"QUESTIONS": strings.Join(fragments, "\n"),
	})
}

// Build generates the outline and inserts charts keyed by column letter.
// Chart paths are written relative to baseDir.
func (b *Builder) Build(ctx context.Context, questions []ai.QuestionRef, charts map[string]string, baseDir string) (*Report, error) {
	prompt, err := b.Prompt(questions)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("[ReportBuilder] Prompt:\n%s", prompt)

	outline := b.generator.Ask(ctx, prompt)
	r := Assemble(DefaultTitle, outline, charts, baseDir)
	for _, letter := range r.Missing {
		b.logger.Warn("[ReportBuilder] No chart found for column %s", letter)
	}
	return r, nil
}

// Assemble turns an outline into the final Markdown and HTML documents
func Assemble(title, outline string, charts map[string]string, baseDir string) *Report {
	r := &Report{Title: title, Outline: outline}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	for _, line := range strings.Split(outline, "\n") {
		clean := strings.TrimSpace(line)
		if clean == "" {
			continue
		}
		if strings.HasPrefix(clean, "#") {
			b.WriteString("\n" + clean + "\n\n")
			continue
		}
		b.WriteString(clean + "\n")

		m := chartRef.FindStringSubmatch(clean)
		if m == nil {
			continue
		}
		letter := m[1]
		path, ok := charts[letter]
		if !ok {
			r.Missing = append(r.Missing, letter)
			continue
		}
		if rel, err := filepath.Rel(baseDir, path); err == nil {
			path = rel
		}
		fmt.Fprintf(&b, "\n![Coluna %s](%s)\n\n", letter, filepath.ToSlash(path))
	}

	r.Markdown = b.String()
	r.HTML = renderHTML(title, r.Markdown)
	return r
}

func renderHTML(title, md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML([]byte(md), p, renderer)
}

// Write saves <base>_report.md and <base>_report.html into dir, replacing old copies
func Write(dir, base string, r *Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", dir)
	}
	mdPath := filepath.Join(dir, base+"_report.md")
	htmlPath := filepath.Join(dir, base+"_report.html")
	if err := os.WriteFile(mdPath, []byte(r.Markdown), 0o644); err != nil {
		return nil, errors.Wrapf(err, "failed to write %s", mdPath)
	}
	if err := os.WriteFile(htmlPath, r.HTML, 0o644); err != nil {
		return nil, errors.Wrapf(err, "failed to write %s", htmlPath)
	}
	return []string{mdPath, htmlPath}, nil
}
