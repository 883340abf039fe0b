package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"surveykit/adapters/chart"
	"surveykit/adapters/excel"
	"surveykit/adapters/llm"
	"surveykit/ai"
	"surveykit/domain/core"
	"surveykit/domain/survey"
	"surveykit/internal"
	"surveykit/internal/config"
	"surveykit/internal/errors"
	"surveykit/internal/output"
	"surveykit/internal/report"
	"surveykit/internal/tabulate"
	"surveykit/internal/textproc"
	"surveykit/ports"
)

// ChartsDirName is the subdirectory of the output directory holding chart images
const ChartsDirName = "charts"

// RunResult summarizes a completed batch run
type RunResult struct {
	RunID      core.RunID
	Partitions []survey.PartitionSummary
	Workbook   string
	Charts     []string
	Reports    []string
	Archive    string
	Manifest   string
	Skipped    []output.SkippedColumn
}

// SurveyService runs the whole batch: read, tabulate, chart, cluster, report, package
type SurveyService struct {
	cfg       *config.Config
	logger    *internal.Logger
	generator ports.TextGenerator
}

// NewSurveyService creates the service for one validated configuration
func NewSurveyService(cfg *config.Config, logger *internal.Logger) *SurveyService {
	if logger == nil {
		logger = internal.NopLogger()
	}
	return &SurveyService{cfg: cfg, logger: logger}
}

// WithGenerator replaces the OpenAI-backed text generator used for the report
func (s *SurveyService) WithGenerator(g ports.TextGenerator) *SurveyService {
	s.generator = g
	return s
}

// prepared holds everything checked before any output is touched
type prepared struct {
	table      *survey.Table
	partitions []survey.Partition
	openText   *OpenTextService
	style      chart.Style
}

// prepare performs every fatal precondition check
func (s *SurveyService) prepare() (*prepared, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	table, err := s.source().Read()
	if err != nil {
		return nil, err
	}

	partitions, err := tabulate.Partitions(table, s.cfg.Survey.GroupByColIndex, s.cfg.Survey.GeneralLabel)
	if err != nil {
		return nil, errors.Wrap(err, "invalid grouping column")
	}

	style, err := chart.ParseStyle(s.cfg.Charts.PieColors, s.cfg.Charts.BarColor)
	if err != nil {
		return nil, err
	}

	p := &prepared{table: table, partitions: partitions, style: style}
	if hasOpen(table) {
		corpus, err := textproc.NewCorpusBuilder(s.cfg.Text.Language, s.cfg.Text.LexiconPath, s.cfg.Survey.InvalidLabel)
		if err != nil {
			return nil, errors.WithCode(errors.CodeConfigInvalid, err)
		}
		if p.openText, err = NewOpenTextService(s.cfg.Clustering, corpus, s.logger); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (s *SurveyService) source() ports.SurveySource {
	return excel.NewSurveyReader(s.cfg.Paths.InputXLSX, s.cfg.Survey.ControlSheet, s.cfg.Survey.TypeKeywords(), s.logger)
}

func (s *SurveyService) tabulateOptions() tabulate.Options {
	return tabulate.Options{
		Separator:     s.cfg.Survey.Separator,
		TopN:          s.cfg.Survey.TopN,
		OverflowLabel: s.cfg.Survey.OthersLabel,
	}
}

// Run executes the batch. Precondition failures return before any output exists.
func (s *SurveyService) Run(ctx context.Context) (*RunResult, error) {
	started := time.Now()
	runID := core.NewRunID()
	log := s.logger.With("run_id", runID.String())
	log.Info("[SurveyService] Starting run for %s", s.cfg.Paths.InputXLSX)

	p, err := s.prepare()
	if err != nil {
		return nil, err
	}

	outDir := s.cfg.Paths.OutputDir
	chartDir := filepath.Join(outDir, ChartsDirName)
	if s.cfg.Paths.CleanOutputDir {
		output.Clean(outDir, log)
		output.Clean(chartDir, log)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", outDir)
	}

	sink, err := excel.NewSummaryWriter(s.cfg.Paths.OutputXLSX, log)
	if err != nil {
		return nil, err
	}
	defer sink.Close()
	renderer := chart.NewRenderer(chartDir, s.cfg.Charts.Format, p.style, log)

	result := &RunResult{RunID: runID, Workbook: s.cfg.Paths.OutputXLSX}
	generalCharts := map[string]string{}
	for i, part := range p.partitions {
		summary, charts := s.processPartition(i, part, p.openText, sink, renderer, log)
		result.Partitions = append(result.Partitions, summary)
		for _, c := range charts {
			result.Charts = append(result.Charts, c.path)
			if i == 0 {
				generalCharts[c.letter] = c.path
			}
		}
		for _, ot := range summary.OpenText {
			if ot.Skipped() {
				result.Skipped = append(result.Skipped, output.SkippedColumn{
					Partition: part.Label,
					Column:    excel.ColumnLetter(ot.Column),
					Question:  ot.Header,
					Reason:    ot.Reason,
				})
			}
		}
	}

	if err := sink.Save(); err != nil {
		return nil, err
	}

	if s.cfg.AI.Enabled {
		reports, err := s.writeReport(ctx, result.Partitions[0], generalCharts, log)
		if err != nil {
			log.Error("[SurveyService] Report generation failed: %v", err)
		}
		result.Reports = reports
	}

	base := strings.TrimSuffix(filepath.Base(s.cfg.Paths.InputXLSX), filepath.Ext(s.cfg.Paths.InputXLSX))
	archive := ""
	if s.cfg.Paths.ZipOutput {
		archive = base + ".zip"
	}
	manifest := &output.Manifest{
		RunID:      runID.String(),
		Input:      s.cfg.Paths.InputXLSX,
		Workbook:   s.cfg.Paths.OutputXLSX,
		StartedAt:  started,
		FinishedAt: time.Now(),
		Sheets:     sink.Sheets(),
		Charts:     relativeTo(outDir, result.Charts),
		Reports:    relativeTo(outDir, result.Reports),
		Skipped:    result.Skipped,
		Archive:    archive,
	}
	if result.Manifest, err = output.WriteManifest(outDir, manifest); err != nil {
		return nil, err
	}

	if s.cfg.Paths.ZipOutput {
		if result.Archive, err = output.Zip(outDir, archive); err != nil {
			return nil, err
		}
		log.Info("[SurveyService] Packaged results into %s", result.Archive)
	}

	log.Info("[SurveyService] Run finished in %s: %d sheets, %d charts, %d skipped open questions",
		time.Since(started).Round(time.Millisecond), len(manifest.Sheets), len(result.Charts), len(result.Skipped))
	return result, nil
}

type chartFile struct {
	letter string
	path   string
}

// processPartition tabulates, charts and clusters one partition. Per-column
// failures are logged and skipped.
func (s *SurveyService) processPartition(index int, part survey.Partition, openText *OpenTextService, sink ports.SummarySink, charts ports.ChartRenderer, log *internal.Logger) (survey.PartitionSummary, []chartFile) {
	summary := survey.PartitionSummary{Label: part.Label}
	var written []chartFile
	opts := s.tabulateOptions()

	for idx, qType := range part.Table.Types {
		col := part.Table.Column(idx)
		switch {
		case qType.Tabulated():
			q := tabulate.Tabulate(col, opts).Summary()
			if q.Collision {
				log.Warn("[SurveyService] %q in %q has an answer named %q; it was merged into the overflow bucket",
					col.Header, part.Label, opts.OverflowLabel)
			}
			summary.Questions = append(summary.Questions, q)
			if q.Empty() {
				continue
			}
			letter := excel.ColumnLetter(idx)
			path, err := charts.Render(index, part.Label, letter, col.Header, q.Shares)
			if err != nil {
				log.Error("[SurveyService] Chart for %q (%s) failed: %v", col.Header, letter, err)
				continue
			}
			written = append(written, chartFile{letter: letter, path: path})
		case qType == survey.QuestionOpen && openText != nil:
			summary.OpenText = append(summary.OpenText, openText.Analyze(col))
		}
	}

	if _, err := sink.WriteSummary(part.Label, summary.Questions); err != nil {
		log.Error("[SurveyService] Summary sheet for %q failed: %v", part.Label, err)
	}
	if len(summary.OpenText) > 0 {
		if _, err := sink.WriteClusters(part.Label, summary.OpenText); err != nil {
			log.Error("[SurveyService] Cluster sheet for %q failed: %v", part.Label, err)
		}
	}
	return summary, written
}

func (s *SurveyService) writeReport(ctx context.Context, general survey.PartitionSummary, charts map[string]string, log *internal.Logger) ([]string, error) {
	generator := s.generator
	if generator == nil {
		client, err := llm.NewOpenAIClient(s.llmConfig())
		if err != nil {
			return nil, err
		}
		generator = llm.NewGenerator(s.llmConfig(), client, log)
	}

	questions := make([]ai.QuestionRef, 0, len(general.Questions))
	for _, q := range general.Questions {
		questions = append(questions, ai.QuestionRef{Letter: excel.ColumnLetter(q.Column), Header: q.Header, Empty: q.Empty()})
	}

	builder := report.NewBuilder(ai.NewPromptManager(s.cfg.AI.PromptsDir, log), generator, log)
	r, err := builder.Build(ctx, questions, charts, s.cfg.Paths.OutputDir)
	if err != nil {
		return nil, err
	}
	base := strings.TrimSuffix(filepath.Base(s.cfg.Paths.InputXLSX), filepath.Ext(s.cfg.Paths.InputXLSX))
	return report.Write(s.cfg.Paths.OutputDir, base, r)
}

func (s *SurveyService) llmConfig() llm.Config {
	return llm.Config{
		Model:       s.cfg.AI.Model,
		APIKey:      s.cfg.AI.OpenAIKey,
		BaseURL:     s.cfg.AI.BaseURL,
		Temperature: s.cfg.AI.Temperature,
		MaxTokens:   s.cfg.AI.MaxTokens,
		Timeout:     s.cfg.AI.Timeout,
	}
}

// TabulateColumn tabulates one column of the general partition
func (s *SurveyService) TabulateColumn(idx int) (survey.QuestionSummary, error) {
	if err := s.cfg.Validate(); err != nil {
		return survey.QuestionSummary{}, err
	}
	table, err := s.source().Read()
	if err != nil {
		return survey.QuestionSummary{}, err
	}
	if idx < 0 || idx >= len(table.Headers) {
		return survey.QuestionSummary{}, errors.InvalidInput(fmt.Sprintf("column %d out of range [0, %d)", idx, len(table.Headers)))
	}
	return tabulate.Tabulate(table.Column(idx), s.tabulateOptions()).Summary(), nil
}

// ClusterColumn clusters one column of the general partition as open text
func (s *SurveyService) ClusterColumn(idx int) (survey.OpenTextResult, error) {
	if err := s.cfg.Validate(); err != nil {
		return survey.OpenTextResult{}, err
	}
	table, err := s.source().Read()
	if err != nil {
		return survey.OpenTextResult{}, err
	}
	if idx < 0 || idx >= len(table.Headers) {
		return survey.OpenTextResult{}, errors.InvalidInput(fmt.Sprintf("column %d out of range [0, %d)", idx, len(table.Headers)))
	}
	corpus, err := textproc.NewCorpusBuilder(s.cfg.Text.Language, s.cfg.Text.LexiconPath, s.cfg.Survey.InvalidLabel)
	if err != nil {
		return survey.OpenTextResult{}, err
	}
	svc, err := NewOpenTextService(s.cfg.Clustering, corpus, s.logger)
	if err != nil {
		return survey.OpenTextResult{}, err
	}
	return svc.Analyze(table.Column(idx)), nil
}

func hasOpen(t *survey.Table) bool {
	for _, qType := range t.Types {
		if qType == survey.QuestionOpen {
			return true
		}
	}
	return false
}

func relativeTo(dir string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if rel, err := filepath.Rel(dir, p); err == nil {
			p = filepath.ToSlash(rel)
		}
		out = append(out, p)
	}
	return out
}
