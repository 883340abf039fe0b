package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"surveykit/app"
	"surveykit/internal"
	"surveykit/internal/config"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
)

// overrides are flag values applied on top of the environment configuration
type overrides struct {
	input     string
	outputDir string
	groupCol  int
	topN      int
	strategy  string
	format    string
	llm       bool
	noZip     bool
}

func main() {
	var o overrides

	rootCmd := &cobra.Command{
		Use:   "surveykit",
		Short: "Tabulate survey workbooks and cluster open-text answers",
		Long: `surveykit reads a survey workbook whose first row tags every column
(FECHADA, MÚLTIPLA, ABERTA, IGNORAR) and whose second row holds the questions.

Configuration comes from the environment (and .env); flags override it.`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&o.input, "input", "", "Input workbook (overrides INPUT_XLSX)")
	pf.StringVar(&o.outputDir, "output-dir", "", "Output directory (overrides OUTPUT_DIR)")
	pf.IntVar(&o.groupCol, "group-col", -2, "Zero-based grouping column, -1 for none (overrides GROUP_BY_COL_INDEX)")
	pf.IntVar(&o.topN, "top-n", 0, "Categories kept before overflow (overrides TOP_N)")
	pf.StringVar(&o.strategy, "strategy", "", "Cluster count strategy: elbow|silhouette (overrides CLUSTER_STRATEGY)")
	pf.StringVar(&o.format, "format", "", "Chart format: jpg|png (overrides CHART_FORMAT)")
	pf.BoolVar(&o.llm, "llm", false, "Generate the diagnostic report (sets LLM_FEATURES_ON)")
	pf.BoolVar(&o.noZip, "no-zip", false, "Do not package the output directory")

	rootCmd.AddCommand(
		newRunCmd(&o),
		newTabulateCmd(&o),
		newClusterCmd(&o),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd(o *overrides) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full batch: workbook, charts, clusters, report and archive",
		Long: `Run the full batch over every partition.

Example: surveykit run --input survey.xlsx --group-col 2 --strategy silhouette`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, logger, err := newService(o)
			if err != nil {
				return err
			}
			defer logger.Sync()

			res, err := svc.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Run %s\n", res.RunID)
			fmt.Printf("  workbook: %s\n", res.Workbook)
			fmt.Printf("  charts:   %d\n", len(res.Charts))
			for _, r := range res.Reports {
				fmt.Printf("  report:   %s\n", r)
			}
			if res.Archive != "" {
				fmt.Printf("  archive:  %s\n", res.Archive)
			}
			for _, s := range res.Skipped {
				fmt.Printf("  skipped:  %s/%s %q (%s)\n", s.Partition, s.Column, s.Question, s.Reason)
			}
			return nil
		},
	}
}

func newTabulateCmd(o *overrides) *cobra.Command {
	return &cobra.Command{
		Use:   "tabulate [column]",
		Short: "Print the frequency table of one column as JSON",
		Long: `Tabulate one column of the general partition. The column is a letter (C)
or a zero-based index (2).

Example: surveykit tabulate B --input survey.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseColumn(args[0])
			if err != nil {
				return err
			}
			svc, logger, err := newService(o)
			if err != nil {
				return err
			}
			defer logger.Sync()

			q, err := svc.TabulateColumn(idx)
			if err != nil {
				return err
			}
			return printJSON(q)
		},
	}
}

func newClusterCmd(o *overrides) *cobra.Command {
	return &cobra.Command{
		Use:   "cluster [column]",
		Short: "Cluster one open-text column and print the assignment",
		Long: `Cluster one column of the general partition as open text.

Example: surveykit cluster D --input survey.xlsx --strategy elbow`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseColumn(args[0])
			if err != nil {
				return err
			}
			svc, logger, err := newService(o)
			if err != nil {
				return err
			}
			defer logger.Sync()

			res, err := svc.ClusterColumn(idx)
			if err != nil {
				return err
			}
			if res.Skipped() {
				fmt.Printf("%s: clustering skipped (%s)\n", res.Header, res.Reason)
				return nil
			}
			fmt.Printf("%s: k=%d inertia=%.4f\n", res.Header, res.Assignment.K, res.Assignment.Inertia)
			sizes := res.Assignment.Sizes()
			for c, kw := range res.Assignment.Keywords {
				fmt.Printf("  cluster %d (%d answers): %s\n", c, sizes[c], strings.Join(kw, ", "))
			}
			for i, d := range res.Corpus.Documents {
				fmt.Printf("  [%d] %s\n", res.Assignment.Labels[i], d.Original)
			}
			return nil
		},
	}
}

func newService(o *overrides) (*app.SurveyService, *internal.Logger, error) {
	cfg, err := config.Parse()
	if err != nil {
		return nil, nil, err
	}
	o.apply(cfg)

	logger, err := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return app.NewSurveyService(cfg, logger), logger, nil
}

func (o *overrides) apply(cfg *config.Config) {
	if o.input != "" {
		cfg.Paths.InputXLSX = o.input
	}
	if o.outputDir != "" {
		cfg.Paths.OutputDir = o.outputDir
		cfg.Paths.OutputXLSX = filepath.Join(o.outputDir, filepath.Base(cfg.Paths.OutputXLSX))
	}
	if o.groupCol >= -1 {
		cfg.Survey.GroupByColIndex = o.groupCol
	}
	if o.topN > 0 {
		cfg.Survey.TopN = o.topN
	}
	if o.strategy != "" {
		cfg.Clustering.Strategy = o.strategy
	}
	if o.format != "" {
		cfg.Charts.Format = o.format
	}
	if o.llm {
		cfg.AI.Enabled = true
	}
	if o.noZip {
		cfg.Paths.ZipOutput = false
	}
}

// parseColumn accepts a column letter or a zero-based index
func parseColumn(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("column index must be non-negative, got %d", n)
		}
		return n, nil
	}
	n, err := excelize.ColumnNameToNumber(s)
	if err != nil {
		return 0, fmt.Errorf("invalid column %q: %w", s, err)
	}
	return n - 1, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
