package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"surveykit/domain/survey"
	"surveykit/internal/clustering"
	"surveykit/internal/errors"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the complete run configuration; it is passed explicitly to the services
type Config struct {
	Paths      PathConfig
	Survey     SurveyConfig
	Charts     ChartConfig
	Clustering ClusteringConfig
	Text       TextConfig
	AI         AIConfig
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
}

// PathConfig holds input and output locations
type PathConfig struct {
	InputXLSX      string `env:"INPUT_XLSX"`
	OutputXLSX     string `env:"OUTPUT_XLSX" envDefault:"output/analysis.xlsx"`
	OutputDir      string `env:"OUTPUT_DIR" envDefault:"output"`
	CleanOutputDir bool   `env:"CLEAN_OUTPUT_DIR" envDefault:"true"`
	ZipOutput      bool   `env:"ZIP_OUTPUT" envDefault:"true"`
}

// SurveyConfig holds the tabulation settings
type SurveyConfig struct {
	ControlSheet    string `env:"CONTROL_SHEET_NAME" envDefault:"respostas_validas"`
	Separator       string `env:"MULTIPLE_SEPARATOR" envDefault:";"`
	TopN            int    `env:"TOP_N" envDefault:"10"`
	GroupByColIndex int    `env:"GROUP_BY_COL_INDEX" envDefault:"-1"`
	OthersLabel     string `env:"OTHERS_LABEL" envDefault:"Outros"`
	GeneralLabel    string `env:"GENERAL_LABEL" envDefault:"Geral"`
	InvalidLabel    string `env:"INVALID_ANSWER_LABEL" envDefault:"Invalid/Gibberish/NA"`
	ClosedKeyword   string `env:"QTYPE_CLOSED" envDefault:"FECHADA"`
	MultipleKeyword string `env:"QTYPE_MULTIPLE" envDefault:"MÚLTIPLA"`
	OpenKeyword     string `env:"QTYPE_OPEN" envDefault:"ABERTA"`
	IgnoreKeyword   string `env:"QTYPE_IGNORE" envDefault:"IGNORAR"`
}

// Grouped reports whether a grouping column is configured
func (s SurveyConfig) Grouped() bool {
	return s.GroupByColIndex >= 0
}

// TypeKeywords maps upper-cased control-row keywords to question types.
// The English names and the unaccented MULTIPLA are always accepted.
func (s SurveyConfig) TypeKeywords() map[string]survey.QuestionType {
	keywords := map[string]survey.QuestionType{
		"CLOSED":   survey.QuestionClosed,
		"MULTIPLE": survey.QuestionMultiple,
		"MULTIPLA": survey.QuestionMultiple,
		"OPEN":     survey.QuestionOpen,
		"IGNORE":   survey.QuestionIgnore,
	}
	for keyword, qType := range map[string]survey.QuestionType{
		s.ClosedKeyword:   survey.QuestionClosed,
		s.MultipleKeyword: survey.QuestionMultiple,
		s.OpenKeyword:     survey.QuestionOpen,
		s.IgnoreKeyword:   survey.QuestionIgnore,
	} {
		if k := strings.ToUpper(strings.TrimSpace(keyword)); k != "" {
			keywords[k] = qType
		}
	}
	return keywords
}

// ChartConfig holds chart styling
type ChartConfig struct {
	PieColors []string `env:"PIE_COLORS" envSeparator:"," envDefault:"#1E325A,#710101,#051C48,#141E34"`
	BarColor  string   `env:"BAR_COLOR" envDefault:"#1E325A"`
	Format    string   `env:"CHART_FORMAT" envDefault:"jpg"`
}

// ClusteringConfig holds the open-text clustering settings
type ClusteringConfig struct {
	Strategy    string  `env:"CLUSTER_STRATEGY" envDefault:"elbow"`
	KMin        int     `env:"CLUSTER_K_MIN" envDefault:"2"`
	KMax        int     `env:"CLUSTER_K_MAX" envDefault:"10"`
	TopKeywords int     `env:"CLUSTER_TOP_KEYWORDS" envDefault:"3"`
	Seed        int64   `env:"CLUSTER_SEED" envDefault:"42"`
	NInit       int     `env:"CLUSTER_N_INIT" envDefault:"10"`
	MaxIter     int     `env:"CLUSTER_MAX_ITER" envDefault:"300"`
	MinDF       float64 `env:"TFIDF_MIN_DF" envDefault:"0"`
	MaxDF       float64 `env:"TFIDF_MAX_DF" envDefault:"0.95"`
}

// KMeans returns the k-means settings shared by selection and final clustering
func (c ClusteringConfig) KMeans() clustering.KMeans {
	return clustering.KMeans{NInit: c.NInit, MaxIter: c.MaxIter, Tol: 1e-4, Seed: c.Seed}
}

// TextConfig selects the linguistic resources
type TextConfig struct {
	Language    string `env:"LANGUAGE" envDefault:"es"`
	LexiconPath string `env:"LEXICON_PATH"`
}

// AIConfig holds AI/LLM related settings
type AIConfig struct {
	Enabled     bool          `env:"LLM_FEATURES_ON" envDefault:"false"`
	OpenAIKey   string        `env:"OPENAI_API_KEY"`
	Model       string        `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	BaseURL     string        `env:"LLM_BASE_URL"`
	MaxTokens   int           `env:"LLM_MAX_TOKENS" envDefault:"4000"`
	Temperature float32       `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	Timeout     time.Duration `env:"LLM_TIMEOUT" envDefault:"2m"`
	PromptsDir  string        `env:"PROMPTS_DIR"`
}

// Parse reads .env (if present) and the environment without validating
func Parse() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return cfg, nil
}

// Load reads configuration from the environment and validates it
func Load() (*Config, error) {
	cfg, err := Parse()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Validate checks the configuration is self-consistent
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.InputXLSX) == "" {
		return errors.ConfigInvalid("INPUT_XLSX is required")
	}
	if c.Paths.OutputDir == "" || c.Paths.OutputXLSX == "" {
		return errors.ConfigInvalid("output directory and workbook path are required")
	}
	if c.Survey.TopN < 1 {
		return errors.ConfigInvalid(fmt.Sprintf("TOP_N must be at least 1, got %d", c.Survey.TopN))
	}
	if c.Survey.Separator == "" {
		return errors.ConfigInvalid("MULTIPLE_SEPARATOR must not be empty")
	}
	if c.Survey.ControlSheet == "" {
		return errors.ConfigInvalid("CONTROL_SHEET_NAME must not be empty")
	}

	cl := c.Clustering
	if cl.KMin < 1 || cl.KMax < cl.KMin {
		return errors.ConfigInvalid(fmt.Sprintf("invalid cluster range [%d, %d]", cl.KMin, cl.KMax))
	}
	if cl.TopKeywords < 1 {
		return errors.ConfigInvalid("CLUSTER_TOP_KEYWORDS must be at least 1")
	}
	if cl.MinDF < 0 || cl.MaxDF > 1 || cl.MinDF > cl.MaxDF {
		return errors.ConfigInvalid(fmt.Sprintf("invalid document-frequency bounds [%g, %g]", cl.MinDF, cl.MaxDF))
	}
	if _, err := clustering.ParseStrategy(cl.Strategy); err != nil {
		return err
	}

	if len(c.Charts.PieColors) == 0 {
		return errors.ConfigInvalid("PIE_COLORS must list at least one color")
	}
	for _, color := range append([]string{c.Charts.BarColor}, c.Charts.PieColors...) {
		if !hexColor.MatchString(strings.TrimSpace(color)) {
			return errors.ConfigInvalid(fmt.Sprintf("invalid color %q", color))
		}
	}
	switch strings.ToLower(c.Charts.Format) {
	case "jpg", "jpeg", "png":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unsupported chart format %q", c.Charts.Format))
	}

	if c.AI.Enabled && c.AI.OpenAIKey == "" {
		return errors.ConfigInvalid("OPENAI_API_KEY is required when LLM_FEATURES_ON is set")
	}
	return nil
}
