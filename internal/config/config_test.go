package config

import (
	"testing"
	"time"

	"surveykit/domain/survey"
	"surveykit/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("INPUT_XLSX", "input/survey.xlsx")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "output/analysis.xlsx", cfg.Paths.OutputXLSX)
	assert.Equal(t, "respostas_validas", cfg.Survey.ControlSheet)
	assert.Equal(t, ";", cfg.Survey.Separator)
	assert.Equal(t, 10, cfg.Survey.TopN)
	assert.False(t, cfg.Survey.Grouped())
	assert.Equal(t, "Outros", cfg.Survey.OthersLabel)
	assert.Equal(t, []string{"#1E325A", "#710101", "#051C48", "#141E34"}, cfg.Charts.PieColors)
	assert.Equal(t, "elbow", cfg.Clustering.Strategy)
	assert.Equal(t, int64(42), cfg.Clustering.Seed)
	assert.InDelta(t, 0.95, cfg.Clustering.MaxDF, 1e-9)
	assert.Equal(t, 2*time.Minute, cfg.AI.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("INPUT_XLSX", "in.xlsx")
	t.Setenv("TOP_N", "5")
	t.Setenv("GROUP_BY_COL_INDEX", "2")
	t.Setenv("PIE_COLORS", "#000000,#FFFFFF")
	t.Setenv("CLUSTER_STRATEGY", "silhouette")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Survey.TopN)
	assert.True(t, cfg.Survey.Grouped())
	assert.Equal(t, []string{"#000000", "#FFFFFF"}, cfg.Charts.PieColors)
	assert.Equal(t, "silhouette", cfg.Clustering.Strategy)
}

func TestParseRejectsMalformedValues(t *testing.T) {
	t.Setenv("TOP_N", "ten")
	_, err := Parse()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestValidate(t *testing.T) {
	t.Setenv("INPUT_XLSX", "in.xlsx")
	base, err := Parse()
	require.NoError(t, err)

	cases := map[string]func(c *Config){
		"missing input":    func(c *Config) { c.Paths.InputXLSX = " " },
		"top n":            func(c *Config) { c.Survey.TopN = 0 },
		"separator":        func(c *Config) { c.Survey.Separator = "" },
		"k range":          func(c *Config) { c.Clustering.KMax = 1 },
		"df bounds":        func(c *Config) { c.Clustering.MinDF = 0.99 },
		"strategy":         func(c *Config) { c.Clustering.Strategy = "gap" },
		"color":            func(c *Config) { c.Charts.BarColor = "navy" },
		"format":           func(c *Config) { c.Charts.Format = "gif" },
		"llm without key":  func(c *Config) { c.AI.Enabled = true },
		"keywords":         func(c *Config) { c.Clustering.TopKeywords = 0 },
		"no pie colors":    func(c *Config) { c.Charts.PieColors = nil },
		"no control sheet": func(c *Config) { c.Survey.ControlSheet = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := *base
			c.Charts.PieColors = append([]string(nil), base.Charts.PieColors...)
			mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestTypeKeywords(t *testing.T) {
	s := SurveyConfig{ClosedKeyword: "fechada", MultipleKeyword: "MÚLTIPLA", OpenKeyword: "ABERTA", IgnoreKeyword: "IGNORAR"}
	keywords := s.TypeKeywords()

	assert.Equal(t, survey.QuestionClosed, keywords["FECHADA"])
	assert.Equal(t, survey.QuestionMultiple, keywords["MÚLTIPLA"])
	assert.Equal(t, survey.QuestionMultiple, keywords["MULTIPLA"])
	assert.Equal(t, survey.QuestionOpen, keywords["OPEN"])
	assert.Equal(t, survey.QuestionIgnore, keywords["IGNORAR"])
}
