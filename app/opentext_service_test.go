package app

import (
	"testing"

	"surveykit/domain/survey"
	"surveykit/internal/config"
	"surveykit/internal/textproc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOpenText(t *testing.T, cfg config.ClusteringConfig) *OpenTextService {
	t.Helper()
	corpus, err := textproc.NewCorpusBuilder("es", "", "Invalid/Gibberish/NA")
	require.NoError(t, err)
	svc, err := NewOpenTextService(cfg, corpus, nil)
	require.NoError(t, err)
	return svc
}

func clusteringDefaults() config.ClusteringConfig {
	return config.ClusteringConfig{
		Strategy: "elbow", KMin: 2, KMax: 10, TopKeywords: 2,
		Seed: 42, NInit: 10, MaxIter: 300, MinDF: 0, MaxDF: 0.95,
	}
}

func openColumn(values ...string) survey.Column {
	col := survey.Column{Index: 2, Header: "Comentario", Type: survey.QuestionOpen}
	for _, v := range values {
		if v == "" {
			col.Values = append(col.Values, survey.Missing())
			continue
		}
		col.Values = append(col.Values, survey.Text(v))
	}
	return col
}

func TestAnalyzeClustersEveryDocument(t *testing.T) {
	svc := newOpenText(t, clusteringDefaults())
	res := svc.Analyze(openColumn("precio muy alto", "", "precio alto", "envío rápido", "envío muy rápido"))

	require.False(t, res.Skipped(), res.Reason)
	assert.Equal(t, "Comentario", res.Header)
	assert.Len(t, res.Corpus.Documents, 4)
	assert.Len(t, res.Assignment.Labels, 4)
	for _, l := range res.Assignment.Labels {
		assert.True(t, l >= 0 && l < res.Assignment.K)
	}
	for _, kw := range res.Assignment.Keywords {
		assert.LessOrEqual(t, len(kw), 2)
	}
}

func TestAnalyzeIdenticalResponses(t *testing.T) {
	svc := newOpenText(t, clusteringDefaults())
	res := svc.Analyze(openColumn("precio alto", "precio alto", "precio alto", "precio alto", "precio alto", "envío rápido"))

	require.False(t, res.Skipped(), res.Reason)
	assert.LessOrEqual(t, res.Assignment.K, 2)
}

func TestAnalyzeSkips(t *testing.T) {
	svc := newOpenText(t, clusteringDefaults())

	t.Run("no responses", func(t *testing.T) {
		res := svc.Analyze(openColumn("", ""))
		assert.True(t, res.Skipped())
		assert.Equal(t, ReasonNoResponses, res.Reason)
	})

	t.Run("only gibberish", func(t *testing.T) {
		res := svc.Analyze(openColumn("xx", "123", "zz"))
		assert.True(t, res.Skipped())
		assert.Equal(t, ReasonNoVocabulary, res.Reason)
		require.Len(t, res.Corpus.Documents, 3)
		for _, d := range res.Corpus.Documents {
			assert.Equal(t, survey.DocumentPlaceholder, d.Status)
		}
	})
}

func TestNewOpenTextServiceRejectsStrategy(t *testing.T) {
	corpus, err := textproc.NewCorpusBuilder("es", "", "NA")
	require.NoError(t, err)
	cfg := clusteringDefaults()
	cfg.Strategy = "gap"
	_, err = NewOpenTextService(cfg, corpus, nil)
	assert.Error(t, err)
}
