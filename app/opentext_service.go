package app

import (
	stderrors "errors"

	"surveykit/domain/survey"
	"surveykit/internal"
	"surveykit/internal/clustering"
	"surveykit/internal/config"
	"surveykit/internal/textproc"
)

// Reasons recorded when an open question is not clustered
const (
	ReasonNoResponses  = "no responses"
	ReasonNoVocabulary = "no usable vocabulary"
)

// OpenTextService runs the normalize, vectorize, select and cluster stages for open questions
type OpenTextService struct {
	corpus      *textproc.CorpusBuilder
	vectorizer  *clustering.Vectorizer
	selector    clustering.Selector
	kmeans      clustering.KMeans
	topKeywords int
	logger      *internal.Logger
}

// NewOpenTextService builds the clustering stages from configuration
func NewOpenTextService(cfg config.ClusteringConfig, corpus *textproc.CorpusBuilder, logger *internal.Logger) (*OpenTextService, error) {
	if logger == nil {
		logger = internal.NopLogger()
	}
	strategy, err := clustering.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	km := cfg.KMeans()
	return &OpenTextService{
		corpus:      corpus,
		vectorizer:  clustering.NewVectorizer(cfg.MinDF, cfg.MaxDF),
		selector:    clustering.Selector{Strategy: strategy, KMin: cfg.KMin, KMax: cfg.KMax, KMeans: km},
		kmeans:      km,
		topKeywords: cfg.TopKeywords,
		logger:      logger,
	}, nil
}

// Analyze clusters one open column. Failures are recorded on the result and never
// abort the run: the raw answers stay available through the corpus.
func (s *OpenTextService) Analyze(col survey.Column) survey.OpenTextResult {
	res := survey.OpenTextResult{Column: col.Index, Header: col.Header}
	res.Corpus = s.corpus.Build(col)
	if len(res.Corpus.Documents) == 0 {
		res.Reason = ReasonNoResponses
		s.logger.Info("[OpenText] %q has no responses, skipping clustering", col.Header)
		return res
	}

	matrix, err := s.vectorizer.FitTransform(res.Corpus.Texts())
	if err != nil {
		if stderrors.Is(err, clustering.ErrEmptyVocabulary) {
			res.Reason = ReasonNoVocabulary
			s.logger.Warn("[OpenText] %q: %v; clustering skipped", col.Header, err)
		} else {
			res.Reason = err.Error()
			s.logger.Error("[OpenText] %q: vectorization failed: %v", col.Header, err)
		}
		return res
	}

	sel, err := s.selector.SelectK(matrix.Weights)
	if err != nil {
		res.Reason = err.Error()
		s.logger.Error("[OpenText] %q: cluster selection failed: %v", col.Header, err)
		return res
	}
	if sel.Adjusted {
		s.logger.Info("[OpenText] %q: only %d distinct responses, using k=%d", col.Header, sel.Distinct, sel.K)
	}

	assignment, err := clustering.Cluster(matrix, sel.K, s.topKeywords, s.kmeans)
	if err != nil {
		res.Reason = err.Error()
		s.logger.Error("[OpenText] %q: clustering failed: %v", col.Header, err)
		return res
	}
	res.Assignment = &assignment
	s.logger.Debug("[OpenText] %q: %d documents, %d terms, k=%d", col.Header, matrix.Docs(), len(matrix.Vocabulary), sel.K)
	return res
}
