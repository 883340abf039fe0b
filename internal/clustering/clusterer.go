package clustering

import (
	"sort"

	"surveykit/domain/survey"
	"surveykit/internal/errors"
)

// Cluster runs seeded k-means with k clusters over m and labels every centroid
// with its topN highest-weighted terms
func Cluster(m *Matrix, k, topN int, km KMeans) (survey.ClusterAssignment, error) {
	km.K = k
	res, err := km.Fit(m.Weights)
	if err != nil {
		return survey.ClusterAssignment{}, errors.Wrapf(err, "clustering %d documents", m.Docs())
	}

	keywords := make([][]string, k)
	for c := 0; c < k; c++ {
		keywords[c] = topTerms(res.Centroids.RawRowView(c), m.Vocabulary, topN)
	}
	return survey.ClusterAssignment{
		K:        k,
		Labels:   res.Labels,
		Keywords: keywords,
		Inertia:  res.Inertia,
	}, nil
}

// topTerms orders terms by descending weight, ties by vocabulary order
func topTerms(weights []float64, vocab []string, n int) []string {
	idx := make([]int, len(weights))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return weights[idx[a]] > weights[idx[b]]
	})
	if n > len(idx) {
		n = len(idx)
	}
	terms := make([]string, 0, n)
	for _, i := range idx[:n] {
		terms = append(terms, vocab[i])
	}
	return terms
}
