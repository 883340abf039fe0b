package clustering

import (
	"fmt"
	"math"

	"surveykit/internal/errors"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"
)

// Strategy names a cluster-count selection method
type Strategy string

const (
	StrategyElbow      Strategy = "elbow"
	StrategySilhouette Strategy = "silhouette"
)

// ParseStrategy validates a CLUSTER_STRATEGY value
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyElbow, StrategySilhouette:
		return Strategy(s), nil
	default:
		return "", errors.ConfigInvalid(fmt.Sprintf("unknown cluster strategy %q", s))
	}
}

// Selector searches [KMin, KMax] for a cluster count
type Selector struct {
	Strategy Strategy
	KMin     int
	KMax     int
	// KMeans supplies NInit, MaxIter, Tol and Seed for every candidate fit
	KMeans KMeans
}

// Selection records how k was chosen
type Selection struct {
	K int
	// Candidates and Scores are parallel: inertia for elbow, mean silhouette otherwise
	Candidates []int
	Scores     []float64
	Distinct   int
	// Adjusted is set when k was reduced to fit the distinct vector count
	Adjusted bool
}

// SelectK picks k for the rows of x. The result never exceeds the number of
// distinct rows: an oversized choice is reduced to distinct-2, floored at 1.
func (s Selector) SelectK(x *mat.Dense) (Selection, error) {
	n, _ := x.Dims()
	if n == 0 {
		return Selection{}, errors.InvalidInput("cannot select k for an empty matrix")
	}
	distinct := DistinctRows(x)
	sel := Selection{Distinct: distinct}

	lo, hi := s.KMin, min(s.KMax, distinct, n)
	if lo < 1 {
		lo = 1
	}
	if s.Strategy == StrategySilhouette {
		lo = max(lo, 2)
		hi = min(hi, n-1)
	}

	chosen := s.KMax
	if hi >= lo {
		for k := lo; k <= hi; k++ {
			km := s.KMeans
			km.K = k
			res, err := km.Fit(x)
			if err != nil {
				return Selection{}, errors.Wrapf(err, "fitting k=%d", k)
			}
			score := res.Inertia
			if s.Strategy == StrategySilhouette {
				score = silhouette(x, res.Labels, k)
			}
			sel.Candidates = append(sel.Candidates, k)
			sel.Scores = append(sel.Scores, score)
		}
		if s.Strategy == StrategySilhouette {
			chosen = sel.Candidates[argmax(sel.Scores)]
		} else {
			chosen = sel.Candidates[elbow(sel.Candidates, sel.Scores)]
		}
	}

	if chosen > distinct {
		chosen = max(1, distinct-2)
		sel.Adjusted = true
	}
	sel.K = chosen
	return sel, nil
}

// elbow returns the index of the point farthest from the chord joining the
// first and last points of the inertia curve, on axes scaled to [0, 1].
// Ties and flat curves resolve to the smallest k.
func elbow(ks []int, inertia []float64) int {
	if len(ks) < 3 {
		return 0
	}
	lo, _ := stats.Min(stats.Float64Data(inertia))
	hi, _ := stats.Max(stats.Float64Data(inertia))
	if hi-lo == 0 {
		return 0
	}
	kSpan := float64(ks[len(ks)-1] - ks[0])
	px := func(i int) float64 { return float64(ks[i]-ks[0]) / kSpan }
	py := func(i int) float64 { return (inertia[i] - lo) / (hi - lo) }

	last := len(ks) - 1
	x0, y0, x1, y1 := px(0), py(0), px(last), py(last)
	length := math.Hypot(x1-x0, y1-y0)
	best, bestD := 0, 0.0
	for i := 1; i < last; i++ {
		d := math.Abs((y1-y0)*px(i)-(x1-x0)*py(i)+x1*y0-y1*x0) / length
		if d > bestD+1e-12 {
			best, bestD = i, d
		}
	}
	return best
}

// silhouette returns the mean silhouette coefficient; singleton clusters score 0
func silhouette(x *mat.Dense, labels []int, k int) float64 {
	n, _ := x.Dims()
	sizes := make([]int, k)
	for _, l := range labels {
		sizes[l]++
	}
	scores := make(stats.Float64Data, n)
	sums := make([]float64, k)
	for i := 0; i < n; i++ {
		if sizes[labels[i]] <= 1 {
			continue
		}
		for c := range sums {
			sums[c] = 0
		}
		row := x.RawRowView(i)
		for j := 0; j < n; j++ {
			if j != i {
				sums[labels[j]] += math.Sqrt(sqDist(row, x.RawRowView(j)))
			}
		}
		a := sums[labels[i]] / float64(sizes[labels[i]]-1)
		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if c != labels[i] && sizes[c] > 0 {
				b = math.Min(b, sums[c]/float64(sizes[c]))
			}
		}
		if denom := math.Max(a, b); denom > 0 && !math.IsInf(b, 1) {
			scores[i] = (b - a) / denom
		}
	}
	mean, err := stats.Mean(scores)
	if err != nil {
		return 0
	}
	return mean
}

func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}
