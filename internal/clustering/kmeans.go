package clustering

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"surveykit/internal/errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// KMeans configures seeded Lloyd iterations with k-means++ seeding
type KMeans struct {
	K       int
	NInit   int
	MaxIter int
	// Tol is relative to the mean per-feature variance of the data
	Tol  float64
	Seed int64
}

// DefaultKMeans mirrors the defaults used across the tool
func DefaultKMeans(k int) KMeans {
	return KMeans{K: k, NInit: 10, MaxIter: 300, Tol: 1e-4, Seed: 42}
}

// KMeansResult is the best of NInit runs, by inertia
type KMeansResult struct {
	Labels    []int
	Centroids *mat.Dense
	Inertia   float64
	Iters     int
}

// Fit clusters the rows of x. The same seed and input always give the same result.
func (km KMeans) Fit(x *mat.Dense) (*KMeansResult, error) {
	n, _ := x.Dims()
	if km.K < 1 || km.K > n {
		return nil, errors.InvalidInput(fmt.Sprintf("k=%d outside [1, %d]", km.K, n))
	}
	if distinct := DistinctRows(x); km.K > distinct {
		return nil, errors.InvalidInput(fmt.Sprintf("k=%d exceeds %d distinct vectors", km.K, distinct))
	}

	nInit := km.NInit
	if nInit < 1 {
		nInit = 1
	}
	maxIter := km.MaxIter
	if maxIter < 1 {
		maxIter = 300
	}
	tol := km.Tol * meanVariance(x)

	rng := rand.New(rand.NewSource(km.Seed))
	var best *KMeansResult
	for run := 0; run < nInit; run++ {
		centroids := seedPlusPlus(x, km.K, rng)
		labels := make([]int, n)
		iters := 0
		for iters < maxIter {
			iters++
			assign(x, centroids, labels)
			next := updateCentroids(x, labels, centroids, km.K)
			shift := 0.0
			for c := 0; c < km.K; c++ {
				shift += sqDist(centroids.RawRowView(c), next.RawRowView(c))
			}
			centroids = next
			if shift <= tol {
				break
			}
		}
		inertia := assign(x, centroids, labels)
		if best == nil || inertia < best.Inertia {
			best = &KMeansResult{Labels: labels, Centroids: centroids, Inertia: inertia, Iters: iters}
		}
	}
	return best, nil
}

// seedPlusPlus picks k initial centroids with D² weighting
func seedPlusPlus(x *mat.Dense, k int, rng *rand.Rand) *mat.Dense {
	n, dims := x.Dims()
	centroids := mat.NewDense(k, dims, nil)
	first := rng.Intn(n)
	copy(centroids.RawRowView(0), x.RawRowView(first))

	closest := make([]float64, n)
	for i := range closest {
		closest[i] = sqDist(x.RawRowView(i), centroids.RawRowView(0))
	}
	for c := 1; c < k; c++ {
		total := floats.Sum(closest)
		pick := 0
		if total > 0 {
			target := rng.Float64() * total
			acc := 0.0
			pick = n - 1
			for i, d := range closest {
				acc += d
				if acc >= target && d > 0 {
					pick = i
					break
				}
			}
		} else {
			pick = rng.Intn(n)
		}
		copy(centroids.RawRowView(c), x.RawRowView(pick))
		for i := range closest {
			if d := sqDist(x.RawRowView(i), centroids.RawRowView(c)); d < closest[i] {
				closest[i] = d
			}
		}
	}
	return centroids
}

// assign sets labels to the nearest centroid and returns the inertia
func assign(x, centroids *mat.Dense, labels []int) float64 {
	n, _ := x.Dims()
	k, _ := centroids.Dims()
	inertia := 0.0
	for i := 0; i < n; i++ {
		row := x.RawRowView(i)
		bestC, bestD := 0, math.Inf(1)
		for c := 0; c < k; c++ {
			if d := sqDist(row, centroids.RawRowView(c)); d < bestD {
				bestC, bestD = c, d
			}
		}
		labels[i] = bestC
		inertia += bestD
	}
	return inertia
}

// updateCentroids recomputes cluster means; an empty cluster takes the point
// farthest from its current centroid
func updateCentroids(x *mat.Dense, labels []int, prev *mat.Dense, k int) *mat.Dense {
	n, dims := x.Dims()
	next := mat.NewDense(k, dims, nil)
	sizes := make([]int, k)
	for i := 0; i < n; i++ {
		floats.Add(next.RawRowView(labels[i]), x.RawRowView(i))
		sizes[labels[i]]++
	}
	taken := make(map[int]bool)
	for c := 0; c < k; c++ {
		if sizes[c] > 0 {
			floats.Scale(1/float64(sizes[c]), next.RawRowView(c))
			continue
		}
		far, farD := -1, -1.0
		for i := 0; i < n; i++ {
			if taken[i] {
				continue
			}
			if d := sqDist(x.RawRowView(i), prev.RawRowView(labels[i])); d > farD {
				far, farD = i, d
			}
		}
		taken[far] = true
		copy(next.RawRowView(c), x.RawRowView(far))
	}
	return next
}

func meanVariance(x *mat.Dense) float64 {
	n, dims := x.Dims()
	if n == 0 || dims == 0 {
		return 0
	}
	col := make([]float64, n)
	total := 0.0
	for j := 0; j < dims; j++ {
		mat.Col(col, j, x)
		mean := floats.Sum(col) / float64(n)
		v := 0.0
		for _, value := range col {
			v += (value - mean) * (value - mean)
		}
		total += v / float64(n)
	}
	return total / float64(dims)
}

func sqDist(a, b []float64) float64 {
	d := 0.0
	for i := range a {
		diff := a[i] - b[i]
		d += diff * diff
	}
	return d
}

// DistinctRows counts rows that are not exact duplicates of an earlier row
func DistinctRows(x *mat.Dense) int {
	n, _ := x.Dims()
	seen := make(map[string]struct{}, n)
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.Reset()
		for _, v := range x.RawRowView(i) {
			b.WriteString(strconv.FormatUint(math.Float64bits(v), 16))
			b.WriteByte(',')
		}
		seen[b.String()] = struct{}{}
	}
	return len(seen)
}
