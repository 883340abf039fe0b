package tabulate

import (
	"math"
	"sort"

	"surveykit/domain/survey"
)

// Aggregate counts token occurrences. The result is sorted descending by
// count; ties keep first-encountered order.
func Aggregate(tokens []survey.Cell) survey.Distribution {
	index := make(map[survey.Cell]int)
	dist := survey.Distribution{}
	for _, tok := range tokens {
		if i, ok := index[tok]; ok {
			dist[i].Count++
			continue
		}
		index[tok] = len(dist)
		dist = append(dist, survey.Entry{Label: tok.Label(), Count: 1})
	}
	SortByCount(dist)
	return dist
}

// SortByCount orders entries descending by raw count, stable on ties
func SortByCount(d survey.Distribution) {
	sort.SliceStable(d, func(i, j int) bool {
		return d[i].Count > d[j].Count
	})
}

// ToPercentages fills Percent for every entry as count/total*100 rounded to
// two decimals. A zero total yields an empty distribution. Ordering follows
// raw counts, never the rounded percentages.
func ToPercentages(d survey.Distribution) survey.Distribution {
	weights := make([]float64, len(d))
	for i, e := range d {
		weights[i] = float64(e.Count)
	}
	shares := roundedShares(weights)
	if shares == nil {
		return survey.Distribution{}
	}

	out := make(survey.Distribution, len(d))
	copy(out, d)
	for i := range out {
		out[i].Percent = shares[i]
	}
	SortByCount(out)
	return out
}

// roundedShares converts weights into percentages rounded to 2 decimals.
// No adjustment is made to force an exact sum of 100.
func roundedShares(weights []float64) []float64 {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		return nil
	}
	shares := make([]float64, len(weights))
	for i, w := range weights {
		shares[i] = round2(w / total * 100)
	}
	return shares
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
