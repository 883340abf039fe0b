package tabulate

import (
	"sort"

	"surveykit/domain/survey"
)

// Cap keeps the n largest entries and folds the rest into one overflow
// bucket named overflowLabel. Distributions with at most n entries are
// returned unchanged. When a top-n entry already carries overflowLabel the
// remainder is added to it instead of creating a duplicate; that entry is
// then flagged as overflow.
func Cap(d survey.Distribution, n int, overflowLabel string) survey.Distribution {
	sorted := make(survey.Distribution, len(d))
	copy(sorted, d)
	SortByCount(sorted)

	if len(sorted) <= n {
		return sorted
	}

	top := make(survey.Distribution, n, n+1)
	copy(top, sorted[:n])

	rest := 0
	for _, e := range sorted[n:] {
		rest += e.Count
	}
	// A zero tail adds no overflow bucket. Aggregate never yields zero counts.
	if rest == 0 {
		return top
	}

	if i := top.Find(overflowLabel); i >= 0 {
		top[i].Count += rest
		top[i].Overflow = true
		return top
	}
	return append(top, survey.Entry{Label: overflowLabel, Count: rest, Overflow: true})
}

// Collides reports whether a genuine answer already uses the overflow label
func Collides(d survey.Distribution, overflowLabel string) bool {
	for _, e := range d {
		if e.Label == overflowLabel && !e.Overflow {
			return true
		}
	}
	return false
}

// PresentationOrder moves the overflow bucket to the end, keeping the
// relative order of every other entry
func PresentationOrder(d survey.Distribution) survey.Distribution {
	out := make(survey.Distribution, len(d))
	copy(out, d)
	sort.SliceStable(out, func(i, j int) bool {
		return !out[i].Overflow && out[j].Overflow
	})
	return out
}
