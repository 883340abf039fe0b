package tabulate

import (
	"strings"

	"surveykit/domain/survey"
)

// Clean normalizes a single-answer column: strings are trimmed, missing and
// whitespace-only cells are dropped, other scalars pass through unchanged.
// An all-blank column yields an empty, non-nil slice.
func Clean(values []survey.Cell) []survey.Cell {
	out := make([]survey.Cell, 0, len(values))
	for _, v := range values {
		if v.Blank() {
			continue
		}
		if v.IsString() {
			v = survey.Text(strings.TrimSpace(v.Text))
		}
		out = append(out, v)
	}
	return out
}
