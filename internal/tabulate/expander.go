package tabulate

import (
	"strings"

	"surveykit/domain/survey"
)

// Expand flattens a multiple-choice column into one token per selection.
// String cells are split on sep and each part trimmed; empty parts are
// discarded. Non-string scalars count as a single selection.
func Expand(values []survey.Cell, sep string) []survey.Cell {
	out := make([]survey.Cell, 0, len(values))
	for _, v := range values {
		switch {
		case v.IsMissing():
			continue
		case v.IsString():
			for _, part := range strings.Split(v.Text, sep) {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				out = append(out, survey.Text(part))
			}
		default:
			out = append(out, v)
		}
	}
	return out
}
