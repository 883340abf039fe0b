package ai

import (
	"fmt"
	"strings"
)

// QuestionRef identifies a tabulated question by its spreadsheet column
type QuestionRef struct {
	Letter string
	Header string
	// Empty marks a question without valid responses
	Empty bool
}

// CompileQuestionFragments renders one "<letter>: <question>" line per question.
// Questions without data are annotated so the outline can mention them without a chart.
func CompileQuestionFragments(questions []QuestionRef) []string {
	var out []string
	for _, q := range questions {
		line := fmt.Sprintf("%s: %s", q.Letter, strings.Join(strings.Fields(q.Header), " "))
		if q.Empty {
			line += " (sem respostas válidas)"
		}
		out = append(out, line)
	}

	// Deduplicate while preserving order
	seen := make(map[string]struct{}, len(out))
	dedup := out[:0]
	for _, s := range out {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		dedup = append(dedup, s)
	}
	return dedup
}
