package tabulate

import (
	"surveykit/domain/survey"
)

// Options controls one run of the tabulation pipeline
type Options struct {
	Separator     string
	TopN          int
	OverflowLabel string
}

// Result is the tabulated view of one closed or multiple-choice column
type Result struct {
	Column survey.Column
	// Counts is the raw distribution before capping
	Counts survey.Distribution
	// Shares is the capped distribution with percentages, in presentation order
	Shares survey.Distribution
	// Collision is set when a real answer used the overflow label and was merged
	Collision bool
}

// Empty reports the "no valid responses" condition
func (r Result) Empty() bool {
	return len(r.Shares) == 0
}

// Tabulate runs clean/expand, aggregate, cap and percentage steps for a column.
// Open and ignore columns are tabulated as closed; callers route them away.
func Tabulate(col survey.Column, opts Options) Result {
	var tokens []survey.Cell
	if col.Type == survey.QuestionMultiple {
		tokens = Expand(col.Values, opts.Separator)
	} else {
		tokens = Clean(col.Values)
	}

	res := Result{Column: col, Counts: Aggregate(tokens)}
	if len(tokens) == 0 {
		res.Shares = survey.Distribution{}
		return res
	}

	capped := Cap(res.Counts, opts.TopN, opts.OverflowLabel)
	res.Collision = len(res.Counts) > opts.TopN && Collides(res.Counts[:opts.TopN], opts.OverflowLabel)
	res.Shares = PresentationOrder(ToPercentages(capped))
	return res
}

// Notes written in place of a distribution when a column has no valid data
const (
	NoteNoResponses  = "(no valid responses — all blank/NA)"
	NoteNoSelections = "(no valid selections — all blank/NA)"
)

// Summary converts the result into the value consumed by the workbook and chart writers
func (r Result) Summary() survey.QuestionSummary {
	s := survey.QuestionSummary{
		Column:    r.Column.Index,
		Header:    r.Column.Header,
		Type:      r.Column.Type,
		Counts:    r.Counts,
		Shares:    r.Shares,
		Collision: r.Collision,
	}
	if r.Empty() {
		s.Note = NoteNoResponses
		if r.Column.Type == survey.QuestionMultiple {
			s.Note = NoteNoSelections
		}
	}
	return s
}
