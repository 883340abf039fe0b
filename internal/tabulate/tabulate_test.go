package tabulate

import (
	"math"
	"testing"

	"surveykit/domain/survey"
	"surveykit/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(vals ...string) []survey.Cell {
	cells := make([]survey.Cell, len(vals))
	for i, v := range vals {
		cells[i] = survey.Text(v)
	}
	return cells
}

func labels(d survey.Distribution) []string {
	out := make([]string, len(d))
	for i, e := range d {
		out[i] = e.Label
	}
	return out
}

func TestClean_DropsBlankAndTrims(t *testing.T) {
	in := []survey.Cell{survey.Missing(), survey.Text(""), survey.Text("  "), survey.Text("Yes"), survey.Text(" No ")}
	assert.Equal(t, texts("Yes", "No"), Clean(in))
}

func TestClean_NonStringPassesThrough(t *testing.T) {
	in := []survey.Cell{survey.Number(3), survey.Bool(true), survey.Missing()}
	assert.Equal(t, []survey.Cell{survey.Number(3), survey.Bool(true)}, Clean(in))
}

func TestClean_AllMissingIsEmpty(t *testing.T) {
	out := Clean([]survey.Cell{survey.Missing(), survey.Text(" ")})
	require.NotNil(t, out)
	assert.Empty(t, out)
}

func TestExpand(t *testing.T) {
	assert.Empty(t, Expand(nil, ";"))
	assert.Equal(t, texts("a", "b", "c"), Expand(texts("a;b; c ;"), ";"))

	mixed := []survey.Cell{survey.Missing(), survey.Number(7), survey.Text(";;")}
	assert.Equal(t, []survey.Cell{survey.Number(7)}, Expand(mixed, ";"))
}

func TestAggregate_SumEqualsTokenCount(t *testing.T) {
	cases := [][]survey.Cell{
		nil,
		texts("a"),
		texts("a", "b", "a", "c", "b", "a"),
		{survey.Number(1), survey.Text("1"), survey.Number(1)},
	}
	for _, tokens := range cases {
		assert.Equal(t, len(tokens), Aggregate(tokens).Total())
	}
}

func TestAggregate_StableTieBreak(t *testing.T) {
	d := Aggregate(texts("b", "a", "c", "a", "b", "d"))
	assert.Equal(t, []string{"b", "a", "c", "d"}, labels(d))
	assert.Equal(t, 2, d[0].Count)
}

func TestAggregate_NumberAndTextAreDistinct(t *testing.T) {
	d := Aggregate([]survey.Cell{survey.Number(1), survey.Text("1")})
	assert.Len(t, d, 2)
}

func TestToPercentages(t *testing.T) {
	d := ToPercentages(Aggregate(texts("x", "y", "y")))
	require.Len(t, d, 2)
	assert.Equal(t, "y", d[0].Label)
	assert.Equal(t, 66.67, d[0].Percent)
	assert.Equal(t, 33.33, d[1].Percent)

	assert.Empty(t, ToPercentages(survey.Distribution{}))
	assert.Empty(t, ToPercentages(survey.Distribution{{Label: "zero", Count: 0}}))
}

func TestRoundedShares_IdempotentUpToRounding(t *testing.T) {
	weights := []float64{7, 3, 3, 1, 11, 2}
	first := roundedShares(weights)
	second := roundedShares(first)
	require.Len(t, second, len(first))
	for i := range first {
		assert.LessOrEqual(t, math.Abs(first[i]-second[i]), 0.01+1e-9)
	}
}

func TestCap_PassThroughAtOrBelowN(t *testing.T) {
	d := Aggregate(texts("a", "b", "c"))
	capped := Cap(d, 3, "Others")
	assert.Equal(t, d, capped)
	assert.Equal(t, -1, capped.Find("Others"))
}

func TestCap_SizeAndLossless(t *testing.T) {
	d := Aggregate(texts("a", "a", "a", "b", "b", "c", "d", "e", "e", "f"))
	for n := 1; n <= 7; n++ {
		capped := Cap(d, n, "Others")
		want := len(d)
		if n+1 < want {
			want = n + 1
		}
		assert.Len(t, capped, want, "n=%d", n)
		assert.Equal(t, d.Total(), capped.Total(), "n=%d", n)
	}
}

func TestCap_OverflowAppendedLast(t *testing.T) {
	d := Aggregate(texts("a", "a", "a", "b", "b", "c", "d", "e"))
	capped := Cap(d, 2, "Others")
	require.Len(t, capped, 3)
	last := capped[2]
	assert.Equal(t, "Others", last.Label)
	assert.True(t, last.Overflow)
	assert.Equal(t, 3, last.Count)
}

func TestCap_MergesExistingOverflowLabel(t *testing.T) {
	d := Aggregate(texts("Others", "Others", "Others", "a", "a", "b", "c"))
	capped := Cap(d, 2, "Others")
	require.Len(t, capped, 2)
	i := capped.Find("Others")
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, 5, capped[i].Count)
	assert.True(t, capped[i].Overflow)
	assert.True(t, Collides(d, "Others"))
}

func TestCap_ZeroTailAddsNoOverflow(t *testing.T) {
	d := survey.Distribution{{Label: "a", Count: 3}, {Label: "b", Count: 1}, {Label: "c", Count: 0}}
	capped := Cap(d, 2, "Others")
	require.Len(t, capped, 2)
	assert.Equal(t, -1, capped.Find("Others"))
	assert.Equal(t, d.Total(), capped.Total())
}

func TestPresentationOrder_OverflowLast(t *testing.T) {
	d := survey.Distribution{
		{Label: "Others", Count: 9, Overflow: true},
		{Label: "a", Count: 5},
		{Label: "b", Count: 1},
	}
	assert.Equal(t, []string{"a", "b", "Others"}, labels(PresentationOrder(d)))
}

func TestTabulate_ClosedScenario(t *testing.T) {
	col := survey.Column{
		Header: "Q1",
		Type:   survey.QuestionClosed,
		Values: []survey.Cell{survey.Text("Yes"), survey.Text("No"), survey.Text("Yes"), survey.Text(""), survey.Text("Yes"), survey.Missing()},
	}
	res := Tabulate(col, Options{Separator: ";", TopN: 10, OverflowLabel: "Others"})
	require.False(t, res.Empty())
	require.Len(t, res.Shares, 2)
	assert.Equal(t, survey.Entry{Label: "Yes", Count: 3, Percent: 75.0}, res.Shares[0])
	assert.Equal(t, survey.Entry{Label: "No", Count: 1, Percent: 25.0}, res.Shares[1])
}

func TestTabulate_MultipleScenario(t *testing.T) {
	col := survey.Column{Header: "Q2", Type: survey.QuestionMultiple, Values: texts("A;B", "B;C;")}
	res := Tabulate(col, Options{Separator: ";", TopN: 10, OverflowLabel: "Others"})
	counts := map[string]int{}
	for _, e := range res.Counts {
		counts[e.Label] = e.Count
	}
	assert.Equal(t, map[string]int{"A": 1, "B": 2, "C": 1}, counts)
}

func TestTabulate_NoValidResponses(t *testing.T) {
	col := survey.Column{Header: "Q3", Type: survey.QuestionClosed, Values: []survey.Cell{survey.Missing(), survey.Text(" ")}}
	res := Tabulate(col, Options{Separator: ";", TopN: 10, OverflowLabel: "Others"})
	assert.True(t, res.Empty())
}

func TestTabulate_PercentagesSumToHundred(t *testing.T) {
	vals := texts("a", "b", "c", "d", "e", "f", "g", "a", "b", "a", "h", "i", "j", "k", "l")
	res := Tabulate(survey.Column{Type: survey.QuestionClosed, Values: vals}, Options{Separator: ";", TopN: 4, OverflowLabel: "Others"})
	sum := 0.0
	for _, e := range res.Shares {
		sum += e.Percent
	}
	assert.InDelta(t, 100.0, sum, 0.05)
	assert.True(t, res.Shares[len(res.Shares)-1].Overflow)
}

func groupTable() *survey.Table {
	return &survey.Table{
		Headers: []string{"School", "Answer"},
		Types:   []survey.QuestionType{survey.QuestionClosed, survey.QuestionClosed},
		Rows: [][]survey.Cell{
			{survey.Text(" North "), survey.Text("Yes")},
			{survey.Text("South"), survey.Text("No")},
			{survey.Missing(), survey.Text("Yes")},
			{survey.Text("North"), survey.Text("No")},
			{survey.Text("  "), survey.Text("No")},
			{survey.Number(2), survey.Text("Yes")},
		},
	}
}

func TestSplitGroups(t *testing.T) {
	parts, err := SplitGroups(groupTable(), 0)
	require.NoError(t, err)
	require.Len(t, parts, 3)
	assert.Equal(t, "North", parts[0].Label)
	assert.Len(t, parts[0].Table.Rows, 2)
	assert.Equal(t, "South", parts[1].Label)
	assert.Equal(t, "2", parts[2].Label)
}

func TestSplitGroups_OutOfRange(t *testing.T) {
	_, err := SplitGroups(groupTable(), 5)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestPartitions_GeneralAlwaysFirst(t *testing.T) {
	table := groupTable()
	parts, err := Partitions(table, -1, "Geral")
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Same(t, table, parts[0].Table)

	parts, err = Partitions(table, 0, "Geral")
	require.NoError(t, err)
	require.Len(t, parts, 4)
	assert.Equal(t, "Geral", parts[0].Label)
	assert.Len(t, parts[0].Table.Rows, 6)
}

func TestResultSummaryNotes(t *testing.T) {
	closed := Tabulate(survey.Column{Index: 2, Header: "Q", Type: survey.QuestionClosed, Values: []survey.Cell{survey.Missing()}}, Options{Separator: ";", TopN: 10, OverflowLabel: "Others"})
	s := closed.Summary()
	assert.True(t, s.Empty())
	assert.Equal(t, 2, s.Column)
	assert.Equal(t, NoteNoResponses, s.Note)

	multi := Tabulate(survey.Column{Type: survey.QuestionMultiple, Values: []survey.Cell{survey.Text(" ; ")}}, Options{Separator: ";", TopN: 10, OverflowLabel: "Others"})
	assert.Equal(t, NoteNoSelections, multi.Summary().Note)

	filled := Tabulate(survey.Column{Type: survey.QuestionClosed, Values: []survey.Cell{survey.Text("Yes")}}, Options{Separator: ";", TopN: 10, OverflowLabel: "Others"})
	assert.Empty(t, filled.Summary().Note)
}
