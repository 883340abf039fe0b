package survey

import (
	"strconv"
	"strings"
)

// QuestionType is the routing tag read from the control row of the survey sheet
type QuestionType string

const (
	QuestionClosed   QuestionType = "closed"
	QuestionMultiple QuestionType = "multiple"
	QuestionOpen     QuestionType = "open"
	QuestionIgnore   QuestionType = "ignore"
)

// Tabulated reports whether the column goes through the frequency pipeline
func (q QuestionType) Tabulated() bool {
	return q == QuestionClosed || q == QuestionMultiple
}

// CellKind identifies the scalar kind of a raw spreadsheet value
type CellKind int

const (
	CellMissing CellKind = iota
	CellString
	CellNumber
	CellBool
)

// Cell is one raw spreadsheet value. The zero value is a missing cell.
// Cell is comparable so it can be used directly as a counting key.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Bool   bool
}

// Missing returns an absent cell
func Missing() Cell { return Cell{} }

// Text returns a string cell
func Text(s string) Cell { return Cell{Kind: CellString, Text: s} }

// Number returns a numeric cell
func Number(f float64) Cell { return Cell{Kind: CellNumber, Number: f} }

// Bool returns a boolean cell
func Bool(b bool) Cell { return Cell{Kind: CellBool, Bool: b} }

// IsMissing reports whether the cell holds no value
func (c Cell) IsMissing() bool { return c.Kind == CellMissing }

// IsString reports whether the cell holds text
func (c Cell) IsString() bool { return c.Kind == CellString }

// Label renders the cell as the answer label used in distributions and partitions
func (c Cell) Label() string {
	switch c.Kind {
	case CellString:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellBool:
		if c.Bool {
			return "True"
		}
		return "False"
	default:
		return ""
	}
}

// Blank reports whether the cell is missing or whitespace-only text
func (c Cell) Blank() bool {
	if c.Kind == CellMissing {
		return true
	}
	return c.Kind == CellString && strings.TrimSpace(c.Text) == ""
}

// Column is one survey question: its header, routing tag and raw values in row order
type Column struct {
	Index  int
	Header string
	Type   QuestionType
	Values []Cell
}

// Table is the response sheet in row-major form. Every row has len(Headers) cells.
type Table struct {
	Headers []string
	Types   []QuestionType
	Rows    [][]Cell
}

// Column extracts column idx as a Column value
func (t *Table) Column(idx int) Column {
	values := make([]Cell, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			values[i] = row[idx]
		}
	}
	qType := QuestionClosed
	if idx < len(t.Types) {
		qType = t.Types[idx]
	}
	return Column{Index: idx, Header: t.Headers[idx], Type: qType, Values: values}
}

// Subset returns a table holding only the given rows, in the given order
func (t *Table) Subset(rows []int) *Table {
	out := &Table{Headers: t.Headers, Types: t.Types, Rows: make([][]Cell, 0, len(rows))}
	for _, r := range rows {
		out.Rows = append(out.Rows, t.Rows[r])
	}
	return out
}

// Entry is one labelled bucket of a frequency distribution
type Entry struct {
	Label   string
	Count   int
	Percent float64
	// Overflow marks the synthetic bucket produced by capping
	Overflow bool
}

// Distribution is an ordered list of entries, descending by count
type Distribution []Entry

// Total sums all counts
func (d Distribution) Total() int {
	total := 0
	for _, e := range d {
		total += e.Count
	}
	return total
}

// Find returns the index of label, or -1
func (d Distribution) Find(label string) int {
	for i, e := range d {
		if e.Label == label {
			return i
		}
	}
	return -1
}

// Partition is a named subset of the response table
type Partition struct {
	Label string
	Table *Table
}

// DocumentStatus tags a corpus entry
type DocumentStatus string

const (
	DocumentValid       DocumentStatus = "valid"
	DocumentPlaceholder DocumentStatus = "invalid_placeholder"
)

// Document is one open-text response after cleaning
type Document struct {
	Row      int // index of the source row within the partition
	Original string
	Cleaned  string
	Status   DocumentStatus
}

// Corpus is the cleaned open-text column in original row order
type Corpus struct {
	Question  string
	Documents []Document
}

// Texts returns the cleaned text of every document
func (c Corpus) Texts() []string {
	texts := make([]string, len(c.Documents))
	for i, d := range c.Documents {
		texts[i] = d.Cleaned
	}
	return texts
}

// ClusterAssignment maps every corpus entry to exactly one cluster id in 0..K-1
type ClusterAssignment struct {
	K        int
	Labels   []int
	Keywords [][]string
	Inertia  float64
}

// Sizes counts documents per cluster id
func (a ClusterAssignment) Sizes() []int {
	sizes := make([]int, a.K)
	for _, l := range a.Labels {
		sizes[l]++
	}
	return sizes
}
