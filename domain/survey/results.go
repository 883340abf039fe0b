package survey

// QuestionSummary is one tabulated question ready for the workbook and charts.
// Shares is in presentation order; an empty Shares carries a Note instead.
type QuestionSummary struct {
	Column int
	Header string
	Type   QuestionType
	Counts Distribution
	Shares Distribution
	Note   string
	// Collision is set when a real answer shares the overflow label and was merged into it
	Collision bool
}

// Empty reports whether the question had no valid responses
func (q QuestionSummary) Empty() bool {
	return len(q.Shares) == 0
}

// OpenTextResult is the clustering outcome for one open question of one partition
type OpenTextResult struct {
	Column     int
	Header     string
	Corpus     Corpus
	Assignment *ClusterAssignment
	// Reason explains a missing Assignment
	Reason string
}

// Skipped reports whether clustering was not performed
func (r OpenTextResult) Skipped() bool {
	return r.Assignment == nil
}

// PartitionSummary groups every result produced for one partition
type PartitionSummary struct {
	Label     string
	Questions []QuestionSummary
	OpenText  []OpenTextResult
}
