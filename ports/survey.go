package ports

import "surveykit/domain/survey"

// SurveySource supplies the response table of one workbook
type SurveySource interface {
	Read() (*survey.Table, error)
}

// SummarySink receives per-partition results and persists them as a workbook
type SummarySink interface {
	WriteSummary(label string, questions []survey.QuestionSummary) (string, error)
	WriteClusters(label string, results []survey.OpenTextResult) (string, error)
	Sheets() []string
	Save() error
	Close() error
}

// ChartRenderer draws a capped percentage distribution and returns the image path.
// partition is the position of the partition in the run; label names the file.
type ChartRenderer interface {
	Render(partition int, label, columnLetter, title string, shares survey.Distribution) (string, error)
}
