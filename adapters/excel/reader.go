package excel

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"surveykit/domain/survey"
	"surveykit/internal"
	"surveykit/internal/errors"

	"github.com/xuri/excelize/v2"
)

// SurveyReader loads the control sheet of a survey workbook.
// Row 1 holds question-type keywords, row 2 the headers, rows 3+ the answers.
type SurveyReader struct {
	filePath string
	sheet    string
	keywords map[string]survey.QuestionType
	logger   *internal.Logger
}

// NewSurveyReader creates a reader for the given workbook and control sheet
func NewSurveyReader(filePath, sheet string, keywords map[string]survey.QuestionType, logger *internal.Logger) *SurveyReader {
	if logger == nil {
		logger = internal.NopLogger()
	}
	return &SurveyReader{filePath: filePath, sheet: sheet, keywords: keywords, logger: logger}
}

// Read returns the response table. A missing file or control sheet is NOT_FOUND.
func (r *SurveyReader) Read() (*survey.Table, error) {
	r.logger.Info("[SurveyReader] Reading %s (sheet %q)", r.filePath, r.sheet)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.NotFound(fmt.Sprintf("input workbook %s", r.filePath))
	}

	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open workbook %s", r.filePath)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(r.sheet); err != nil || idx < 0 {
		return nil, errors.NotFound(fmt.Sprintf("control sheet %q in %s", r.sheet, r.filePath))
	}

	rows, err := f.GetRows(r.sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %q", r.sheet)
	}
	if len(rows) < 2 {
		return nil, errors.InvalidInput(fmt.Sprintf("sheet %q needs a type row and a header row", r.sheet))
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	table := &survey.Table{
		Headers: make([]string, width),
		Types:   make([]survey.QuestionType, width),
	}
	for c := 0; c < width; c++ {
		table.Types[c] = r.questionType(cellAt(rows[0], c))
		header := strings.TrimSpace(cellAt(rows[1], c))
		if header == "" {
			header = fmt.Sprintf("Unnamed: %d", c)
		}
		table.Headers[c] = header
	}

	for i := 2; i < len(rows); i++ {
		cells := make([]survey.Cell, width)
		for c, raw := range rows[i] {
			cell, err := r.readCell(f, c, i, raw)
			if err != nil {
				return nil, err
			}
			cells[c] = cell
		}
		table.Rows = append(table.Rows, cells)
	}

	r.logger.Info("[SurveyReader] Loaded %d questions and %d responses in %.2fms",
		width, len(table.Rows), float64(time.Since(startTime).Nanoseconds())/1e6)
	return table, nil
}

// questionType maps a control-row keyword; blank or unknown keywords mean closed
func (r *SurveyReader) questionType(keyword string) survey.QuestionType {
	key := strings.ToUpper(strings.TrimSpace(keyword))
	if key == "" {
		return survey.QuestionClosed
	}
	if qType, ok := r.keywords[key]; ok {
		return qType
	}
	r.logger.Debug("[SurveyReader] Unknown question type %q, treating as closed", keyword)
	return survey.QuestionClosed
}

// readCell keeps the scalar kind of the stored value
func (r *SurveyReader) readCell(f *excelize.File, col, row int, raw string) (survey.Cell, error) {
	if raw == "" {
		return survey.Missing(), nil
	}
	ref, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return survey.Cell{}, errors.Wrap(err, "invalid cell coordinates")
	}
	cellType, err := f.GetCellType(r.sheet, ref)
	if err != nil {
		return survey.Cell{}, errors.Wrapf(err, "failed to read cell %s", ref)
	}

	switch cellType {
	case excelize.CellTypeBool:
		if b, err := strconv.ParseBool(raw); err == nil {
			return survey.Bool(b), nil
		}
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return survey.Number(n), nil
		}
	}
	return survey.Text(raw), nil
}

func cellAt(row []string, c int) string {
	if c < len(row) {
		return row[c]
	}
	return ""
}
