package excel

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"surveykit/domain/survey"
	"surveykit/internal"
	"surveykit/internal/errors"

	"github.com/xuri/excelize/v2"
)

// Notes written into the cluster sheet
const (
	NoteClusteringSkipped = "(clustering skipped — no usable vocabulary)"
	openSheetSuffix       = " abertas"
)

type styles struct {
	bold    int
	note    int
	percent int
}

// SummaryWriter fills the output workbook one sheet at a time
type SummaryWriter struct {
	file    *excelize.File
	path    string
	styles  styles
	names   *SheetNamer
	written []string
	logger  *internal.Logger
}

// NewSummaryWriter creates an in-memory workbook that is saved to path
func NewSummaryWriter(path string, logger *internal.Logger) (*SummaryWriter, error) {
	if logger == nil {
		logger = internal.NopLogger()
	}
	f := excelize.NewFile()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create title style")
	}
	note, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Italic: true, Color: "666666"}})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create note style")
	}
	percent, err := f.NewStyle(&excelize.Style{NumFmt: 10})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create percentage style")
	}

	return &SummaryWriter{
		file:   f,
		path:   path,
		styles: styles{bold: bold, note: note, percent: percent},
		names:  NewSheetNamer(),
		logger: logger,
	}, nil
}

// Sheets lists the sheets written so far
func (w *SummaryWriter) Sheets() []string {
	return append([]string(nil), w.written...)
}

// newSheet creates a uniquely named sheet, reusing the default sheet the first time
func (w *SummaryWriter) newSheet(label string) (string, error) {
	name := w.names.Next(label)
	if len(w.written) == 0 {
		if err := w.file.SetSheetName(w.file.GetSheetName(0), name); err != nil {
			return "", errors.Wrapf(err, "failed to name sheet %q", name)
		}
	} else if _, err := w.file.NewSheet(name); err != nil {
		return "", errors.Wrapf(err, "failed to create sheet %q", name)
	}
	w.written = append(w.written, name)
	return name, nil
}

// WriteSummary writes one partition's tabulated questions to its own sheet
func (w *SummaryWriter) WriteSummary(label string, questions []survey.QuestionSummary) (string, error) {
	sheet, err := w.newSheet(label)
	if err != nil {
		return "", err
	}
	s := &sheetCursor{file: w.file, sheet: sheet, row: 1}

	s.set(1, "Question / Answer").set(2, "Percentage").style(1, 2, w.styles.bold).next()
	for _, q := range questions {
		s.set(1, "Question: "+q.Header).style(1, 1, w.styles.bold).next()
		if q.Empty() {
			s.set(1, q.Note).style(1, 1, w.styles.note).next()
		}
		for _, e := range q.Shares {
			s.set(1, e.Label).set(2, e.Percent/100).style(2, 2, w.styles.percent).next()
		}
		s.next()
	}
	if s.err != nil {
		return "", errors.Wrapf(s.err, "failed to write sheet %q", sheet)
	}

	if err := w.widths(sheet, 50, 12); err != nil {
		return "", err
	}
	w.logger.Debug("[SummaryWriter] Wrote %d questions to %q", len(questions), sheet)
	return sheet, nil
}

// WriteClusters writes one partition's open-text results to a "<label> abertas" sheet
func (w *SummaryWriter) WriteClusters(label string, results []survey.OpenTextResult) (string, error) {
	sheet, err := w.newSheet(label + openSheetSuffix)
	if err != nil {
		return "", err
	}
	s := &sheetCursor{file: w.file, sheet: sheet, row: 1}

	for _, res := range results {
		s.set(1, "Question: "+res.Header).style(1, 1, w.styles.bold).next()
		if res.Skipped() {
			note := NoteClusteringSkipped
			if res.Reason != "" {
				note = fmt.Sprintf("(clustering skipped — %s)", res.Reason)
			}
			s.set(1, note).style(1, 1, w.styles.note).next().next()
			continue
		}

		a := res.Assignment
		s.set(1, "Cluster").set(2, "Keywords").set(3, "Responses").style(1, 3, w.styles.bold).next()
		sizes := a.Sizes()
		for c := 0; c < a.K; c++ {
			s.set(1, fmt.Sprintf("Cluster %d", c)).set(2, strings.Join(a.Keywords[c], ", ")).set(3, sizes[c]).next()
		}
		s.next()

		s.set(1, "Response").set(2, "Cluster").set(3, "Cleaned").set(4, "Status").style(1, 4, w.styles.bold).next()
		for i, doc := range res.Corpus.Documents {
			s.set(1, doc.Original).set(2, a.Labels[i]).set(3, doc.Cleaned).set(4, string(doc.Status)).next()
		}
		s.next()
	}
	if s.err != nil {
		return "", errors.Wrapf(s.err, "failed to write sheet %q", sheet)
	}

	if err := w.widths(sheet, 50, 30, 40, 20); err != nil {
		return "", err
	}
	return sheet, nil
}

func (w *SummaryWriter) widths(sheet string, widths ...float64) error {
	for i, width := range widths {
		col := ColumnLetter(i)
		if err := w.file.SetColWidth(sheet, col, col, width); err != nil {
			return errors.Wrapf(err, "failed to size column %s of %q", col, sheet)
		}
	}
	return nil
}

// Save writes the workbook, creating the parent directory
func (w *SummaryWriter) Save() error {
	if dir := filepath.Dir(w.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create %s", dir)
		}
	}
	if err := w.file.SaveAs(w.path); err != nil {
		return errors.Wrapf(err, "failed to save workbook %s", w.path)
	}
	w.logger.Info("[SummaryWriter] Saved %s (%d sheets)", w.path, len(w.written))
	return nil
}

// Close releases the workbook
func (w *SummaryWriter) Close() error {
	return w.file.Close()
}

// sheetCursor writes row by row and keeps the first error
type sheetCursor struct {
	file  *excelize.File
	sheet string
	row   int
	err   error
}

func (s *sheetCursor) set(col int, value interface{}) *sheetCursor {
	if s.err != nil {
		return s
	}
	ref, err := excelize.CoordinatesToCellName(col, s.row)
	if err == nil {
		err = s.file.SetCellValue(s.sheet, ref, value)
	}
	s.err = err
	return s
}

func (s *sheetCursor) style(from, to, style int) *sheetCursor {
	if s.err != nil {
		return s
	}
	start, err := excelize.CoordinatesToCellName(from, s.row)
	if err != nil {
		s.err = err
		return s
	}
	end, err := excelize.CoordinatesToCellName(to, s.row)
	if err != nil {
		s.err = err
		return s
	}
	s.err = s.file.SetCellStyle(s.sheet, start, end, style)
	return s
}

func (s *sheetCursor) next() *sheetCursor {
	s.row++
	return s
}
