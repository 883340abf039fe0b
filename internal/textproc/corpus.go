package textproc

import (
	"surveykit/domain/survey"
)

// NewCorpusBuilder wires the prose model, normalizer and heuristic filter for lang.
// A non-empty lexiconPath replaces the embedded lexicon.
func NewCorpusBuilder(lang, lexiconPath, placeholder string) (*CorpusBuilder, error) {
	var (
		lex *Lexicon
		err error
	)
	if lexiconPath != "" {
		lex, err = LoadLexicon(lexiconPath)
	} else {
		lex, err = DefaultLexicon(lang)
	}
	if err != nil {
		return nil, err
	}
	return &CorpusBuilder{
		Normalizer:  NewNormalizer(NewProseModel(lex), lang),
		Classifier:  NewHeuristicFilter(),
		Placeholder: placeholder,
	}, nil
}

// CorpusBuilder prepares open-text columns for vectorization
type CorpusBuilder struct {
	Normalizer  *Normalizer
	Classifier  ValidityClassifier
	Placeholder string
}

// Build cleans every non-missing cell of the column in row order. Invalid
// responses are replaced by the placeholder and still occupy a slot.
func (b *CorpusBuilder) Build(col survey.Column) survey.Corpus {
	corpus := survey.Corpus{Question: col.Header}
	for row, cell := range col.Values {
		if cell.IsMissing() {
			continue
		}
		original := cell.Label()
		doc := survey.Document{
			Row:      row,
			Original: original,
			Cleaned:  b.Normalizer.Normalize(original),
			Status:   survey.DocumentValid,
		}
		if b.Classifier.IsInvalid(doc.Cleaned) {
			doc.Cleaned = b.Placeholder
			doc.Status = survey.DocumentPlaceholder
		}
		corpus.Documents = append(corpus.Documents, doc)
	}
	return corpus
}
