package clustering

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"surveykit/internal/errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrEmptyVocabulary is returned when no term survives the document-frequency bounds
var ErrEmptyVocabulary = errors.New(errors.CodeEmptyVocabulary,
	"empty vocabulary; the documents share no term inside the document-frequency bounds")

// Matrix is a TF-IDF document-term matrix with its vocabulary
type Matrix struct {
	Vocabulary []string
	// Weights has one row per document and one column per vocabulary term
	Weights *mat.Dense
}

// Docs returns the number of documents
func (m *Matrix) Docs() int {
	r, _ := m.Weights.Dims()
	return r
}

// Vectorizer builds sublinear TF-IDF weights with document-frequency bounds.
// MinDF and MaxDF are fractions of the corpus size.
type Vectorizer struct {
	MinDF float64
	MaxDF float64
}

// NewVectorizer returns a vectorizer with the given bounds
func NewVectorizer(minDF, maxDF float64) *Vectorizer {
	return &Vectorizer{MinDF: minDF, MaxDF: maxDF}
}

// FitTransform learns the vocabulary of corpus and returns its weight matrix.
// Rows are L2-normalized; the vocabulary is sorted.
func (v *Vectorizer) FitTransform(corpus []string) (*Matrix, error) {
	n := len(corpus)
	termCounts := make([]map[string]int, n)
	df := make(map[string]int)
	for i, doc := range corpus {
		counts := make(map[string]int)
		for _, term := range Terms(doc) {
			counts[term]++
		}
		for term := range counts {
			df[term]++
		}
		termCounts[i] = counts
	}

	low := v.MinDF * float64(n)
	high := v.MaxDF * float64(n)
	var vocab []string
	for term, count := range df {
		if float64(count) >= low && float64(count) <= high {
			vocab = append(vocab, term)
		}
	}
	if len(vocab) == 0 {
		return nil, errors.Wrapf(ErrEmptyVocabulary, "vectorizing %d documents", n)
	}
	sort.Strings(vocab)

	column := make(map[string]int, len(vocab))
	idf := make([]float64, len(vocab))
	for j, term := range vocab {
		column[term] = j
		idf[j] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}

	weights := mat.NewDense(n, len(vocab), nil)
	for i, counts := range termCounts {
		row := weights.RawRowView(i)
		for term, tf := range counts {
			j, ok := column[term]
			if !ok {
				continue
			}
			row[j] = (1 + math.Log(float64(tf))) * idf[j]
		}
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
	}

	return &Matrix{Vocabulary: vocab, Weights: weights}, nil
}

// Terms lowercases text and splits it into word tokens of at least two runes
func Terms(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '_'
	})
	terms := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= 2 {
			terms = append(terms, f)
		}
	}
	return terms
}
