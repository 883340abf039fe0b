package textproc

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalizer turns a raw open-text answer into a space-joined lemma string
type Normalizer struct {
	model LinguisticModel
	lower cases.Caser
}

// NewNormalizer creates a normalizer for the given model and language code
func NewNormalizer(model LinguisticModel, lang string) *Normalizer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Und
	}
	return &Normalizer{model: model, lower: cases.Lower(tag)}
}

// Clean lowercases, strips punctuation and trims the text
func (n *Normalizer) Clean(raw string) string {
	text := n.lower.String(norm.NFC.String(raw))
	text = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || (r < unicode.MaxASCII && unicode.IsSymbol(r)) {
			return -1
		}
		return r
	}, text)
	return strings.TrimSpace(text)
}

// Normalize cleans the text then drops stopwords and punctuation tokens and
// replaces the rest by their lemma. The result may be empty.
func (n *Normalizer) Normalize(raw string) string {
	cleaned := n.Clean(raw)
	lemmas := make([]string, 0, 8)
	for _, tok := range n.model.Annotate(cleaned) {
		if tok.IsStop || tok.IsPunct {
			continue
		}
		if lemma := strings.TrimSpace(tok.Lemma); lemma != "" {
			lemmas = append(lemmas, lemma)
		}
	}
	return strings.Join(lemmas, " ")
}
