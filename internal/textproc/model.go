package textproc

import (
	"strings"
	"unicode"

	"github.com/jdkato/prose/v2"
)

// Token is one linguistic annotation produced by a LinguisticModel
type Token struct {
	Text    string
	Lemma   string
	IsStop  bool
	IsPunct bool
}

// LinguisticModel annotates text with token-level stopword and lemma data.
// A model is loaded once per run and shared by every open-text column.
type LinguisticModel interface {
	Annotate(text string) []Token
}

// ProseModel tokenizes with prose and annotates tokens from a Lexicon
type ProseModel struct {
	lexicon *Lexicon
}

// NewProseModel creates a model backed by the given lexicon
func NewProseModel(lex *Lexicon) *ProseModel {
	return &ProseModel{lexicon: lex}
}

// Language returns the lexicon language code
func (m *ProseModel) Language() string {
	return m.lexicon.Language
}

// Annotate implements LinguisticModel
func (m *ProseModel) Annotate(text string) []Token {
	words := m.tokenize(text)
	tokens := make([]Token, 0, len(words))
	for _, w := range words {
		lower := strings.ToLower(w)
		tok := Token{Text: w, IsPunct: isPunctuation(w)}
		if !tok.IsPunct {
			tok.IsStop = m.lexicon.IsStop(lower)
			tok.Lemma = m.lexicon.Lemma(lower)
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func (m *ProseModel) tokenize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithSegmentation(false),
		prose.WithExtraction(false))
	if err != nil {
		return strings.Fields(text)
	}
	words := make([]string, 0, len(doc.Tokens()))
	for _, tok := range doc.Tokens() {
		if t := strings.TrimSpace(tok.Text); t != "" {
			words = append(words, t)
		}
	}
	return words
}

func isPunctuation(s string) bool {
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}
