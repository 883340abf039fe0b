package textproc

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"surveykit/internal/errors"

	"gopkg.in/yaml.v3"
)

//go:embed lexicons/*.yaml
var lexiconFS embed.FS

// SuffixRule rewrites a word ending when no dictionary lemma exists
type SuffixRule struct {
	Suffix  string `yaml:"suffix"`
	Replace string `yaml:"replace"`
	MinStem int    `yaml:"min_stem"`
}

// Lexicon is the stopword list and lemma dictionary for one language
type Lexicon struct {
	Language    string            `yaml:"language"`
	StopList    []string          `yaml:"stopwords"`
	Lemmas      map[string]string `yaml:"lemmas"`
	SuffixRules []SuffixRule      `yaml:"suffix_rules"`

	stops map[string]struct{}
}

// DefaultLexicon loads the embedded lexicon for lang ("es" or "pt")
func DefaultLexicon(lang string) (*Lexicon, error) {
	data, err := lexiconFS.ReadFile("lexicons/" + strings.ToLower(lang) + ".yaml")
	if err != nil {
		return nil, errors.NotFound(fmt.Sprintf("embedded lexicon %q", lang))
	}
	return ParseLexicon(data)
}

// LoadLexicon reads a lexicon YAML file from disk
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound(fmt.Sprintf("lexicon file %s", path))
		}
		return nil, errors.Wrapf(err, "failed to read lexicon %s", path)
	}
	return ParseLexicon(data)
}

// ParseLexicon decodes lexicon YAML
func ParseLexicon(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, errors.Wrap(err, "invalid lexicon YAML"))
	}
	lex.index()
	return &lex, nil
}

func (l *Lexicon) index() {
	l.stops = make(map[string]struct{}, len(l.StopList))
	for _, w := range l.StopList {
		l.stops[strings.ToLower(w)] = struct{}{}
	}
	if l.Lemmas == nil {
		l.Lemmas = map[string]string{}
	}
}

// IsStop checks if a lowercase token is a stopword
func (l *Lexicon) IsStop(token string) bool {
	_, ok := l.stops[token]
	return ok
}

// Lemma returns the dictionary form of a lowercase token. Unknown tokens
// go through the suffix rules and are otherwise returned unchanged.
func (l *Lexicon) Lemma(token string) string {
	if lemma, ok := l.Lemmas[token]; ok {
		return lemma
	}
	for _, rule := range l.SuffixRules {
		if !strings.HasSuffix(token, rule.Suffix) {
			continue
		}
		stem := strings.TrimSuffix(token, rule.Suffix)
		if utf8.RuneCountInString(stem) < rule.MinStem {
			continue
		}
		return stem + rule.Replace
	}
	return token
}
