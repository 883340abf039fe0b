package textproc

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ValidityClassifier decides whether a cleaned response is usable text
type ValidityClassifier interface {
	IsInvalid(cleaned string) bool
}

// DefaultVowels covers unaccented and common accented Latin vowels
const DefaultVowels = "aeiouáéíóúàâêôãõü"

// HeuristicFilter flags responses that are too short, have no vowel, or are
// purely numeric. It is a coarse, language-specific heuristic.
type HeuristicFilter struct {
	Vowels    string
	MinLength int
}

// NewHeuristicFilter returns the default filter (length <= 2 is invalid)
func NewHeuristicFilter() *HeuristicFilter {
	return &HeuristicFilter{Vowels: DefaultVowels, MinLength: 3}
}

// IsInvalid implements ValidityClassifier
func (f *HeuristicFilter) IsInvalid(text string) bool {
	if utf8.RuneCountInString(text) < f.MinLength {
		return true
	}
	if !strings.ContainsAny(text, f.Vowels) {
		return true
	}
	return isDigits(text)
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
