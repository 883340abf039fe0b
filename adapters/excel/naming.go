package excel

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

// SanitizeSheetName replaces characters Excel forbids in sheet names and
// truncates to 31 runes. An empty result becomes "Sheet".
func SanitizeSheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(strings.TrimSpace(name), "'")
	name = truncateRunes(name, maxSheetName)
	if name == "" {
		return "Sheet"
	}
	return name
}

// SheetNamer hands out unique sheet names; Excel compares them case-insensitively
type SheetNamer struct {
	used map[string]bool
}

// NewSheetNamer creates an empty namer
func NewSheetNamer() *SheetNamer {
	return &SheetNamer{used: make(map[string]bool)}
}

// Next sanitizes name and appends _1, _2, ... until it is unused
func (n *SheetNamer) Next(name string) string {
	base := SanitizeSheetName(name)
	candidate := base
	for i := 1; n.used[strings.ToLower(candidate)]; i++ {
		suffix := fmt.Sprintf("_%d", i)
		candidate = truncateRunes(base, maxSheetName-len(suffix)) + suffix
	}
	n.used[strings.ToLower(candidate)] = true
	return candidate
}

// ColumnLetter converts a zero-based column index to its spreadsheet letter
func ColumnLetter(idx int) string {
	letter, err := excelize.ColumnNumberToName(idx + 1)
	if err != nil {
		return ""
	}
	return letter
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
