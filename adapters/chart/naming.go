package chart

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxFileLabel = 50

var (
	unsafeFileChars = regexp.MustCompile(`[^\p{L}\p{N}_\-.() ]+`)
	fileSpaces      = regexp.MustCompile(`\s+`)
)

// SanitizeFilename keeps letters, digits and -._() and joins words with underscores
func SanitizeFilename(s string, maxLen int) string {
	s = unsafeFileChars.ReplaceAllString(s, "_")
	s = strings.Trim(fileSpaces.ReplaceAllString(s, "_"), "_")
	if maxLen > 0 && utf8.RuneCountInString(s) > maxLen {
		s = string([]rune(s)[:maxLen])
	}
	return s
}

// FileNamer keys chart files by partition and column letter. Partitions whose labels
// sanitize to the same text, or repeat outright, get numbered bases so no file is overwritten.
type FileNamer struct {
	format string
	bases  map[int]string  // partition -> base
	taken  map[string]bool // bases in use
}

// NewFileNamer creates a namer for files with the given extension
func NewFileNamer(format string) *FileNamer {
	return &FileNamer{format: strings.ToLower(format), bases: map[int]string{}, taken: map[string]bool{}}
}

// Name returns "<label>_column<letter>.<format>" for the partition at index partition
func (n *FileNamer) Name(partition int, label, columnLetter string) string {
	return fmt.Sprintf("%s_column%s.%s", n.base(partition, label), columnLetter, n.format)
}

func (n *FileNamer) base(partition int, label string) string {
	if b, ok := n.bases[partition]; ok {
		return b
	}
	clean := SanitizeFilename(label, maxFileLabel)
	if clean == "" {
		clean = "chart"
	}
	candidate := clean
	for i := 2; ; i++ {
		if !n.taken[candidate] {
			break
		}
		candidate = fmt.Sprintf("%s_%d", clean, i)
	}
	n.bases[partition] = candidate
	n.taken[candidate] = true
	return candidate
}
