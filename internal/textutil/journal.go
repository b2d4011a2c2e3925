package textutil

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// JournalKey returns the lowercase form of a journal title. Only case is
// folded; whitespace and punctuation are compared as-is.
func JournalKey(title string) string {
	if title == "" {
		return ""
	}
	return cases.Lower(language.Und).String(title)
}
