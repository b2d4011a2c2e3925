package textutil

import (
	"strings"
	"unicode/utf8"
)

// maxSheetNameRunes is the worksheet name limit enforced by spreadsheet applications.
const maxSheetNameRunes = 31

// sheetNameReplacer replaces characters that worksheet names cannot contain.
var sheetNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"[", "(",
	"]", ")",
)

// SanitizeSheetName makes name usable as a worksheet name: forbidden
// characters are replaced, leading/trailing apostrophes trimmed, and the
// result truncated to 31 characters. Returns fallback when nothing remains.
func SanitizeSheetName(name, fallback string) string {
	cleaned := strings.TrimSpace(sheetNameReplacer.Replace(name))
	cleaned = strings.Trim(cleaned, "'")
	if utf8.RuneCountInString(cleaned) > maxSheetNameRunes {
		runes := []rune(cleaned)
		cleaned = strings.TrimSpace(string(runes[:maxSheetNameRunes]))
	}
	if cleaned == "" {
		return fallback
	}
	return cleaned
}
