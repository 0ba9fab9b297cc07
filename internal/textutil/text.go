package textutil

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DecodeLine converts raw serial bytes to trimmed text, replacing invalid
// UTF-8 sequences with U+FFFD.
func DecodeLine(raw []byte) string {
	text := string(raw)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	return strings.TrimSpace(text)
}

// NameComparer returns a comparison function ordering display names the way a
// person would: case and accents break ties instead of deciding the order, and
// canonically equivalent spellings compare equal. The returned function is not
// safe for concurrent use.
func NameComparer() func(a, b string) int {
	return collate.New(language.Und).CompareString
}
