package ast

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// tags, character references and anything that cannot appear in an id
var invalidSectionIDChars = regexp.MustCompile(`<[^>]+>|&(?:[a-zA-Z][a-zA-Z]+\d{0,2}|#\d\d\d{0,4}|#x[\da-fA-F][\da-fA-F][\da-fA-F]{0,3});|[^ \p{L}\p{N}_\-.]+`)

// NormalizeAttributeName case folds an attribute name; attribute names are
// case insensitive.
func NormalizeAttributeName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// NormalizeSectionTitle turns a section title into its lookup key: lower
// case, without invalid id characters, spaces, dots or dashes.
func NormalizeSectionTitle(title string) string {
	key := cases.Lower(language.Und).String(title)
	key = invalidSectionIDChars.ReplaceAllString(key, "")
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '.' || r == '-' {
			return -1
		}
		return r
	}, key)
}

// AutoSectionID returns the id generated for a section without an explicit
// one, using the default "_" prefix and separator.
func AutoSectionID(title string) string {
	key := cases.Lower(language.Und).String(strings.TrimSpace(title))
	key = invalidSectionIDChars.ReplaceAllString(key, "")

	var sb strings.Builder
	sb.WriteByte('_')
	sep := false
	for _, r := range key {
		if r == ' ' || r == '.' || r == '-' || unicode.IsSpace(r) {
			sep = true
			continue
		}
		if sep && sb.Len() > 1 {
			sb.WriteByte('_')
		}
		sep = false
		sb.WriteRune(r)
	}
	return strings.TrimRight(sb.String(), "_")
}
