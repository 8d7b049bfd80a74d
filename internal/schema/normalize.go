package schema

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripDiacritics decomposes to NFD, drops combining marks, and recomposes.
var stripDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeHeader canonicalizes a header name for comparison: quotes
// removed, diacritics stripped, whitespace collapsed, lowercased.
// "Descrição  Follow up 1" and `"descricao follow up 1"` normalize equal.
func NormalizeHeader(name string) string {
	name = strings.ReplaceAll(name, `"`, "")
	name = strings.ReplaceAll(name, "'", "")
	name = strings.TrimSpace(name)

	if out, _, err := transform.String(stripDiacritics, name); err == nil {
		name = out
	}

	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// tokens splits a normalized name into its scoring tokens, discarding
// stopwords.
func (s *Schema) tokens(normalized string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, word := range strings.Fields(normalized) {
		if _, skip := s.stopset[word]; skip {
			continue
		}
		out[word] = struct{}{}
	}
	return out
}
