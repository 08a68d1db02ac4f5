package search

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// span is a token's rune range [start, end) within a text.
type span struct {
	start, end int
	token      string // lowercased, diacritics removed
}

func isTokenRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// fold lowercases s and strips combining marks so that "Café" and "cafe"
// compare equal, matching the index's remove_diacritics folding.
func fold(s string) string {
	s = strings.ToLower(s)
	if isASCII(s) {
		return s
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// tokenSpans splits rs on anything that is not a letter or digit, the
// same boundaries the index tokenizer uses. Spans index the original runes;
// only the token text is folded.
func tokenSpans(rs []rune) []span {
	var spans []span
	start := -1
	for i, r := range rs {
		if isTokenRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			spans = append(spans, span{start: start, end: i, token: fold(string(rs[start:i]))})
			start = -1
		}
	}
	if start >= 0 {
		spans = append(spans, span{start: start, end: len(rs), token: fold(string(rs[start:]))})
	}
	return spans
}

// Tokenize returns the distinct folded tokens of text in order of first
// appearance.
func Tokenize(text string) []string {
	spans := tokenSpans([]rune(text))
	seen := make(map[string]struct{}, len(spans))
	tokens := make([]string, 0, len(spans))
	for _, sp := range spans {
		if _, ok := seen[sp.token]; ok {
			continue
		}
		seen[sp.token] = struct{}{}
		tokens = append(tokens, sp.token)
	}
	return tokens
}
