package search

import (
	"strings"
	"unicode"
)

// Ellipsis marks text truncated from a snippet window.
const Ellipsis = "..."

// Highlighter wraps matched tokens.
type Highlighter struct {
	Open  string
	Close string
}

// Snippet extracts a window of about width runes around the first token of
// text that is in terms, wrapping every matched token inside the window with
// the highlight markers. The window never cuts a word in half. It returns
// false when no token matches.
func (h Highlighter) Snippet(text string, terms map[string]struct{}, width int) (string, bool) {
	runes := []rune(text)
	spans := tokenSpans(runes)

	var matches []span
	for _, sp := range spans {
		if _, ok := terms[sp.token]; ok {
			matches = append(matches, sp)
		}
	}
	if len(matches) == 0 {
		return "", false
	}

	start, end := window(len(runes), matches[0], width)
	start, end = snapToWords(spans, start, end)
	for start < end && unicode.IsSpace(runes[start]) {
		start++
	}
	for end > start && unicode.IsSpace(runes[end-1]) {
		end--
	}

	var b strings.Builder
	if start > 0 {
		b.WriteString(Ellipsis)
	}
	pos := start
	for _, m := range matches {
		if m.start < start || m.end > end {
			continue
		}
		b.WriteString(string(runes[pos:m.start]))
		b.WriteString(h.Open)
		b.WriteString(string(runes[m.start:m.end]))
		b.WriteString(h.Close)
		pos = m.end
	}
	b.WriteString(string(runes[pos:end]))
	if end < len(runes) {
		b.WriteString(Ellipsis)
	}
	return b.String(), true
}

// window centers a width-rune range on m, clamped to [0, n).
func window(n int, m span, width int) (int, int) {
	if n <= width {
		return 0, n
	}
	mlen := m.end - m.start
	if mlen >= width {
		return m.start, m.end
	}
	start := m.start - (width-mlen)/2
	if start < 0 {
		start = 0
	}
	end := start + width
	if end > n {
		end = n
		start = end - width
	}
	return start, end
}

// snapToWords shrinks [start, end) so neither edge falls inside a token.
func snapToWords(spans []span, start, end int) (int, int) {
	for _, sp := range spans {
		if sp.start < start && start < sp.end {
			start = sp.end
		}
		if sp.start < end && end < sp.end {
			end = sp.start
		}
	}
	if end < start {
		end = start
	}
	return start, end
}
