package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mark = Highlighter{Open: "<mark>", Close: "</mark>"}

func terms(ts ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(ts))
	for _, t := range ts {
		m[t] = struct{}{}
	}
	return m
}

func TestSnippet_ShortTextKeptWhole(t *testing.T) {
	got, ok := mark.Snippet("We visited the lake and it was wonderful", terms("lake"), 64)
	require.True(t, ok)
	assert.Equal(t, "We visited the <mark>lake</mark> and it was wonderful", got)
}

func TestSnippet_PreservesCase(t *testing.T) {
	got, ok := mark.Snippet("Lake Tahoe at dusk", terms("lake"), 64)
	require.True(t, ok)
	assert.Equal(t, "<mark>Lake</mark> Tahoe at dusk", got)
}

func TestSnippet_HighlightsEveryOccurrenceInWindow(t *testing.T) {
	got, ok := mark.Snippet("lake, lake and more lake", terms("lake"), 64)
	require.True(t, ok)
	assert.Equal(t, 3, strings.Count(got, "<mark>lake</mark>"))
}

func TestSnippet_WholeTokensOnly(t *testing.T) {
	_, ok := mark.Snippet("the lakeside cabin", terms("lake"), 64)
	assert.False(t, ok)
}

func TestSnippet_LongTextWindowed(t *testing.T) {
	text := strings.Repeat("filler words here ", 10) + "the lake was calm " + strings.Repeat("more filler text ", 10)
	got, ok := mark.Snippet(text, terms("lake"), 32)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(got, Ellipsis), got)
	assert.True(t, strings.HasSuffix(got, Ellipsis), got)
	assert.Contains(t, got, "<mark>lake</mark>")

	inner := strings.TrimSuffix(strings.TrimPrefix(got, Ellipsis), Ellipsis)
	inner = strings.NewReplacer("<mark>", "", "</mark>", "").Replace(inner)
	assert.LessOrEqual(t, len([]rune(inner)), 32)
	assert.Contains(t, text, inner, "window must not split words")
	for _, w := range strings.Fields(inner) {
		assert.Contains(t, []string{"filler", "words", "here", "the", "lake", "was", "calm", "more", "text"}, w)
	}
}

func TestSnippet_MatchAtStart(t *testing.T) {
	text := "lake " + strings.Repeat("and so on ", 20)
	got, ok := mark.Snippet(text, terms("lake"), 20)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(got, "<mark>lake</mark>"), got)
	assert.True(t, strings.HasSuffix(got, Ellipsis), got)
}

func TestSnippet_MultibyteText(t *testing.T) {
	got, ok := mark.Snippet("Café au lait près du lac", terms("lac"), 64)
	require.True(t, ok)
	assert.Equal(t, "Café au lait près du <mark>lac</mark>", got)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"summer", "trip", "2024"}, Tokenize("Summer TRIP, summer 2024!"))
	assert.Empty(t, Tokenize("?!... --"))
	assert.Equal(t, []string{"cafe"}, Tokenize("Café"))
	assert.Equal(t, []string{"cafe", "creme"}, Tokenize("café CRÈME cafe"))
}

func TestSnippet_FoldsDiacritics(t *testing.T) {
	got, ok := mark.Snippet("Breakfast at the Café Central", terms("cafe"), 64)
	require.True(t, ok)
	assert.Equal(t, "Breakfast at the <mark>Café</mark> Central", got)

	got, ok = mark.Snippet("Dinner at the cafe", terms(Tokenize("café")...), 64)
	require.True(t, ok)
	assert.Equal(t, "Dinner at the <mark>cafe</mark>", got)
}
