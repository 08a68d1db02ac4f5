package sentiment

import (
	"regexp"
	"strings"
)

var (
	spaceRe  = regexp.MustCompile(`\s+`)
	urlRe    = regexp.MustCompile(`https?://\S+`)
	emailRe  = regexp.MustCompile(`\S+@\S+`)
	phoneRe  = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
	bangRe   = regexp.MustCompile(`!{2,}`)
	questRe  = regexp.MustCompile(`\?{2,}`)
	periodRe = regexp.MustCompile(`\.{2,}`)
)

// Clean strips content that carries no sentiment (URLs, e-mail addresses,
// phone numbers) and collapses whitespace and repeated punctuation.
func Clean(text string) string {
	text = spaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
	text = urlRe.ReplaceAllString(text, "")
	text = emailRe.ReplaceAllString(text, "")
	text = phoneRe.ReplaceAllString(text, "")
	text = bangRe.ReplaceAllString(text, "!")
	text = questRe.ReplaceAllString(text, "?")
	text = periodRe.ReplaceAllString(text, ".")
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}

var wordRe = regexp.MustCompile(`[\p{L}']+|\p{So}`)

// words splits text into word tokens, keeping original case. Symbols such
// as emoji are single tokens.
func words(text string) []string {
	return wordRe.FindAllString(text, -1)
}
