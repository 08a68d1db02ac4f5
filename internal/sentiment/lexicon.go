package sentiment

import "strings"

// polarity holds per-word polarity in [-1, 1].
var polarity = map[string]float64{
	"amazing": 0.6, "awesome": 1.0, "beautiful": 0.85, "best": 1.0, "better": 0.5,
	"brilliant": 0.9, "calm": 0.3, "cheerful": 0.8, "delightful": 1.0, "enjoy": 0.4,
	"enjoyed": 0.4, "excellent": 1.0, "excited": 0.375, "exciting": 0.3, "fantastic": 0.4,
	"fine": 0.42, "fun": 0.3, "glad": 0.5, "good": 0.7, "gorgeous": 0.7,
	"great": 0.8, "happy": 0.8, "incredible": 0.9, "joy": 0.8, "kind": 0.6,
	"lovely": 0.5, "love": 0.5, "loved": 0.7, "lucky": 0.33, "magnificent": 1.0,
	"nice": 0.6, "peaceful": 0.25, "perfect": 1.0, "pleasant": 0.73, "proud": 0.8,
	"special": 0.36, "sunny": 0.3, "sweet": 0.35, "warm": 0.6, "wonderful": 1.0,

	"angry": -0.5, "annoying": -0.8, "awful": -1.0, "bad": -0.7, "boring": -1.0,
	"broken": -0.4, "cold": -0.6, "cry": -0.3, "dark": -0.15, "dead": -0.2,
	"disappointed": -0.75, "disappointing": -0.6, "dreadful": -1.0, "dull": -0.3, "hate": -0.8,
	"hated": -0.9, "horrible": -1.0, "hurt": -0.4, "lonely": -0.1, "lost": -0.2,
	"miserable": -1.0, "missed": -0.3, "nasty": -1.0, "painful": -0.7, "poor": -0.4,
	"sad": -0.5, "scared": -0.5, "sick": -0.7, "stupid": -0.8, "terrible": -1.0,
	"tired": -0.4, "ugly": -0.7, "unhappy": -0.6, "upset": -0.3, "worse": -0.4,
	"worst": -1.0, "wrong": -0.5,
}

// intensity scales the polarity of the following word.
var intensity = map[string]float64{
	"very": 1.3, "really": 1.3, "so": 1.3, "extremely": 1.5, "incredibly": 1.5,
	"absolutely": 1.5, "quite": 1.1, "too": 1.2, "pretty": 1.1, "most": 1.4,
	"slightly": 0.5, "somewhat": 0.7, "barely": 0.4, "little": 0.6,
}

var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "neither": {}, "nor": {}, "nothing": {},
	"hardly": {}, "without": {},
}

func isNegation(w string) bool {
	if _, ok := negations[w]; ok {
		return true
	}
	return strings.HasSuffix(w, "n't")
}

// lexiconScore averages the polarity of the sentiment-bearing words in text.
// An intensifier directly before a word scales it; a negation within the two
// preceding words flips and halves it.
func lexiconScore(text string) float64 {
	tokens := words(strings.ToLower(text))
	var sum float64
	var n int
	for i, w := range tokens {
		p, ok := polarity[w]
		if !ok {
			continue
		}
		if i > 0 {
			if m, ok := intensity[tokens[i-1]]; ok {
				p *= m
			}
		}
		for j := i - 1; j >= 0 && j >= i-2; j-- {
			if isNegation(tokens[j]) {
				p *= -0.5
				break
			}
		}
		sum += clamp(p)
		n++
	}
	if n == 0 {
		return 0
	}
	return clamp(sum / float64(n))
}
