package sentiment

import (
	"math"
	"strings"
	"unicode"
)

// valence holds per-token valence on a [-4, 4] scale.
var valence = map[string]float64{
	"amazing": 2.8, "awesome": 3.1, "beautiful": 2.9, "best": 3.2, "better": 1.9,
	"brilliant": 2.8, "calm": 1.3, "cheerful": 2.5, "delight": 2.9, "delightful": 2.9,
	"enjoy": 2.2, "enjoyed": 2.3, "excellent": 2.7, "excited": 1.4, "exciting": 2.2,
	"fantastic": 2.6, "fine": 0.8, "fun": 2.3, "glad": 2.0, "good": 1.9,
	"gorgeous": 3.0, "great": 3.1, "happy": 2.7, "incredible": 2.4, "joy": 2.8,
	"kind": 2.4, "laugh": 2.6, "like": 1.5, "love": 3.2, "loved": 2.9,
	"lovely": 2.8, "lucky": 1.8, "nice": 1.8, "okay": 0.9, "peaceful": 2.2,
	"perfect": 2.7, "pleasant": 2.3, "proud": 2.1, "smile": 1.5, "special": 1.7,
	"sunny": 1.8, "sweet": 2.0, "thanks": 1.9, "warm": 0.9, "win": 2.8,
	"wonderful": 2.7, "yay": 2.4,

	"angry": -2.3, "annoying": -1.7, "awful": -2.0, "bad": -2.5, "boring": -1.3,
	"broken": -1.5, "cry": -2.1, "dead": -3.3, "disappointed": -1.9, "disappointing": -2.2,
	"dreadful": -2.7, "dull": -1.7, "fail": -2.5, "hate": -2.7, "hated": -3.2,
	"horrible": -2.5, "hurt": -2.4, "lonely": -1.5, "lost": -1.3, "miserable": -2.2,
	"missed": -1.2, "nasty": -2.6, "pain": -2.3, "painful": -2.4, "poor": -2.1,
	"sad": -2.1, "scared": -1.9, "sick": -2.3, "sorry": -0.3, "stupid": -2.4,
	"terrible": -2.1, "tired": -1.9, "ugly": -2.3, "unhappy": -1.8, "upset": -1.6,
	"worse": -2.1, "worst": -3.1, "wrong": -2.1,

	"😊": 2.3, "🙂": 1.3, "😀": 2.1, "😍": 2.7, "❤": 2.5,
	"😐": -0.1, "😔": -1.4, "😢": -2.1, "😡": -2.6, "😭": -2.3,
}

const (
	boostIncr    = 0.293
	capsIncr     = 0.733
	negateScale  = -0.74
	bangIncr     = 0.292
	maxBangs     = 4
	normalizeAlp = 15
)

var boosters = map[string]float64{
	"very": boostIncr, "really": boostIncr, "so": boostIncr, "extremely": boostIncr,
	"incredibly": boostIncr, "absolutely": boostIncr, "totally": boostIncr, "too": boostIncr,
	"slightly": -boostIncr, "somewhat": -boostIncr, "barely": -boostIncr, "kinda": -boostIncr,
}

// valenceScore sums token valences adjusted for boosters, negation,
// emphasis by capitals and exclamation, and contrast around "but", then
// normalizes the sum into (-1, 1).
func valenceScore(text string) float64 {
	tokens := words(text)
	lower := make([]string, len(tokens))
	for i, t := range tokens {
		lower[i] = strings.ToLower(t)
	}
	mixedCase := !allCaps(tokens)

	butAt := -1
	for i, w := range lower {
		if w == "but" {
			butAt = i
		}
	}

	var sum float64
	for i, w := range lower {
		v, ok := valence[w]
		if !ok {
			continue
		}
		if mixedCase && len([]rune(tokens[i])) > 1 && isUpper(tokens[i]) {
			v += math.Copysign(capsIncr, v)
		}
		for j := i - 1; j >= 0 && j >= i-3; j-- {
			if b, ok := boosters[lower[j]]; ok {
				scale := 1.0
				switch i - j {
				case 2:
					scale = 0.95
				case 3:
					scale = 0.9
				}
				v += math.Copysign(b*scale, v)
			}
		}
		for j := i - 1; j >= 0 && j >= i-3; j-- {
			if isNegation(lower[j]) {
				v *= negateScale
				break
			}
		}
		if butAt >= 0 {
			if i < butAt {
				v *= 0.5
			} else {
				v *= 1.5
			}
		}
		sum += v
	}

	if sum != 0 {
		bangs := strings.Count(text, "!")
		if bangs > maxBangs {
			bangs = maxBangs
		}
		sum += math.Copysign(float64(bangs)*bangIncr, sum)
	}
	return clamp(sum / math.Sqrt(sum*sum+normalizeAlp))
}

func isUpper(w string) bool {
	hasLetter := false
	for _, r := range w {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

func allCaps(tokens []string) bool {
	for _, t := range tokens {
		if !isUpper(t) && strings.IndexFunc(t, unicode.IsLetter) >= 0 {
			return false
		}
	}
	return true
}
