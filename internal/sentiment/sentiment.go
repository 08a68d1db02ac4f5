// Package sentiment scores the emotional polarity of text in [-1, 1] by
// blending a word-polarity lexicon with a valence model.
package sentiment

import (
	"context"
	"math"
	"strings"

	"github.com/rcliao/memory-vault/internal/config"
)

// Scorer scores text polarity.
type Scorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// Labels for Label.
const (
	VeryPositive = "Very Positive"
	Positive     = "Positive"
	Neutral      = "Neutral"
	Negative     = "Negative"
	VeryNegative = "Very Negative"
)

// Detail is the breakdown of one analysis.
type Detail struct {
	Score      float64 `json:"score"`
	Label      string  `json:"label"`
	Lexicon    float64 `json:"lexicon_score"`
	Valence    float64 `json:"valence_score"`
	Confidence float64 `json:"confidence"`
}

// Analyzer blends the two scoring sources with normalized weights.
type Analyzer struct {
	lexiconWeight float64
	valenceWeight float64
}

// New creates an analyzer. Non-positive total weight falls back to an even
// split.
func New(lexiconWeight, valenceWeight float64) *Analyzer {
	if lexiconWeight < 0 || valenceWeight < 0 || lexiconWeight+valenceWeight <= 0 {
		lexiconWeight, valenceWeight = 0.5, 0.5
	}
	total := lexiconWeight + valenceWeight
	return &Analyzer{lexiconWeight: lexiconWeight / total, valenceWeight: valenceWeight / total}
}

// NewFromConfig creates an analyzer from the sentiment config section.
func NewFromConfig(c config.SentimentConfig) *Analyzer {
	return New(c.LexiconWeight, c.ValenceWeight)
}

// Score returns the blended polarity rounded to two decimals. Empty text
// scores exactly 0.
func (a *Analyzer) Score(ctx context.Context, text string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return a.Analyze(text).Score, nil
}

// Analyze returns the blended score together with its components.
func (a *Analyzer) Analyze(text string) Detail {
	if strings.TrimSpace(text) == "" {
		return Detail{Label: Neutral}
	}
	cleaned := Clean(text)
	if cleaned == "" {
		return Detail{Label: Neutral}
	}

	lex := lexiconScore(cleaned)
	val := valenceScore(cleaned)
	final := clamp(a.lexiconWeight*lex + a.valenceWeight*val)

	return Detail{
		Score:      round2(final),
		Label:      Label(final),
		Lexicon:    round2(lex),
		Valence:    round2(val),
		Confidence: round2(math.Max(0, 1-math.Abs(lex-val))),
	}
}

// Label names the band a score falls in.
func Label(score float64) string {
	switch {
	case score >= 0.6:
		return VeryPositive
	case score >= 0.2:
		return Positive
	case score >= -0.2:
		return Neutral
	case score >= -0.6:
		return Negative
	default:
		return VeryNegative
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func clamp(f float64) float64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f > 1:
		return 1
	case f < -1:
		return -1
	}
	return f
}
