// Package search turns free-text queries into ranked memory results with
// highlighted snippets.
package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/rcliao/memory-vault/internal/config"
	memerr "github.com/rcliao/memory-vault/internal/errors"
	"github.com/rcliao/memory-vault/internal/model"
	"github.com/rcliao/memory-vault/internal/store"
)

// Index is the ranked full-text lookup the engine runs against.
type Index interface {
	SearchIndex(ctx context.Context, q store.IndexQuery) ([]store.Hit, error)
}

// Result is one search match.
type Result struct {
	ID             int64           `json:"id"`
	Title          string          `json:"title"`
	Snippet        string          `json:"snippet"`
	OccurredDate   *string         `json:"date,omitempty"`
	SentimentScore float64         `json:"sentiment"`
	MediaKind      model.MediaKind `json:"media_type"`
	MediaPath      string          `json:"media_path"`
	Score          float64         `json:"score"`
}

// Options tune limits, ranking and snippets.
type Options struct {
	DefaultLimit int
	MaxLimit     int
	TitleWindow  int
	BodyWindow   int
	Weights      store.Weights
	Highlight    Highlighter
}

// DefaultOptions mirror the config defaults.
func DefaultOptions() Options {
	return OptionsFromConfig(config.NewConfig().Search)
}

// OptionsFromConfig maps the search config section.
func OptionsFromConfig(c config.SearchConfig) Options {
	return Options{
		DefaultLimit: c.DefaultLimit,
		MaxLimit:     c.MaxLimit,
		TitleWindow:  c.TitleWindow,
		BodyWindow:   c.BodyWindow,
		Weights:      store.Weights{Title: c.TitleWeight, Text: c.TextWeight, Person: c.PersonWeight},
		Highlight:    Highlighter{Open: c.HighlightOpen, Close: c.HighlightClose},
	}
}

// Engine runs queries against an Index.
type Engine struct {
	idx  Index
	opts Options
	log  *slog.Logger
}

// NewEngine creates an engine. A nil logger discards.
func NewEngine(idx Index, opts Options, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 20
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 100
	}
	if opts.TitleWindow <= 0 {
		opts.TitleWindow = 32
	}
	if opts.BodyWindow <= 0 {
		opts.BodyWindow = 64
	}
	return &Engine{idx: idx, opts: opts, log: log}
}

// Search returns memories containing every token of query, best match
// first. An empty query is a validation error; a query with no word
// characters matches nothing.
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, memerr.ValidationCode(memerr.CodeQueryEmpty, errors.New("search query cannot be empty"))
	}
	switch {
	case limit <= 0:
		limit = e.opts.DefaultLimit
	case limit > e.opts.MaxLimit:
		limit = e.opts.MaxLimit
	}

	terms := Tokenize(query)
	if len(terms) == 0 {
		return []Result{}, nil
	}

	start := time.Now()
	hits, err := e.idx.SearchIndex(ctx, store.IndexQuery{Terms: terms, Limit: limit, Weights: e.opts.Weights})
	if err != nil {
		return nil, err
	}

	termSet := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		termSet[t] = struct{}{}
	}
	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		results = append(results, Result{
			ID:             h.ID,
			Title:          h.Title,
			Snippet:        e.snippet(&h.Memory, termSet),
			OccurredDate:   h.OccurredDate,
			SentimentScore: h.SentimentScore,
			MediaKind:      h.MediaKind,
			MediaPath:      h.MediaPath,
			Score:          h.Score,
		})
	}

	e.log.Debug("search_complete",
		"terms", len(terms),
		"results", len(results),
		"duration_ms", time.Since(start).Milliseconds())
	return results, nil
}

// snippet joins the highlighted windows of each matching field. A hit with
// no highlightable field falls back to the raw title.
func (e *Engine) snippet(m *model.Memory, terms map[string]struct{}) string {
	var parts []string
	if s, ok := e.opts.Highlight.Snippet(m.Title, terms, e.opts.TitleWindow); ok {
		parts = append(parts, "Title: "+s)
	}
	if m.Person != nil {
		if s, ok := e.opts.Highlight.Snippet(*m.Person, terms, e.opts.TitleWindow); ok {
			parts = append(parts, "Person: "+s)
		}
	}
	if s, ok := e.opts.Highlight.Snippet(m.ExtractedText, terms, e.opts.BodyWindow); ok {
		parts = append(parts, "Text: "+s)
	}
	if len(parts) == 0 {
		return m.Title
	}
	return strings.Join(parts, " | ")
}
