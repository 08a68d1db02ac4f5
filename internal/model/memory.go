// Package model defines the core memory data types.
package model

import (
	"fmt"
	"strings"
	"time"
)

// MediaKind is the kind of media a memory was ingested from.
type MediaKind string

const (
	KindImage MediaKind = "image"
	KindAudio MediaKind = "audio"
)

// Valid reports whether k is a supported media kind.
func (k MediaKind) Valid() bool {
	return k == KindImage || k == KindAudio
}

// KindFromContentType resolves a declared media type such as "image/jpeg"
// to a MediaKind. Parameters after ';' are ignored.
func KindFromContentType(contentType string) (MediaKind, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch {
	case strings.HasPrefix(ct, "image/"):
		return KindImage, nil
	case strings.HasPrefix(ct, "audio/"):
		return KindAudio, nil
	case ct == "":
		return "", fmt.Errorf("media type not detected")
	}
	return "", fmt.Errorf("unsupported media type %q (only image/* and audio/*)", contentType)
}

// Memory represents a stored memory record.
type Memory struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	ExtractedText  string    `json:"text"`
	OccurredDate   *string   `json:"date,omitempty"`
	Location       *string   `json:"location,omitempty"`
	SentimentScore float64   `json:"sentiment"`
	MediaPath      string    `json:"media_path"`
	MediaKind      MediaKind `json:"media_type"`
	Person         *string   `json:"person,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IndexEntry is the searchable projection of a Memory.
type IndexEntry struct {
	ID            int64
	Title         string
	ExtractedText string
	Person        string
}

// Entry derives the index entry for m.
func (m *Memory) Entry() IndexEntry {
	e := IndexEntry{ID: m.ID, Title: m.Title, ExtractedText: m.ExtractedText}
	if m.Person != nil {
		e.Person = *m.Person
	}
	return e
}

// NewMemory holds the fields assembled by ingestion before the store assigns
// an id and timestamps.
type NewMemory struct {
	Title          string
	ExtractedText  string
	OccurredDate   *string
	Location       *string
	SentimentScore float64
	MediaPath      string
	MediaKind      MediaKind
	Person         *string
}

// UpdateRequest lists the mutable fields of a memory. Nil means unchanged.
type UpdateRequest struct {
	Title          *string
	ExtractedText  *string
	OccurredDate   *string
	Location       *string
	SentimentScore *float64
	Person         *string
}

// Empty reports whether the request changes nothing.
func (u UpdateRequest) Empty() bool {
	return u.Title == nil && u.ExtractedText == nil && u.OccurredDate == nil &&
		u.Location == nil && u.SentimentScore == nil && u.Person == nil
}

// TouchesIndex reports whether the request changes a searchable field.
func (u UpdateRequest) TouchesIndex() bool {
	return u.Title != nil || u.ExtractedText != nil || u.Person != nil
}

// ExtractedContent is the normalized output of the extraction router.
type ExtractedContent struct {
	Text         string  `json:"text"`
	OccurredDate *string `json:"date,omitempty"`
	Location     *string `json:"location,omitempty"`
}

// ClampSentiment bounds s to [-1, 1].
func ClampSentiment(s float64) float64 {
	if s != s { // NaN
		return 0
	}
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}

// StringPtr returns nil for an empty (after trimming) string.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
