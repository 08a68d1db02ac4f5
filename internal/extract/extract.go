// Package extract derives searchable text and metadata from stored media
// through pluggable recognition collaborators.
package extract

import (
	"context"
	"errors"
	"strings"
)

// ErrUnavailable reports a collaborator that is not installed or not
// configured.
var ErrUnavailable = errors.New("collaborator unavailable")

// OCR recognizes text in an image.
type OCR interface {
	ExtractText(ctx context.Context, imagePath string) (string, error)
}

// EXIF reads capture metadata from an image.
type EXIF interface {
	ExtractMetadata(ctx context.Context, imagePath string) (Metadata, error)
}

// ASR transcribes speech in an audio file.
type ASR interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Metadata is the normalized EXIF output. Date is YYYY-MM-DD.
type Metadata struct {
	Date     *string
	Location *string
}

// Checker is implemented by collaborators that can report availability
// without doing any work.
type Checker interface {
	Available(ctx context.Context) error
}

// CleanText trims every line, drops empty lines and joins the rest with
// single spaces.
func CleanText(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(strings.Fields(strings.Join(kept, " ")), " ")
}
