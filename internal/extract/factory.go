package extract

import (
	"log/slog"

	"github.com/rcliao/memory-vault/internal/config"
)

// Collaborators bundles the configured recognition backends.
type Collaborators struct {
	OCR  *TesseractOCR
	EXIF *GoExif
	ASR  *WhisperASR
}

// NewFromConfig builds the collaborators described by the extraction
// config. ASR stays nil when no endpoint or key is configured.
func NewFromConfig(c config.ExtractionConfig) Collaborators {
	return Collaborators{
		OCR:  NewTesseractOCR(c.OCRCommand, c.OCRLanguage, c.OCRTimeout),
		EXIF: NewGoExif(),
		ASR:  NewWhisperASR(c.ASRBaseURL, c.ASRAPIKey, c.ASRModel, c.ASRTimeout),
	}
}

// Router returns a router over the collaborators.
func (c Collaborators) Router(log *slog.Logger) *Router {
	var (
		ocr  OCR
		exif EXIF
		asr  ASR
	)
	if c.OCR != nil {
		ocr = c.OCR
	}
	if c.EXIF != nil {
		exif = c.EXIF
	}
	if c.ASR != nil {
		asr = c.ASR
	}
	return NewRouter(ocr, exif, asr, log)
}
