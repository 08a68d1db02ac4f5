package extract

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// TesseractOCR runs the tesseract CLI. The binary is resolved once, on
// first use, and shared by every caller.
type TesseractOCR struct {
	command string
	lang    string
	timeout time.Duration

	once    sync.Once
	binPath string
	lookErr error
}

// NewTesseractOCR creates an OCR collaborator for the given binary name or
// path.
func NewTesseractOCR(command, lang string, timeout time.Duration) *TesseractOCR {
	if command == "" {
		command = "tesseract"
	}
	if lang == "" {
		lang = "eng"
	}
	return &TesseractOCR{command: command, lang: lang, timeout: timeout}
}

func (t *TesseractOCR) resolve() error {
	t.once.Do(func() {
		t.binPath, t.lookErr = exec.LookPath(t.command)
	})
	if t.lookErr != nil {
		return fmt.Errorf("%w: %s not found: %v", ErrUnavailable, t.command, t.lookErr)
	}
	return nil
}

// Available reports whether the tesseract binary can be found.
func (t *TesseractOCR) Available(context.Context) error {
	return t.resolve()
}

// ExtractText returns the cleaned text tesseract recognizes in the image.
func (t *TesseractOCR) ExtractText(ctx context.Context, imagePath string) (string, error) {
	if err := t.resolve(); err != nil {
		return "", err
	}
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	// psm 6: a single uniform block of text.
	cmd := exec.CommandContext(ctx, t.binPath, imagePath, "stdout", "-l", t.lang, "--oem", "3", "--psm", "6")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return CleanText(stdout.String()), nil
}
