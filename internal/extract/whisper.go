package extract

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// WhisperASR transcribes audio through an OpenAI-compatible
// /audio/transcriptions endpoint. The client is built on first use and
// shared by every caller.
type WhisperASR struct {
	baseURL string
	apiKey  string
	model   string
	timeout time.Duration

	once   sync.Once
	client openai.Client
}

// NewWhisperASR creates an ASR collaborator. It returns nil when neither a
// base URL nor an API key is set, which leaves transcription disabled.
func NewWhisperASR(baseURL, apiKey, model string, timeout time.Duration) *WhisperASR {
	if baseURL == "" && apiKey == "" {
		return nil
	}
	if model == "" {
		model = "whisper-1"
	}
	return &WhisperASR{baseURL: baseURL, apiKey: apiKey, model: model, timeout: timeout}
}

func (w *WhisperASR) init() {
	w.once.Do(func() {
		opts := []option.RequestOption{option.WithMaxRetries(1)}
		if w.apiKey != "" {
			opts = append(opts, option.WithAPIKey(w.apiKey))
		}
		if w.baseURL != "" {
			opts = append(opts, option.WithBaseURL(w.baseURL))
		}
		w.client = openai.NewClient(opts...)
	})
}

// Available reports whether transcription is configured.
func (w *WhisperASR) Available(context.Context) error {
	if w == nil {
		return ErrUnavailable
	}
	return nil
}

// Transcribe returns the trimmed transcript of the audio file.
func (w *WhisperASR) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if w == nil {
		return "", ErrUnavailable
	}
	w.init()

	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	resp, err := w.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:  f,
		Model: openai.AudioModel(w.model),
	})
	if err != nil {
		return "", fmt.Errorf("transcription: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}
