package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/memory-vault/internal/config"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  hello  \n\n  world \n", "hello world"},
		{"a    b\n\tc", "a b c"},
		{"\n\n\n", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanText(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2024:07:04 15:30:00", "2024-07-04"},
		{"2024-07-04", "2024-07-04"},
		{"2024:13:45 00:00:00", "2024-13-45"}, // not calendar-checked
		{"    :  :     :  :  ", ""},
		{"2024", ""},
		{"abcd:ef:gh", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeDate(tt.in), "input %q", tt.in)
	}
}

func TestFormatGPS(t *testing.T) {
	assert.Equal(t, "GPS: 37.774900, -122.419400", formatGPS(37.7749, -122.4194))
}

func TestGoExif_NotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.jpg")
	require.NoError(t, os.WriteFile(path, []byte("not really a jpeg"), 0o644))

	md, err := NewGoExif().ExtractMetadata(context.Background(), path)
	assert.Error(t, err)
	assert.Nil(t, md.Date)
	assert.Nil(t, md.Location)

	_, err = NewGoExif().ExtractMetadata(context.Background(), filepath.Join(t.TempDir(), "missing.jpg"))
	assert.Error(t, err)
}

func TestTesseract_Unavailable(t *testing.T) {
	ocr := NewTesseractOCR("memvault-no-such-ocr-binary", "eng", time.Second)
	assert.ErrorIs(t, ocr.Available(context.Background()), ErrUnavailable)

	_, err := ocr.ExtractText(context.Background(), "/tmp/x.png")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestWhisper_DisabledWithoutConfig(t *testing.T) {
	w := NewWhisperASR("", "", "", 0)
	assert.Nil(t, w)
	assert.ErrorIs(t, w.Available(context.Background()), ErrUnavailable)
	_, err := w.Transcribe(context.Background(), "/tmp/a.mp3")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestWhisper_Transcribe(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/audio/transcriptions") {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			gotModel = r.FormValue("model")
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"text": "  we visited the lake  "})
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "clip.mp3")
	require.NoError(t, os.WriteFile(path, []byte("ID3fakeaudio"), 0o644))

	w := NewWhisperASR(srv.URL+"/v1", "test-key", "", 5*time.Second)
	require.NotNil(t, w)
	text, err := w.Transcribe(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "we visited the lake", text)
	assert.Equal(t, "whisper-1", gotModel)
}

func TestWhisper_ServerErrorDegradesThroughRouter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "clip.mp3")
	require.NoError(t, os.WriteFile(path, []byte("ID3fakeaudio"), 0o644))

	c := Collaborators{ASR: NewWhisperASR(srv.URL, "k", "", 5*time.Second)}
	res, err := c.Router(nil).Route(context.Background(), "audio", path)
	require.NoError(t, err)
	assert.Empty(t, res.Content.Text)
	require.Len(t, res.Degradations, 1)
	assert.Equal(t, "asr", res.Degradations[0].Source)
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.NewConfig().Extraction
	c := NewFromConfig(cfg)
	assert.NotNil(t, c.OCR)
	assert.NotNil(t, c.EXIF)
	assert.Nil(t, c.ASR)

	cfg.ASRAPIKey = "sk-test"
	c = NewFromConfig(cfg)
	assert.NotNil(t, c.ASR)
}
