package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectContentType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	tests := []struct {
		name string
		path string
		head []byte
		want string
	}{
		{"by extension", "a.jpg", nil, "image/jpeg"},
		{"sniffed png", "upload", png, "image/png"},
		{"sniffed mp3", "clip", []byte("ID3\x03\x00\x00\x00\x00\x00\x00"), "audio/mpeg"},
		{"unknown bytes", "blob", []byte{0x00, 0x01, 0x02, 0x03}, ""},
		{"empty", "blob", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectContentType(tt.path, tt.head))
		})
	}
}

func TestLoadConfig_FlagsWin(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MEMVAULT_DB", filepath.Join(dir, "env.db"))
	t.Setenv("MEMVAULT_CONFIG", filepath.Join(dir, "missing.yaml"))

	configPath, dbPath, mediaDir, logLevel = "", "", "", ""
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "env.db"), cfg.Storage.DBPath)

	dbPath = filepath.Join(dir, "flag.db")
	logLevel = "debug"
	t.Cleanup(func() { dbPath, logLevel = "", "" })
	cfg, err = loadConfig()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "flag.db"), cfg.Storage.DBPath)
	assert.Equal(t, "debug", cfg.Log.Level)
}
