package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("MEMVAULT_DB", "")
	t.Setenv("OPENAI_API_KEY", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Search.DefaultLimit)
	assert.Equal(t, 32, cfg.Search.TitleWindow)
	assert.Equal(t, 64, cfg.Search.BodyWindow)
	assert.Equal(t, 0.5, cfg.Sentiment.LexiconWeight)
	assert.Equal(t, int64(25*1024*1024), cfg.MaxUploadBytes())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Setenv("MEMVAULT_DB", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
storage:
  db_path: /tmp/x.db
search:
  default_limit: 5
sentiment:
  lexicon_weight: 0.25
  valence_weight: 0.75
extraction:
  ocr_timeout: 10s
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.Storage.DBPath)
	assert.Equal(t, 5, cfg.Search.DefaultLimit)
	assert.Equal(t, 100, cfg.Search.MaxLimit, "keys absent from the file keep defaults")
	assert.Equal(t, 0.75, cfg.Sentiment.ValenceWeight)
	assert.Equal(t, 10*time.Second, cfg.Extraction.OCRTimeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  db_path: /tmp/file.db\n"), 0o644))

	t.Setenv("MEMVAULT_DB", "/tmp/env.db")
	t.Setenv("MEMVAULT_WORKERS", "9")
	t.Setenv("MEMVAULT_SENTIMENT_VALENCE_WEIGHT", "0.9")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", cfg.Storage.DBPath)
	assert.Equal(t, 9, cfg.Extraction.Workers)
	assert.Equal(t, 0.9, cfg.Sentiment.ValenceWeight)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero sentiment weights", func(c *Config) { c.Sentiment.LexiconWeight, c.Sentiment.ValenceWeight = 0, 0 }, false},
		{"one zero weight", func(c *Config) { c.Sentiment.LexiconWeight = 0 }, true},
		{"negative weight", func(c *Config) { c.Search.TitleWeight = -1 }, false},
		{"no workers", func(c *Config) { c.Extraction.Workers = 0 }, false},
		{"tiny window", func(c *Config) { c.Search.TitleWindow = 2 }, false},
		{"max below default", func(c *Config) { c.Search.MaxLimit = 1 }, false},
		{"no db path", func(c *Config) { c.Storage.DBPath = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
