// Package config loads memvault configuration from defaults, an optional
// YAML file and MEMVAULT_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete memvault configuration.
type Config struct {
	Storage    StorageConfig    `yaml:"storage" json:"storage"`
	Search     SearchConfig     `yaml:"search" json:"search"`
	Sentiment  SentimentConfig  `yaml:"sentiment" json:"sentiment"`
	Extraction ExtractionConfig `yaml:"extraction" json:"extraction"`
	Log        LogConfig        `yaml:"log" json:"log"`
}

// StorageConfig locates the database and the media directory.
type StorageConfig struct {
	DBPath      string `yaml:"db_path" json:"db_path"`
	MediaDir    string `yaml:"media_dir" json:"media_dir"`
	MaxUploadMB int    `yaml:"max_upload_mb" json:"max_upload_mb"`
}

// SearchConfig tunes ranking and snippet extraction.
type SearchConfig struct {
	DefaultLimit int `yaml:"default_limit" json:"default_limit"`
	MaxLimit     int `yaml:"max_limit" json:"max_limit"`

	// Snippet windows in characters.
	TitleWindow int `yaml:"title_window" json:"title_window"`
	BodyWindow  int `yaml:"body_window" json:"body_window"`

	// bm25 column weights.
	TitleWeight  float64 `yaml:"title_weight" json:"title_weight"`
	TextWeight   float64 `yaml:"text_weight" json:"text_weight"`
	PersonWeight float64 `yaml:"person_weight" json:"person_weight"`

	HighlightOpen  string `yaml:"highlight_open" json:"highlight_open"`
	HighlightClose string `yaml:"highlight_close" json:"highlight_close"`
}

// SentimentConfig weights the two scoring sources. Weights are normalized
// by their sum, so 0.5/0.5 is a plain average.
type SentimentConfig struct {
	LexiconWeight float64 `yaml:"lexicon_weight" json:"lexicon_weight"`
	ValenceWeight float64 `yaml:"valence_weight" json:"valence_weight"`
	CacheSize     int     `yaml:"cache_size" json:"cache_size"`
}

// ExtractionConfig configures the recognition collaborators.
type ExtractionConfig struct {
	Workers int `yaml:"workers" json:"workers"`

	OCRCommand  string        `yaml:"ocr_command" json:"ocr_command"`
	OCRLanguage string        `yaml:"ocr_language" json:"ocr_language"`
	OCRTimeout  time.Duration `yaml:"ocr_timeout" json:"ocr_timeout"`

	// ASR talks to any OpenAI-compatible transcription endpoint. Empty
	// ASRBaseURL with no API key disables transcription.
	ASRBaseURL string        `yaml:"asr_base_url" json:"asr_base_url"`
	ASRAPIKey  string        `yaml:"asr_api_key" json:"-"`
	ASRModel   string        `yaml:"asr_model" json:"asr_model"`
	ASRTimeout time.Duration `yaml:"asr_timeout" json:"asr_timeout"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file" json:"file"`
}

// NewConfig returns the defaults.
func NewConfig() *Config {
	home := HomeDir()
	return &Config{
		Storage: StorageConfig{
			DBPath:      filepath.Join(home, "memvault.db"),
			MediaDir:    filepath.Join(home, "uploads"),
			MaxUploadMB: 25,
		},
		Search: SearchConfig{
			DefaultLimit:   20,
			MaxLimit:       100,
			TitleWindow:    32,
			BodyWindow:     64,
			TitleWeight:    10,
			TextWeight:     1,
			PersonWeight:   5,
			HighlightOpen:  "<mark>",
			HighlightClose: "</mark>",
		},
		Sentiment: SentimentConfig{
			LexiconWeight: 0.5,
			ValenceWeight: 0.5,
			CacheSize:     1024,
		},
		Extraction: ExtractionConfig{
			Workers:     4,
			OCRCommand:  "tesseract",
			OCRLanguage: "eng",
			OCRTimeout:  60 * time.Second,
			ASRModel:    "whisper-1",
			ASRTimeout:  5 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// HomeDir returns the memvault state directory (~/.memvault).
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".memvault")
}

// DefaultPath returns the config file used when none is given explicitly.
func DefaultPath() string {
	if env := os.Getenv("MEMVAULT_CONFIG"); env != "" {
		return env
	}
	return filepath.Join(HomeDir(), "config.yaml")
}

// Load applies, in order of increasing precedence: defaults, the YAML file
// at path (missing file is fine), and environment overrides. The result is
// validated.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		path = DefaultPath()
	}
	if err := cfg.loadYAML(path); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	// Decoding onto the defaults keeps every key the file leaves out.
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("MEMVAULT_DB"); v != "" {
		c.Storage.DBPath = v
	}
	if v := os.Getenv("MEMVAULT_MEDIA_DIR"); v != "" {
		c.Storage.MediaDir = v
	}
	if v := os.Getenv("MEMVAULT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("MEMVAULT_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Extraction.Workers = n
		}
	}
	if v := os.Getenv("MEMVAULT_ASR_URL"); v != "" {
		c.Extraction.ASRBaseURL = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && c.Extraction.ASRAPIKey == "" {
		c.Extraction.ASRAPIKey = v
	}
	if v := os.Getenv("MEMVAULT_SENTIMENT_LEXICON_WEIGHT"); v != "" {
		if w, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && w >= 0 {
			c.Sentiment.LexiconWeight = w
		}
	}
	if v := os.Getenv("MEMVAULT_SENTIMENT_VALENCE_WEIGHT"); v != "" {
		if w, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && w >= 0 {
			c.Sentiment.ValenceWeight = w
		}
	}
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	var errs []string

	if c.Storage.DBPath == "" {
		errs = append(errs, "storage.db_path is required")
	}
	if c.Storage.MediaDir == "" {
		errs = append(errs, "storage.media_dir is required")
	}
	if c.Storage.MaxUploadMB <= 0 {
		errs = append(errs, "storage.max_upload_mb must be positive")
	}
	if c.Search.DefaultLimit <= 0 {
		errs = append(errs, "search.default_limit must be positive")
	}
	if c.Search.MaxLimit < c.Search.DefaultLimit {
		errs = append(errs, "search.max_limit must be >= search.default_limit")
	}
	if c.Search.TitleWindow < 8 || c.Search.BodyWindow < 8 {
		errs = append(errs, "search windows must be at least 8 characters")
	}
	if c.Search.TitleWeight < 0 || c.Search.TextWeight < 0 || c.Search.PersonWeight < 0 {
		errs = append(errs, "search weights must not be negative")
	}
	if c.Sentiment.LexiconWeight < 0 || c.Sentiment.ValenceWeight < 0 {
		errs = append(errs, "sentiment weights must not be negative")
	}
	if c.Sentiment.LexiconWeight+c.Sentiment.ValenceWeight <= 0 {
		errs = append(errs, "sentiment weights must not both be zero")
	}
	if c.Extraction.Workers <= 0 {
		errs = append(errs, "extraction.workers must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Storage.MaxUploadMB) * 1024 * 1024
}
