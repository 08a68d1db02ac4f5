// Package cli implements the memvault CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/memory-vault/internal/config"
	"github.com/rcliao/memory-vault/internal/logging"
	"github.com/rcliao/memory-vault/internal/vault"
)

var (
	dbPath     string
	mediaDir   string
	configPath string
	logLevel   string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "memvault",
	Short: "Searchable memories from photos and voice notes",
	Long:  "Ingest images and audio, extract their text and metadata, and find them again with ranked full-text search. SQLite-backed, single binary.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $MEMVAULT_DB or ~/.memvault/memvault.db)")
	RootCmd.PersistentFlags().StringVar(&mediaDir, "media-dir", "", "Blob directory (default: $MEMVAULT_MEDIA_DIR or ~/.memvault/uploads)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $MEMVAULT_CONFIG or ~/.memvault/config.yaml)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Storage.DBPath = dbPath
	}
	if mediaDir != "" {
		cfg.Storage.MediaDir = mediaDir
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

// openService wires a service from config. The returned func closes it and
// flushes the log.
func openService() (*vault.Service, func()) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	log, closeLog, err := logging.Setup(logging.Config{
		Level:    cfg.Log.Level,
		Format:   cfg.Log.Format,
		FilePath: cfg.Log.File,
	})
	if err != nil {
		exitErr("setup logging", err)
	}
	slog.SetDefault(log)

	svc, err := vault.Open(cfg, log)
	if err != nil {
		closeLog()
		exitErr("open vault", err)
	}
	return svc, func() {
		svc.Close()
		closeLog()
	}
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
