package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is intentionally small and maps 1:1 onto viper keys.
type Config struct {
	// Addr is the listen address.
	Addr string `mapstructure:"addr"`

	// Root is the directory tree served for browsing, download and upload.
	// Default: the invoking user's home directory. Resolved to an absolute
	// path once at load time and never re-read afterwards.
	Root string `mapstructure:"root"`

	// StateDir holds the thumbnail cache.
	// Default: <root>/.homeshare
	StateDir string `mapstructure:"state_dir"`

	// MaxUploadBytes caps a single uploaded file. 0 means no limit.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`

	// MaxUploadFiles caps files accepted per upload request. 0 means no limit.
	MaxUploadFiles int `mapstructure:"max_upload_files"`
}

// Load materializes a Config from viper, fills defaults and validates it.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Addr == "" {
		cfg.Addr = "0.0.0.0:8000"
	}
	if cfg.Root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home dir: %w", err)
		}
		cfg.Root = home
	}
	absRoot, err := filepath.Abs(cfg.Root)
	if err != nil {
		return Config{}, fmt.Errorf("abs root: %w", err)
	}
	cfg.Root = absRoot
	if cfg.StateDir == "" {
		cfg.StateDir = filepath.Join(cfg.Root, ".homeshare")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	st, err := os.Stat(c.Root)
	if err != nil {
		return fmt.Errorf("root: %w", err)
	}
	if !st.IsDir() {
		return fmt.Errorf("root %q is not a directory", c.Root)
	}
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("max_upload_bytes must be >= 0, got %d", c.MaxUploadBytes)
	}
	if c.MaxUploadFiles < 0 {
		return fmt.Errorf("max_upload_files must be >= 0, got %d", c.MaxUploadFiles)
	}
	return nil
}
