package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	DefaultMaxRetries = 3

	DefaultListenAddr  = ":5000"
	DefaultParallelism = 3
	DefaultFormat      = "mp3"
)

// Config is the application configuration, persisted as config.json.
// DuplicateThreshold 0 means "use the default of the selected comparison
// mode", so an explicit value is never confused with the built-in default.
type Config struct {
	DownloadLocation    string `json:"DownloadLocation"`
	Parallelism         int    `json:"Parallelism"`
	Format              string `json:"Format"`
	DuplicateThreshold  int    `json:"DuplicateThreshold"`
	SmartDedupe         bool   `json:"SmartDedupe"`
	ListenAddr          string `json:"ListenAddr"`
	FFmpegDir           string `json:"FFmpegDir"`
	YtDlpPath           string `json:"YtDlpPath"`
	PlaylistLimit       int    `json:"PlaylistLimit"`
	SpotifyClientID     string `json:"SpotifyClientID"`
	SpotifyClientSecret string `json:"SpotifyClientSecret"`
	NavidromeURL        string `json:"NavidromeURL"`
	NavidromeUsername   string `json:"NavidromeUsername"`
	NavidromePassword   string `json:"NavidromePassword"`
	DisableUpdateCheck  bool   `json:"DisableUpdateCheck"`
	UpdateRepo          string `json:"UpdateRepo"`
	MaxRetryAttempts    int    `json:"MaxRetryAttempts"`
	Debug               bool   `json:"-"`
}

// DefaultConfig returns the configuration used before any config.json exists
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DownloadLocation:   filepath.Join(home, "Music", "tube-downloader"),
		Parallelism:        DefaultParallelism,
		Format:             DefaultFormat,
		SmartDedupe:        true,
		ListenAddr:         DefaultListenAddr,
		PlaylistLimit:      200,
		MaxRetryAttempts:   DefaultMaxRetries,
	}
}

// ApplyDefaults fills zero-valued fields with their defaults
func (cfg *Config) ApplyDefaults() {
	defaults := DefaultConfig()
	if cfg.DownloadLocation == "" {
		cfg.DownloadLocation = defaults.DownloadLocation
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = defaults.Parallelism
	}
	if cfg.Format == "" {
		cfg.Format = defaults.Format
	}
	if cfg.DuplicateThreshold < 0 || cfg.DuplicateThreshold > 100 {
		cfg.DuplicateThreshold = 0
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaults.ListenAddr
	}
	if cfg.PlaylistLimit <= 0 {
		cfg.PlaylistLimit = defaults.PlaylistLimit
	}
	if cfg.MaxRetryAttempts <= 0 {
		cfg.MaxRetryAttempts = defaults.MaxRetryAttempts
	}
}

// Validate reports configuration errors that would break a download run
func (cfg *Config) Validate() error {
	if cfg.DownloadLocation == "" {
		return fmt.Errorf("download location must not be empty")
	}
	if cfg.Parallelism <= 0 {
		return fmt.Errorf("parallelism must be positive, got %d", cfg.Parallelism)
	}
	if cfg.DuplicateThreshold < 0 || cfg.DuplicateThreshold > 100 {
		return fmt.Errorf("duplicate threshold must be within 0..100, got %d", cfg.DuplicateThreshold)
	}
	return nil
}

// CreateDirIfNotExists creates a directory if it does not exist
func CreateDirIfNotExists(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// LoadConfig loads configuration from a JSON file
func LoadConfig(filePath string, config *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.ApplyDefaults()
	return nil
}

// SaveConfig saves configuration to a JSON file
func SaveConfig(filePath string, config *Config) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	dir := filepath.Dir(filePath)
	if err := CreateDirIfNotExists(dir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
