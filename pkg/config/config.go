// Package config loads the ptrboard service configuration from YAML.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ukaji3/ptrboard-go/pkg/ptrboard"
	"gopkg.in/yaml.v3"
)

// Environment variables overriding file settings.
const (
	EnvConfigPath  = "PTRBOARD_CONFIG"
	EnvDriveFolder = "PTRBOARD_DRIVE_FOLDER"
	EnvCredentials = "GOOGLE_APPLICATION_CREDENTIALS"
)

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server,omitempty"`
	Log      LogConfig      `yaml:"log,omitempty"`
	Drive    DriveConfig    `yaml:"drive,omitempty"`
	Sheets   SheetsConfig   `yaml:"sheets,omitempty"`
	Overview OverviewConfig `yaml:"overview,omitempty"`
	Accounts AccountsConfig `yaml:"accounts,omitempty"`
	Display  DisplayConfig  `yaml:"display,omitempty"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Address         string        `yaml:"address,omitempty"` // Default: ":8080"
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout,omitempty"`
	SessionTTL      time.Duration `yaml:"session_ttl,omitempty"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level string `yaml:"level,omitempty"` // debug, info, warn, error
}

// DriveConfig configures the workbook store.
type DriveConfig struct {
	FolderID        string        `yaml:"folder_id,omitempty"`
	CredentialsFile string        `yaml:"credentials_file,omitempty"` // Empty uses Application Default Credentials
	BaseURL         string        `yaml:"base_url,omitempty"`
	ChunkSize       int64         `yaml:"chunk_size,omitempty"` // Bytes per ranged download
	Timeout         time.Duration `yaml:"timeout,omitempty"`
	LocalDir        string        `yaml:"local_dir,omitempty"` // Serve a local directory instead of Drive
}

// SheetsConfig configures sheet normalization and metrics.
type SheetsConfig struct {
	HeaderMarker  string   `yaml:"header_marker,omitempty"`
	MaxScanRows   int      `yaml:"max_scan_rows,omitempty"`
	VersionMarker string   `yaml:"version_marker,omitempty"`
	VersionColumn *int     `yaml:"version_column,omitempty"`
	Platforms     []string `yaml:"platforms,omitempty"`
}

// OverviewConfig configures the overview heatmaps.
type OverviewConfig struct {
	Sheet  string   `yaml:"sheet,omitempty"`
	Titles []string `yaml:"titles,omitempty"`
}

// AccountsConfig configures the account store.
type AccountsConfig struct {
	CSVFile string `yaml:"csv_file,omitempty"`
}

// DisplayConfig configures user-facing formatting.
type DisplayConfig struct {
	Timezone string `yaml:"timezone,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse parses, defaults and validates YAML configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// ApplyEnv overrides settings from environment variables read through lookup
// (os.LookupEnv in production).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvDriveFolder); ok && v != "" {
		c.Drive.FolderID = v
	}
	if v, ok := lookup(EnvCredentials); ok && v != "" && c.Drive.CredentialsFile == "" {
		c.Drive.CredentialsFile = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := time.LoadLocation(c.Display.Timezone); err != nil {
		return fmt.Errorf("display.timezone: %w", err)
	}
	if c.Drive.ChunkSize < 0 {
		return fmt.Errorf("drive.chunk_size must be >= 0")
	}
	if c.Sheets.MaxScanRows < 0 {
		return fmt.Errorf("sheets.max_scan_rows must be >= 0")
	}
	if c.Sheets.VersionColumn != nil && *c.Sheets.VersionColumn < 0 {
		return fmt.Errorf("sheets.version_column must be >= 0")
	}
	if c.Server.ShutdownTimeout < 0 || c.Server.SessionTTL < 0 {
		return fmt.Errorf("server durations must be >= 0")
	}
	return nil
}

// ValidateStore checks that a workbook source is configured.
func (c *Config) ValidateStore() error {
	if c.Drive.LocalDir == "" && c.Drive.FolderID == "" {
		return fmt.Errorf("drive.folder_id or drive.local_dir is required")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Server.SessionTTL == 0 {
		c.Server.SessionTTL = 12 * time.Hour
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Drive.Timeout == 0 {
		c.Drive.Timeout = 60 * time.Second
	}
	if c.Accounts.CSVFile == "" {
		c.Accounts.CSVFile = "users.csv"
	}
	if c.Display.Timezone == "" {
		c.Display.Timezone = "Asia/Jakarta"
	}
}

// DashboardOptions converts the sheet and overview settings.
func (c *Config) DashboardOptions() ptrboard.Options {
	opts := ptrboard.DefaultOptions()
	if c.Sheets.HeaderMarker != "" {
		opts.Normalize.HeaderMarker = c.Sheets.HeaderMarker
	}
	if c.Sheets.MaxScanRows > 0 {
		opts.Normalize.MaxScanRows = c.Sheets.MaxScanRows
	}
	if c.Sheets.VersionMarker != "" {
		opts.Normalize.VersionMarker = c.Sheets.VersionMarker
	}
	if c.Sheets.VersionColumn != nil {
		opts.Normalize.VersionColumn = *c.Sheets.VersionColumn
	}
	if len(c.Sheets.Platforms) > 0 {
		opts.Platforms = c.Sheets.Platforms
	}
	if c.Overview.Sheet != "" {
		opts.OverviewSheet = c.Overview.Sheet
	}
	if len(c.Overview.Titles) > 0 {
		opts.OverviewTitles = c.Overview.Titles
	}
	return opts
}

// Location returns the display time zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log.level: unknown level %q", s)
}
