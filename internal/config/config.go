package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for scanrecon.
type Config struct {
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	Filesystem FilesystemConfig `toml:"filesystem"`
	Harvest    HarvestConfig    `toml:"harvest"`
	Sync       SyncConfig       `toml:"sync"`
	Database   DatabaseConfig   `toml:"database"`
	Report     ReportConfig     `toml:"report"`
}

// FilesystemConfig holds filesystem-related settings.
type FilesystemConfig struct {
	Junk     []string `toml:"junk"`      // extra junk file names, on top of Thumbs.db and .DS_Store
	JunkFile string   `toml:"junk_file"` // optional file listing more junk names, one per line
}

// HarvestConfig describes the harvest records CSV export.
type HarvestConfig struct {
	BatchColumn      string `toml:"batch_column"`
	IdentifierColumn string `toml:"identifier_column"`
	Comma            string `toml:"comma"` // single character; defaults to ","
}

// SyncConfig controls the tree synchronizer.
type SyncConfig struct {
	KeyMode      string `toml:"key_mode"`      // "path" (default) or "name"
	FolderPrefix string `toml:"folder_prefix"` // literal text before the digits of a collection folder
	FolderSuffix string `toml:"folder_suffix"` // literal text after the digits
}

// DatabaseConfig represents configuration for the run history database.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// ReportConfig controls where reconciliation reports go.
// The S3 fields are optional; when S3Bucket is empty reports stay local.
type ReportConfig struct {
	Dir string `toml:"dir"`

	S3Bucket          string `toml:"s3_bucket,omitempty"`
	S3Prefix          string `toml:"s3_prefix,omitempty"`
	S3Region          string `toml:"s3_region,omitempty"`
	S3Endpoint        string `toml:"s3_endpoint,omitempty"`
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`
}

// NewConfig creates a new Config rooted at baseDir with default settings.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Harvest: HarvestConfig{
			BatchColumn:      "garden",
			IdentifierColumn: "letno",
			Comma:            ",",
		},
		Sync: SyncConfig{
			KeyMode:      "path",
			FolderPrefix: "scans_",
			FolderSuffix: "_jpg",
		},
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Report: ReportConfig{
			Dir: filepath.Join(baseDir, "reports"),
		},
	}
}

// Validate checks values that cannot be caught by decoding alone.
func (c *Config) Validate() error {
	switch c.Sync.KeyMode {
	case "", "path", "name":
	default:
		return fmt.Errorf("sync.key_mode must be \"path\" or \"name\", got %q", c.Sync.KeyMode)
	}
	if len([]rune(c.Harvest.Comma)) > 1 {
		return fmt.Errorf("harvest.comma must be a single character, got %q", c.Harvest.Comma)
	}
	if c.Report.S3Bucket != "" && c.Report.S3Region == "" {
		return fmt.Errorf("report.s3_region is required when report.s3_bucket is set")
	}
	if (c.Report.S3AccessKeyID == "") != (c.Report.S3SecretAccessKey == "") {
		return fmt.Errorf("report.s3_access_key_id and report.s3_secret_access_key must be set together")
	}
	return nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads and validates a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
