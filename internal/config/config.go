package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultLedgerName is the ledger file name used when none is configured.
// Relative ledger paths resolve against the working directory.
const DefaultLedgerName = ".rename-history"

// Config represents the main configuration for mrn.
type Config struct {
	LedgerPath string         `toml:"ledger_path"`
	LogDir     string         `toml:"log_dir"`
	Workers    int            `toml:"workers"` // 0 = one goroutine per file
	Prefix     string         `toml:"prefix"`  // overrides the per-category default when set
	Ignore     []string       `toml:"ignore"`
	Metadata   MetadataConfig `toml:"metadata"`
	Journal    JournalConfig  `toml:"journal"`
	Archive    ArchiveConfig  `toml:"archive"`
}

// MetadataConfig selects how embedded capture times are read.
type MetadataConfig struct {
	Extractor string `toml:"extractor"` // "goexif" (default), "exiftool", or "none"
}

// JournalConfig represents configuration for the run journal.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type JournalConfig struct {
	Type    string `toml:"type"`               // "sqlite", "memory", or "none"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// ArchiveConfig represents configuration for the ledger snapshot archive.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type ArchiveConfig struct {
	Type string `toml:"type"` // "none", "filesystem", "s3", or "memory"

	// Filesystem-specific fields (only used when Type == "filesystem")
	Root string `toml:"root,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket string `toml:"s3_bucket,omitempty"`
	S3Prefix string `toml:"s3_prefix,omitempty"`
	S3Region string `toml:"s3_region,omitempty"`
	// S3Endpoint targets an S3-compatible service; path-style addressing is used when set.
	S3Endpoint string `toml:"s3_endpoint,omitempty"`
	// Static credentials. When empty the default AWS credential chain applies.
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`

	// PublicKeyPath names an age recipient file. Snapshots are stored
	// encrypted when it is set.
	PublicKeyPath string `toml:"public_key_path,omitempty"`
}

// NewConfig creates a Config with defaults rooted at baseDir.
func NewConfig(baseDir string) *Config {
	return &Config{
		LedgerPath: DefaultLedgerName,
		LogDir:     filepath.Join(baseDir, "log"),
		Workers:    8,
		Ignore:     []string{"._*"},
		Metadata:   MetadataConfig{Extractor: "goexif"},
		Journal: JournalConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Archive: ArchiveConfig{Type: "none"},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if err := m.ReadInto(r, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ReadInto decodes onto cfg. Keys absent from the input keep their current
// values.
func (m *Manager) ReadInto(r io.Reader, cfg *Config) error {
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
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
	return cfg, nil
}

// Load reads the config at path on top of the defaults rooted at baseDir, so
// keys the file omits keep their default values. A missing file yields the
// defaults. String fields set to "" are also reset to their defaults; an
// explicit workers = 0 is kept.
func Load(path, baseDir string) (*Config, error) {
	defaults := NewConfig(baseDir)
	cfg := NewConfig(baseDir)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaults, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.ReadInto(f, cfg); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	if cfg.LedgerPath == "" {
		cfg.LedgerPath = defaults.LedgerPath
	}
	if cfg.LogDir == "" {
		cfg.LogDir = defaults.LogDir
	}
	if cfg.Metadata.Extractor == "" {
		cfg.Metadata.Extractor = defaults.Metadata.Extractor
	}
	if cfg.Journal.Type == "" {
		cfg.Journal = defaults.Journal
	}
	if cfg.Journal.Type == "sqlite" && cfg.Journal.DataDir == "" {
		cfg.Journal.DataDir = defaults.Journal.DataDir
	}
	if cfg.Archive.Type == "" {
		cfg.Archive.Type = defaults.Archive.Type
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
// This is an internal helper and should not be exported.
func writeToFile(path string, cfg *Config) error {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
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
	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
