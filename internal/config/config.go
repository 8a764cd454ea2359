// Package config loads deckdown's YAML configuration. Every field is
// optional; zero values fall back to the defaults returned by the
// getter methods so a missing or empty file still yields a working
// server.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the default file looked up by LoadFromDir.
const ConfigFileName = "deckdown.yaml"

// Config is the root configuration document.
type Config struct {
	Server  ServerConfig  `yaml:"server,omitempty"`
	Storage StorageConfig `yaml:"storage,omitempty"`
	Themes  ThemesConfig  `yaml:"themes,omitempty"`
	Images  ImagesConfig  `yaml:"images,omitempty"`
}

// ServerConfig controls the HTTP/WebSocket listener.
type ServerConfig struct {
	Host        string   `yaml:"host,omitempty"`
	Port        int      `yaml:"port,omitempty"`
	CORSOrigins []string `yaml:"cors_origins,omitempty"`

	// RateLimit is requests per second per client IP; 0 uses the
	// default, a negative value disables limiting.
	RateLimit float64 `yaml:"rate_limit,omitempty"`
	RateBurst int     `yaml:"rate_burst,omitempty"`

	// AutosaveDelaySeconds is the quiet period before an editing
	// session flushes its document to storage.
	AutosaveDelaySeconds int  `yaml:"autosave_delay_seconds,omitempty"`
	Debug                bool `yaml:"debug,omitempty"`
}

// StorageConfig selects and configures the persistence driver.
type StorageConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `yaml:"driver,omitempty"`

	// Path is the sqlite database file.
	Path string `yaml:"path,omitempty"`

	// DSN is the postgres connection string. Environment variables
	// are expanded, so secrets can stay out of the file.
	DSN string `yaml:"dsn,omitempty"`
}

// ThemesConfig points at user-provided theme files.
type ThemesConfig struct {
	// Dir holds extra *.yaml theme definitions, watched for changes
	// while the server runs.
	Dir string `yaml:"dir,omitempty"`
}

// ImagesConfig configures the stock photo search boundary.
type ImagesConfig struct {
	// AccessKey authenticates against the photo API. Environment
	// variables are expanded. Empty means placeholder images only.
	AccessKey string `yaml:"access_key,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
}

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() *Config {
	return &Config{}
}

// Load reads and parses the given YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromDir loads deckdown.yaml from the given directory, or the
// defaults when the file does not exist.
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return Load(path)
}

// Save writes the configuration to the given path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (s *ServerConfig) GetHost() string {
	if s.Host == "" {
		return "localhost"
	}
	return s.Host
}

func (s *ServerConfig) GetPort() int {
	if s.Port == 0 {
		return 8844
	}
	return s.Port
}

// Addr is the host:port the listener binds.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.GetHost(), s.GetPort())
}

func (s *ServerConfig) GetRateLimit() float64 {
	if s.RateLimit == 0 {
		return 20
	}
	return s.RateLimit
}

func (s *ServerConfig) GetRateBurst() int {
	if s.RateBurst <= 0 {
		return 40
	}
	return s.RateBurst
}

func (s *ServerConfig) GetAutosaveDelaySeconds() int {
	if s.AutosaveDelaySeconds <= 0 {
		return 2
	}
	return s.AutosaveDelaySeconds
}

func (s *StorageConfig) GetDriver() string {
	if s.Driver == "" {
		return "sqlite"
	}
	return s.Driver
}

func (s *StorageConfig) GetPath() string {
	if s.Path == "" {
		return "deckdown.db"
	}
	return s.Path
}

// GetDSN returns the postgres connection string with environment
// variables expanded.
func (s *StorageConfig) GetDSN() string {
	return os.ExpandEnv(s.DSN)
}

// GetAccessKey returns the photo API key with environment variables
// expanded.
func (i *ImagesConfig) GetAccessKey() string {
	return os.ExpandEnv(i.AccessKey)
}

func (i *ImagesConfig) GetBaseURL() string {
	if i.BaseURL == "" {
		return "https://api.unsplash.com"
	}
	return i.BaseURL
}
