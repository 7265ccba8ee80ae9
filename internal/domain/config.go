package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string     `toml:"-"`
	Server   ServerConfig `toml:"server"`
	Store    StoreConfig  `toml:"store"`
	Users    UsersConfig  `toml:"users"`
	Log      LogConfig    `toml:"log"`
}

// StoreConfig holds task storage settings from [store] section.
type StoreConfig struct {
	Type            string `toml:"type,omitempty"`             // Storage backend: "json" (default), "sqlite" or "mongo"
	Path            string `toml:"path,omitempty"`             // File for json/sqlite, relative to the data directory
	MongoURI        string `toml:"mongo_uri,omitempty"`        // MongoDB connection string
	MongoDatabase   string `toml:"mongo_database,omitempty"`   // MongoDB database name
	MongoCollection string `toml:"mongo_collection,omitempty"` // MongoDB collection name
}

// UsersConfig holds user directory settings from [users] section.
type UsersConfig struct {
	File       string `toml:"file,omitempty"`        // YAML user file, relative to the data directory
	ServiceURL string `toml:"service_url,omitempty"` // Users service base URL (takes precedence over File)
}

// ServerConfig holds REST server settings from [server] section.
type ServerConfig struct {
	Addr           string   `toml:"addr,omitempty"`            // Listen address
	JWTSecret      string   `toml:"jwt_secret,omitempty"`      // HS256 secret for actor tokens
	AllowedOrigins []string `toml:"allowed_origins,omitempty"` // CORS origins
}

// LogConfig holds logging settings from [log] section.
type LogConfig struct {
	Level      string `toml:"level,omitempty"`        // Log level: debug, info, warn, error
	File       string `toml:"file,omitempty"`         // Log file, relative to the data directory (empty = stderr)
	MaxSizeMB  int    `toml:"max_size_mb,omitempty"`  // Rotate after this many megabytes
	MaxBackups int    `toml:"max_backups,omitempty"`  // Rotated files to keep
	MaxAgeDays int    `toml:"max_age_days,omitempty"` // Days to keep rotated files
}

// Store types.
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"
)

// Default configuration values.
const (
	DefaultLogLevel        = "info"
	DefaultStoreType       = StoreJSON
	DefaultJSONStorePath   = "tasks.json"
	DefaultSQLiteStorePath = "tasks.db"
	DefaultMongoURI        = "mongodb://localhost:27017"
	DefaultMongoDatabase   = "taskdeck"
	DefaultMongoCollection = "tasks"
	DefaultUsersFile       = "users.yaml"
	DefaultServerAddr      = ":8080"
	DefaultLogMaxSizeMB    = 10
	DefaultLogMaxBackups   = 3
	DefaultLogMaxAgeDays   = 28
)

// Directory and file names for taskdeck.
const (
	DataDirName    = ".taskdeck"   // Default data directory under the home directory
	ConfigFileName = "config.toml" // Config file name
	EnvFileName    = ".env"        // Dotenv file loaded from the working directory
	HomeEnvVar     = "TASKDECK_HOME"
)

// DataDir returns the data directory: $TASKDECK_HOME, or ~/.taskdeck.
func DataDir() (string, error) {
	if dir := os.Getenv(HomeEnvVar); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, DataDirName), nil
}

// ConfigPath returns the config file path within a data directory.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, ConfigFileName)
}

// ResolvePath joins a relative path onto the data directory.
// Absolute paths are returned unchanged.
func ResolvePath(dataDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dataDir, path)
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Type:            DefaultStoreType,
			Path:            DefaultJSONStorePath,
			MongoURI:        DefaultMongoURI,
			MongoDatabase:   DefaultMongoDatabase,
			MongoCollection: DefaultMongoCollection,
		},
		Users: UsersConfig{
			File: DefaultUsersFile,
		},
		Server: ServerConfig{
			Addr:           DefaultServerAddr,
			AllowedOrigins: []string{"*"},
		},
		Log: LogConfig{
			Level:      DefaultLogLevel,
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
			MaxAgeDays: DefaultLogMaxAgeDays,
		},
	}
}

// StorePath returns the store file path, falling back to the default for the store type.
func (c *Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	if c.Store.Type == StoreSQLite {
		return DefaultSQLiteStorePath
	}
	return DefaultJSONStorePath
}

// ConfigInfo holds information about a config file.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// ConfigManager manages the config file.
type ConfigManager interface {
	// GetConfigInfo returns information about the config file.
	GetConfigInfo() ConfigInfo

	// InitConfig writes the default config file.
	// Returns ErrConfigExists if the file already exists.
	InitConfig(cfg *Config) error
}

// RenderConfigTemplate renders the commented config file for the given Config.
func RenderConfigTemplate(cfg *Config) string {
	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		// Should never happen with valid data
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}

	return buf.String()
}
