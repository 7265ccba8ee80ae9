// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/taskdeck/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Environment variables that override config file values.
const (
	EnvMongoURI   = "TASKDECK_MONGO_URI"
	EnvJWTSecret  = "TASKDECK_JWT_SECRET"
	EnvServerAddr = "TASKDECK_SERVER_ADDR"
	EnvUsersURL   = "TASKDECK_USERS_URL"
	EnvLogLevel   = "TASKDECK_LOG_LEVEL"
)

// Loader loads configuration from the data directory's TOML file,
// a dotenv file and the process environment.
type Loader struct {
	getenv  func(string) string
	dataDir string // Path to the data directory holding config.toml
	envFile string // Path to the dotenv file ("" disables dotenv loading)
}

// NewLoader creates a new Loader that reads .env from the working directory.
func NewLoader(dataDir string) *Loader {
	return &Loader{
		dataDir: dataDir,
		envFile: domain.EnvFileName,
		getenv:  os.Getenv,
	}
}

// NewLoaderWithEnv creates a Loader with a custom dotenv file and environment lookup.
// This is useful for testing.
func NewLoaderWithEnv(dataDir, envFile string, getenv func(string) string) *Loader {
	return &Loader{
		dataDir: dataDir,
		envFile: envFile,
		getenv:  getenv,
	}
}

// Load returns the effective configuration.
// Precedence: defaults <- config file <- environment.
func (l *Loader) Load() (*domain.Config, error) {
	if l.envFile != "" {
		// Values already present in the environment win over the dotenv file.
		if err := godotenv.Load(l.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", l.envFile, err)
		}
	}

	base := domain.NewDefaultConfig()

	file, err := l.LoadFile()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if file != nil {
		base = mergeConfigs(base, file)
	}

	applyEnv(base, l.getenv)
	return base, nil
}

// LoadFile returns only the configuration file contents.
func (l *Loader) LoadFile() (*domain.Config, error) {
	return loadFile(domain.ConfigPath(l.dataDir))
}

// loadFile loads a configuration from a file.
func loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return convertRawToDomainConfig(raw), nil
}

// convertRawToDomainConfig converts the raw map to domain config and collects warnings.
func convertRawToDomainConfig(raw map[string]any) *domain.Config {
	res := &domain.Config{}
	var warnings []string
	unknown := func(section, key string) {
		warnings = append(warnings, fmt.Sprintf("unknown key in [%s]: %s", section, key))
	}

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
			continue
		}
		switch section {
		case "store":
			for k, v := range m {
				switch k {
				case "type":
					res.Store.Type = asString(v)
				case "path":
					res.Store.Path = asString(v)
				case "mongo_uri":
					res.Store.MongoURI = asString(v)
				case "mongo_database":
					res.Store.MongoDatabase = asString(v)
				case "mongo_collection":
					res.Store.MongoCollection = asString(v)
				default:
					unknown(section, k)
				}
			}
		case "users":
			for k, v := range m {
				switch k {
				case "file":
					res.Users.File = asString(v)
				case "service_url":
					res.Users.ServiceURL = asString(v)
				default:
					unknown(section, k)
				}
			}
		case "server":
			for k, v := range m {
				switch k {
				case "addr":
					res.Server.Addr = asString(v)
				case "jwt_secret":
					res.Server.JWTSecret = asString(v)
				case "allowed_origins":
					res.Server.AllowedOrigins = asStrings(v)
				default:
					unknown(section, k)
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					res.Log.Level = asString(v)
				case "file":
					res.Log.File = asString(v)
				case "max_size_mb":
					res.Log.MaxSizeMB = asInt(v)
				case "max_backups":
					res.Log.MaxBackups = asInt(v)
				case "max_age_days":
					res.Log.MaxAgeDays = asInt(v)
				default:
					unknown(section, k)
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
		}
	}

	switch res.Store.Type {
	case "", domain.StoreJSON, domain.StoreSQLite, domain.StoreMongo:
	default:
		warnings = append(warnings, fmt.Sprintf("unknown store type: %s", res.Store.Type))
	}

	sort.Strings(warnings)
	res.Warnings = warnings
	return res
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

func asStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// mergeConfigs merges two configs, with override taking precedence.
func mergeConfigs(base, override *domain.Config) *domain.Config {
	result := &domain.Config{
		Store:    base.Store,
		Users:    base.Users,
		Server:   base.Server,
		Log:      base.Log,
		Warnings: append([]string{}, base.Warnings...),
	}
	result.Server.AllowedOrigins = append([]string(nil), base.Server.AllowedOrigins...)

	// Add override warnings
	result.Warnings = append(result.Warnings, override.Warnings...)

	if override.Store.Type != "" {
		// A new backend without its own path uses that backend's default file.
		if override.Store.Type != result.Store.Type && override.Store.Path == "" {
			result.Store.Path = ""
		}
		result.Store.Type = override.Store.Type
	}
	if override.Store.Path != "" {
		result.Store.Path = override.Store.Path
	}
	if override.Store.MongoURI != "" {
		result.Store.MongoURI = override.Store.MongoURI
	}
	if override.Store.MongoDatabase != "" {
		result.Store.MongoDatabase = override.Store.MongoDatabase
	}
	if override.Store.MongoCollection != "" {
		result.Store.MongoCollection = override.Store.MongoCollection
	}
	if override.Users.File != "" {
		result.Users.File = override.Users.File
	}
	if override.Users.ServiceURL != "" {
		result.Users.ServiceURL = override.Users.ServiceURL
	}
	if override.Server.Addr != "" {
		result.Server.Addr = override.Server.Addr
	}
	if override.Server.JWTSecret != "" {
		result.Server.JWTSecret = override.Server.JWTSecret
	}
	if override.Server.AllowedOrigins != nil {
		result.Server.AllowedOrigins = override.Server.AllowedOrigins
	}
	if override.Log.Level != "" {
		result.Log.Level = override.Log.Level
	}
	if override.Log.File != "" {
		result.Log.File = override.Log.File
	}
	if override.Log.MaxSizeMB != 0 {
		result.Log.MaxSizeMB = override.Log.MaxSizeMB
	}
	if override.Log.MaxBackups != 0 {
		result.Log.MaxBackups = override.Log.MaxBackups
	}
	if override.Log.MaxAgeDays != 0 {
		result.Log.MaxAgeDays = override.Log.MaxAgeDays
	}

	return result
}

// applyEnv overrides config values with non-empty environment variables.
func applyEnv(cfg *domain.Config, getenv func(string) string) {
	if v := getenv(EnvMongoURI); v != "" {
		cfg.Store.MongoURI = v
	}
	if v := getenv(EnvJWTSecret); v != "" {
		cfg.Server.JWTSecret = v
	}
	if v := getenv(EnvServerAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := getenv(EnvUsersURL); v != "" {
		cfg.Users.ServiceURL = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
}
