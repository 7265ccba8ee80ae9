package domain

import (
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, StoreJSON, cfg.Store.Type)
	assert.Equal(t, DefaultJSONStorePath, cfg.Store.Path)
	assert.Equal(t, DefaultUsersFile, cfg.Users.File)
	assert.Equal(t, DefaultServerAddr, cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
}

func TestRenderConfigTemplate_IsValidTOML(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Server.AllowedOrigins = []string{"http://a", "http://b"}

	content := RenderConfigTemplate(cfg)

	var parsed Config
	require.NoError(t, toml.Unmarshal([]byte(content), &parsed))
	assert.Equal(t, cfg.Store.Type, parsed.Store.Type)
	assert.Equal(t, cfg.Store.Path, parsed.Store.Path)
	assert.Equal(t, cfg.Users.File, parsed.Users.File)
	assert.Equal(t, cfg.Server.Addr, parsed.Server.Addr)
	assert.Equal(t, []string{"http://a", "http://b"}, parsed.Server.AllowedOrigins)
	assert.Equal(t, cfg.Log, parsed.Log)
}

func TestConfig_StorePath(t *testing.T) {
	cfg := &Config{Store: StoreConfig{Type: StoreSQLite}}
	assert.Equal(t, DefaultSQLiteStorePath, cfg.StorePath())

	cfg.Store.Type = StoreJSON
	assert.Equal(t, DefaultJSONStorePath, cfg.StorePath())

	cfg.Store.Path = "custom.json"
	assert.Equal(t, "custom.json", cfg.StorePath())
}

func TestResolvePath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "x.json")

	assert.Equal(t, filepath.Join("/data", "tasks.json"), ResolvePath("/data", "tasks.json"))
	assert.Equal(t, abs, ResolvePath("/data", abs))
	assert.Equal(t, "", ResolvePath("/data", ""))
}

func TestDataDir_FromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnvVar, dir)

	got, err := DataDir()

	require.NoError(t, err)
	assert.Equal(t, dir, got)
	assert.Equal(t, filepath.Join(dir, ConfigFileName), ConfigPath(got))
}
