package config

import (
	"fmt"
	"os"

	"github.com/runoshun/taskdeck/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager manages the config file in the data directory.
type Manager struct {
	dataDir string // Path to the data directory
}

// NewManager creates a new Manager.
func NewManager(dataDir string) *Manager {
	return &Manager{dataDir: dataDir}
}

// GetConfigInfo returns information about the config file.
func (m *Manager) GetConfigInfo() domain.ConfigInfo {
	path := domain.ConfigPath(m.dataDir)
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigInfo{
			Path:   path,
			Exists: false,
		}
	}
	return domain.ConfigInfo{
		Path:    path,
		Content: string(content),
		Exists:  true,
	}
}

// InitConfig creates the config file from the default template.
func (m *Manager) InitConfig(cfg *domain.Config) error {
	path := domain.ConfigPath(m.dataDir)

	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return domain.ErrConfigExists
	}

	if err := os.MkdirAll(m.dataDir, 0o700); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	content := domain.RenderConfigTemplate(cfg)
	return os.WriteFile(path, []byte(content), 0o600)
}
