package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/runoshun/taskdeck/internal/domain"
)

// InitDeckInput contains the parameters for initializing taskdeck.
type InitDeckInput struct {
	Config *domain.Config // Config to render into the new config file
}

// InitDeckOutput contains the result of initialization.
type InitDeckOutput struct {
	ConfigPath    string // Path of the config file
	ConfigCreated bool   // False if a config file already existed
}

// InitDeck writes the default config file and initializes the task store.
type InitDeck struct {
	configManager domain.ConfigManager
	store         domain.StoreInitializer
	logger        domain.Logger
}

// NewInitDeck creates a new InitDeck use case.
func NewInitDeck(configManager domain.ConfigManager, store domain.StoreInitializer, logger domain.Logger) *InitDeck {
	return &InitDeck{
		configManager: configManager,
		store:         store,
		logger:        logger,
	}
}

// Execute creates the config file (keeping an existing one) and the store.
func (uc *InitDeck) Execute(ctx context.Context, in InitDeckInput) (*InitDeckOutput, error) {
	cfg := in.Config
	if cfg == nil {
		cfg = domain.NewDefaultConfig()
	}

	out := &InitDeckOutput{ConfigPath: uc.configManager.GetConfigInfo().Path}
	err := uc.configManager.InitConfig(cfg)
	switch {
	case err == nil:
		out.ConfigCreated = true
	case errors.Is(err, domain.ErrConfigExists):
		// keep the user's file
	default:
		return nil, fmt.Errorf("init config: %w", err)
	}

	if err := uc.store.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}

	uc.logger.Info("", "init", "initialized at "+out.ConfigPath)

	return out, nil
}
