// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdeck/internal/domain"
	"github.com/runoshun/taskdeck/internal/infra/config"
	"github.com/runoshun/taskdeck/internal/infra/idgen"
	"github.com/runoshun/taskdeck/internal/infra/jsonstore"
	"github.com/runoshun/taskdeck/internal/infra/logging"
	"github.com/runoshun/taskdeck/internal/infra/mongostore"
	"github.com/runoshun/taskdeck/internal/infra/sqlitestore"
	"github.com/runoshun/taskdeck/internal/infra/userdir"
	"github.com/runoshun/taskdeck/internal/usecase"
)

// Config holds the application paths.
type Config struct {
	DataDir    string // Data directory ($TASKDECK_HOME or ~/.taskdeck)
	ConfigPath string // Path to config.toml
}

// newConfig creates a Config for the data directory.
func newConfig(dataDir string) Config {
	return Config{
		DataDir:    dataDir,
		ConfigPath: domain.ConfigPath(dataDir),
	}
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Tasks            domain.TaskRepository
	StoreInitializer domain.StoreInitializer
	Users            domain.UserDirectory
	Policy           domain.AccessPolicy
	IDs              domain.IDGenerator
	Clock            domain.Clock
	ConfigLoader     domain.ConfigLoader
	ConfigManager    domain.ConfigManager
	Logger           domain.Logger

	// Pointer fields
	AppConfig *domain.Config
	Log       *logging.Logger

	closers []func() error

	// Configuration
	Config Config
}

// New creates a new Container for the data directory, selecting the store and
// user directory from the effective configuration.
func New(dataDir string) (*Container, error) {
	cfg := newConfig(dataDir)

	configLoader := config.NewLoader(dataDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewFromConfig(dataDir, appConfig.Log)
	for _, w := range appConfig.Warnings {
		logger.Warn("", "config", w)
	}

	c := &Container{
		Policy:        domain.RolePolicy{},
		IDs:           idgen.UUID{},
		Clock:         domain.RealClock{},
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManager(dataDir),
		Logger:        logger,
		AppConfig:     appConfig,
		Log:           logger,
		Config:        cfg,
	}
	c.closers = append(c.closers, logger.Close)

	if err := c.openStore(); err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Users = newUserDirectory(dataDir, appConfig.Users, logger)

	return c, nil
}

func (c *Container) openStore() error {
	store := c.AppConfig.Store
	path := domain.ResolvePath(c.Config.DataDir, c.AppConfig.StorePath())

	switch store.Type {
	case domain.StoreJSON, "":
		s := jsonstore.New(path)
		c.Tasks, c.StoreInitializer = s, s
	case domain.StoreSQLite:
		s, err := sqlitestore.New(path)
		if err != nil {
			return err
		}
		c.Tasks, c.StoreInitializer = s, s
		c.closers = append(c.closers, s.Close)
	case domain.StoreMongo:
		s, err := mongostore.Connect(context.Background(), store.MongoURI, store.MongoDatabase, store.MongoCollection)
		if err != nil {
			return err
		}
		c.Tasks, c.StoreInitializer = s, s
		c.closers = append(c.closers, func() error { return s.Close(context.Background()) })
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnknownStore, store.Type)
	}

	c.Logger.Debug("", "store", fmt.Sprintf("using %s store", store.Type))
	return nil
}

func newUserDirectory(dataDir string, cfg domain.UsersConfig, logger *logging.Logger) domain.UserDirectory {
	if cfg.ServiceURL != "" {
		return userdir.NewHTTPDirectory(cfg.ServiceURL, userdir.HTTPOptions{Log: logger.Logrus()})
	}
	return userdir.NewFileDirectory(domain.ResolvePath(dataDir, cfg.File))
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, appConfig *domain.Config, tasks domain.TaskRepository, storeInit domain.StoreInitializer,
	users domain.UserDirectory, clock domain.Clock, ids domain.IDGenerator, logger domain.Logger) *Container {
	return &Container{
		Tasks:            tasks,
		StoreInitializer: storeInit,
		Users:            users,
		Policy:           domain.RolePolicy{},
		IDs:              ids,
		Clock:            clock,
		ConfigLoader:     config.NewLoaderWithEnv(cfg.DataDir, "", func(string) string { return "" }),
		ConfigManager:    config.NewManager(cfg.DataDir),
		Logger:           logger,
		AppConfig:        appConfig,
		Config:           cfg,
	}
}

// Close releases the store connection and the log file.
func (c *Container) Close() error {
	var first error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	return first
}

// ResolveActor looks up a user in the directory and returns its identity.
func (c *Container) ResolveActor(ctx context.Context, userID string) (domain.Actor, error) {
	users, err := c.Users.Resolve(ctx, []string{userID})
	if err != nil {
		return domain.Actor{}, fmt.Errorf("resolve user: %w", err)
	}
	if len(users) == 0 {
		return domain.Actor{}, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	return users[0].Actor(), nil
}

// UseCase factory methods

// InitDeckUseCase returns a new InitDeck use case.
func (c *Container) InitDeckUseCase() *usecase.InitDeck {
	return usecase.NewInitDeck(c.ConfigManager, c.StoreInitializer, c.Logger)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// CreateTaskUseCase returns a new CreateTask use case.
func (c *Container) CreateTaskUseCase() *usecase.CreateTask {
	return usecase.NewCreateTask(c.Tasks, c.Policy, c.IDs, c.Clock, c.Logger)
}

// GetTaskUseCase returns a new GetTask use case.
func (c *Container) GetTaskUseCase() *usecase.GetTask {
	return usecase.NewGetTask(c.Tasks, c.Users, c.Policy, c.Logger)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Tasks, c.Users, c.Policy, c.Logger)
}

// UpdateTaskUseCase returns a new UpdateTask use case.
func (c *Container) UpdateTaskUseCase() *usecase.UpdateTask {
	return usecase.NewUpdateTask(c.Tasks, c.Policy, c.Clock, c.Logger)
}

// SetStatusUseCase returns a new SetStatus use case.
func (c *Container) SetStatusUseCase() *usecase.SetStatus {
	return usecase.NewSetStatus(c.Tasks, c.Policy, c.Clock, c.Logger)
}

// SetChecklistUseCase returns a new SetChecklist use case.
func (c *Container) SetChecklistUseCase() *usecase.SetChecklist {
	return usecase.NewSetChecklist(c.Tasks, c.Users, c.Policy, c.Clock, c.Logger)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Tasks, c.Policy, c.Logger)
}

// SummarizeUseCase returns a new Summarize use case.
func (c *Container) SummarizeUseCase() *usecase.Summarize {
	return usecase.NewSummarize(c.Tasks, c.Policy, c.Clock)
}

// ListWorkloadsUseCase returns a new ListWorkloads use case.
func (c *Container) ListWorkloadsUseCase() *usecase.ListWorkloads {
	return usecase.NewListWorkloads(c.Tasks, c.Users, c.Policy)
}
