// Package app provides the dependency injection container for the application.
package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/engine"
	"github.com/runoshun/taskdag/internal/infra/config"
	"github.com/runoshun/taskdag/internal/infra/gitstore"
	"github.com/runoshun/taskdag/internal/infra/idgen"
	"github.com/runoshun/taskdag/internal/infra/jsonstore"
	"github.com/runoshun/taskdag/internal/infra/logging"
	"github.com/runoshun/taskdag/internal/infra/memstore"
	"github.com/runoshun/taskdag/internal/infra/sqlitestore"
	"github.com/runoshun/taskdag/internal/usecase"
)

// Config holds the application paths.
type Config struct {
	DataDir   string // Path to the .taskdag directory
	StorePath string // Resolved store location (file or repository)
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Store         domain.Store
	Clock         domain.Clock
	IDs           domain.IDGenerator
	Log           domain.Logger
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager

	// Engine
	Accessor     *engine.Accessor
	Guard        *engine.Guard
	CriticalPath *engine.CriticalPath
	Coordinator  *engine.Coordinator // shared: it owns the per-project lock table

	// Pointer fields
	Logger    *slog.Logger   // stderr diagnostics
	AppConfig *domain.Config // effective configuration

	closers []io.Closer

	// Configuration
	Config Config
}

// New creates a new Container for the data directory.
// The store backend is chosen by the [store] section of the effective configuration.
func New(dataDir string) (*Container, error) {
	configLoader := config.NewLoader(dataDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, err
	}

	cfg := Config{
		DataDir:   dataDir,
		StorePath: appConfig.StorePath(dataDir),
	}

	store, err := openStore(appConfig, cfg.StorePath)
	if err != nil {
		return nil, err
	}

	fileLogger := logging.New(dataDir, logging.ParseLevel(appConfig.Log.Level))

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	c := NewWithDeps(cfg, store, domain.RealClock{}, idgen.UUID{}, fileLogger, appConfig)
	c.ConfigLoader = configLoader
	c.ConfigManager = config.NewManager(dataDir)
	c.Logger = logger
	c.closers = append(c.closers, fileLogger)
	if closer, ok := store.(io.Closer); ok {
		c.closers = append(c.closers, closer)
	}
	return c, nil
}

// openStore creates the store backend named by the configuration.
func openStore(cfg *domain.Config, path string) (domain.Store, error) {
	switch cfg.Store.Driver {
	case domain.StoreDriverJSON:
		return jsonstore.New(path), nil
	case domain.StoreDriverSQLite:
		return sqlitestore.New(path), nil
	case domain.StoreDriverGit:
		return gitstore.New(path, cfg.Store.Namespace)
	case domain.StoreDriverMemory:
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStoreDriver, cfg.Store.Driver)
	}
}

// NewWithDeps creates a new Container with custom dependencies for testing.
// A nil appConfig uses the defaults.
func NewWithDeps(cfg Config, store domain.Store, clock domain.Clock, ids domain.IDGenerator, log domain.Logger, appConfig *domain.Config) *Container {
	if appConfig == nil {
		appConfig = domain.NewDefaultConfig()
	}
	if log == nil {
		log = logging.Nop{}
	}
	opts := engine.OptionsFromConfig(appConfig.Engine)
	accessor := engine.NewAccessor(store, store)
	return &Container{
		Store:         store,
		Clock:         clock,
		IDs:           ids,
		Log:           log,
		ConfigLoader:  config.NewLoaderWithGlobalDir(cfg.DataDir, ""),
		ConfigManager: config.NewManagerWithGlobalDir(cfg.DataDir, ""),
		Accessor:      accessor,
		Guard:         engine.NewGuard(store, store, log, opts),
		CriticalPath:  engine.NewCriticalPath(accessor, log),
		Coordinator:   engine.NewCoordinator(store, store, accessor, ids, clock, log, opts),
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		AppConfig:     appConfig,
		Config:        cfg,
	}
}

// Close releases the log files and the store connection.
func (c *Container) Close() error {
	var errs []error
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// UseCase factory methods

// InitStoreUseCase returns a new InitStore use case.
func (c *Container) InitStoreUseCase() *usecase.InitStore {
	return usecase.NewInitStore(c.Store, c.ConfigManager)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// CreateProjectUseCase returns a new CreateProject use case.
func (c *Container) CreateProjectUseCase() *usecase.CreateProject {
	return usecase.NewCreateProject(c.Store, c.IDs, c.Clock, c.Log)
}

// ShowProjectUseCase returns a new ShowProject use case.
func (c *Container) ShowProjectUseCase() *usecase.ShowProject {
	return usecase.NewShowProject(c.Store, c.Store)
}

// ListProjectsUseCase returns a new ListProjects use case.
func (c *Container) ListProjectsUseCase() *usecase.ListProjects {
	return usecase.NewListProjects(c.Store)
}

// EditProjectUseCase returns a new EditProject use case.
func (c *Container) EditProjectUseCase() *usecase.EditProject {
	return usecase.NewEditProject(c.Store, c.Clock, c.Log)
}

// DeleteProjectUseCase returns a new DeleteProject use case.
func (c *Container) DeleteProjectUseCase() *usecase.DeleteProject {
	return usecase.NewDeleteProject(c.Store, c.Log)
}

// ProjectProgressUseCase returns a new ProjectProgress use case.
func (c *Container) ProjectProgressUseCase() *usecase.ProjectProgress {
	return usecase.NewProjectProgress(c.Store, c.Store)
}

// ShowCriticalPathUseCase returns a new ShowCriticalPath use case.
func (c *Container) ShowCriticalPathUseCase() *usecase.ShowCriticalPath {
	return usecase.NewShowCriticalPath(c.Store, c.CriticalPath)
}

// ShowExecutionOrderUseCase returns a new ShowExecutionOrder use case.
func (c *Container) ShowExecutionOrderUseCase() *usecase.ShowExecutionOrder {
	return usecase.NewShowExecutionOrder(c.Store, c.Store, c.CriticalPath)
}

// NewTaskUseCase returns a new NewTask use case.
func (c *Container) NewTaskUseCase() *usecase.NewTask {
	return usecase.NewNewTask(c.Store, c.Store, c.IDs, c.Clock, c.Log)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.Store, c.Store, c.Guard)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Store, c.Store)
}

// EditTaskUseCase returns a new EditTask use case.
func (c *Container) EditTaskUseCase() *usecase.EditTask {
	return usecase.NewEditTask(c.Store, c.Clock, c.Log)
}

// UpdateTaskStatusUseCase returns a new UpdateTaskStatus use case.
func (c *Container) UpdateTaskStatusUseCase() *usecase.UpdateTaskStatus {
	return usecase.NewUpdateTaskStatus(c.Store, c.Guard, c.Clock, c.Log)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Store, c.Log)
}

// AddDependencyUseCase returns a new AddDependency use case.
func (c *Container) AddDependencyUseCase() *usecase.AddDependency {
	return usecase.NewAddDependency(c.Coordinator)
}

// RemoveDependencyUseCase returns a new RemoveDependency use case.
func (c *Container) RemoveDependencyUseCase() *usecase.RemoveDependency {
	return usecase.NewRemoveDependency(c.Coordinator)
}

// ListDependenciesUseCase returns a new ListDependencies use case.
func (c *Container) ListDependenciesUseCase() *usecase.ListDependencies {
	return usecase.NewListDependencies(c.Store, c.Store)
}

// ListDependentsUseCase returns a new ListDependents use case.
func (c *Container) ListDependentsUseCase() *usecase.ListDependents {
	return usecase.NewListDependents(c.Store, c.Store)
}

// ImportPlanUseCase returns a new ImportPlan use case.
func (c *Container) ImportPlanUseCase() *usecase.ImportPlan {
	return usecase.NewImportPlan(c.Store, c.Store, c.Coordinator, c.IDs, c.Clock, c.Log)
}
