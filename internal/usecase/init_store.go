package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/runoshun/taskdag/internal/domain"
)

// InitStoreInput contains the input parameters for InitStore.
type InitStoreInput struct {
	DataDir string // Path to the .taskdag directory
}

// InitStoreOutput contains the output from InitStore.
type InitStoreOutput struct {
	DataDir       string
	ConfigPath    string
	ConfigCreated bool // False if a config file was already present
}

// InitStore prepares the data directory, the configured store and a config file.
type InitStore struct {
	storeInit     domain.StoreInitializer
	configManager domain.ConfigManager
}

// NewInitStore creates a new InitStore use case.
func NewInitStore(storeInit domain.StoreInitializer, configManager domain.ConfigManager) *InitStore {
	return &InitStore{storeInit: storeInit, configManager: configManager}
}

// Execute creates the data and logs directories, initializes the store and
// writes the default config unless one exists. Running it again is harmless.
func (uc *InitStore) Execute(_ context.Context, in InitStoreInput) (*InitStoreOutput, error) {
	if err := os.MkdirAll(domain.LogsDir(in.DataDir), 0o750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	if err := uc.storeInit.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}

	out := &InitStoreOutput{
		DataDir:    in.DataDir,
		ConfigPath: uc.configManager.ProjectConfigInfo().Path,
	}
	switch err := uc.configManager.InitProjectConfig(); {
	case err == nil:
		out.ConfigCreated = true
	case errors.Is(err, domain.ErrConfigExists):
	default:
		return nil, fmt.Errorf("write config: %w", err)
	}
	return out, nil
}
