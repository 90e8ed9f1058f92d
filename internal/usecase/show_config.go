package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdag/internal/domain"
)

// ShowConfigInput contains the input for the ShowConfig use case.
type ShowConfigInput struct{}

// ShowConfigOutput contains the config files and the merged result.
type ShowConfigOutput struct {
	Effective     *domain.Config
	GlobalConfig  domain.ConfigInfo
	ProjectConfig domain.ConfigInfo
}

// ShowConfig displays configuration file information.
type ShowConfig struct {
	configManager domain.ConfigManager
	configLoader  domain.ConfigLoader
}

// NewShowConfig creates a new ShowConfig use case.
func NewShowConfig(configManager domain.ConfigManager, configLoader domain.ConfigLoader) *ShowConfig {
	return &ShowConfig{configManager: configManager, configLoader: configLoader}
}

// Execute retrieves configuration file information and the effective configuration.
func (uc *ShowConfig) Execute(_ context.Context, _ ShowConfigInput) (*ShowConfigOutput, error) {
	cfg, err := uc.configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &ShowConfigOutput{
		Effective:     cfg,
		GlobalConfig:  uc.configManager.GlobalConfigInfo(),
		ProjectConfig: uc.configManager.ProjectConfigInfo(),
	}, nil
}
