package domain

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"
	"time"
)

// ConfigFileName is the configuration file name inside config directories.
const ConfigFileName = "config.toml"

// DefaultDataDirName is the per-workspace data directory.
const DefaultDataDirName = ".taskdag"

// Store drivers.
const (
	StoreDriverJSON   = "json"
	StoreDriverSQLite = "sqlite"
	StoreDriverGit    = "git"
	StoreDriverMemory = "memory"
)

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string     `toml:"-"`
	Store    StoreConfig  `toml:"store"`
	Log      LogConfig    `toml:"log"`
	Engine   EngineConfig `toml:"engine"`
}

// StoreConfig holds settings for persistence from the [store] section.
type StoreConfig struct {
	Driver    string `toml:"driver"`              // json (default), sqlite, git, memory
	Path      string `toml:"path,omitempty"`      // File path (json/sqlite) or repository path (git); relative to the data dir
	Namespace string `toml:"namespace,omitempty"` // Git refs namespace (default: taskdag)
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// EngineConfig holds dependency engine settings from the [engine] section.
type EngineConfig struct {
	LockTimeout      time.Duration `toml:"lock_timeout"`      // Max wait for a project lock (0 = caller context only)
	FetchConcurrency int           `toml:"fetch_concurrency"` // Parallel prerequisite reads in the transition guard
}

// Log levels accepted by [log].level.
var LogLevels = []string{"debug", "info", "warn", "error"}

// ConfigInfo describes a configuration file on disk.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// LoadConfigOptions selects which sources are merged over the defaults.
type LoadConfigOptions struct {
	IgnoreGlobal  bool
	IgnoreProject bool
}

// ConfigManager inspects and creates configuration files.
type ConfigManager interface {
	// ProjectConfigInfo returns the config file inside the data directory.
	ProjectConfigInfo() ConfigInfo
	// GlobalConfigInfo returns the user-wide config file.
	GlobalConfigInfo() ConfigInfo
	// InitProjectConfig writes the default template into the data directory.
	InitProjectConfig() error
	// InitGlobalConfig writes the default template into the global config directory.
	InitGlobalConfig() error
}

// NewDefaultConfig returns the configuration used when no file overrides it.
func NewDefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Driver:    StoreDriverJSON,
			Namespace: "taskdag",
		},
		Log: LogConfig{
			Level: "info",
		},
		Engine: EngineConfig{
			LockTimeout:      5 * time.Second,
			FetchConcurrency: 8,
		},
	}
}

// StorePath resolves the store location against the data directory.
func (c *Config) StorePath(dataDir string) string {
	path := c.Store.Path
	if path == "" {
		switch c.Store.Driver {
		case StoreDriverSQLite:
			path = "taskdag.db"
		case StoreDriverGit:
			path = "."
		default:
			path = "store.json"
		}
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dataDir, path)
}

// GlobalConfigDir returns the global config directory under a config home.
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, "taskdag")
}

// LogsDir returns the log directory inside the data directory.
func LogsDir(dataDir string) string {
	return filepath.Join(dataDir, "logs")
}

// GlobalLogPath returns the path of the global log file.
func GlobalLogPath(dataDir string) string {
	return filepath.Join(LogsDir(dataDir), "taskdag.log")
}

// ProjectLogPath returns the path of a project's log file.
func ProjectLogPath(dataDir, projectID string) string {
	return filepath.Join(LogsDir(dataDir), "project-"+projectID+".log")
}

const configTemplate = `# taskdag configuration

[store]
# Storage backend: "json", "sqlite", "git" or "memory"
driver = "{{.Store.Driver}}"
# Path relative to the data directory (json/sqlite file, or git repository)
# path = "store.json"
# Git refs namespace (git driver only)
namespace = "{{.Store.Namespace}}"

[log]
# Log level: debug, info, warn, error
level = "{{.Log.Level}}"

[engine]
# Maximum time to wait for a project's dependency lock
lock_timeout = "{{.Engine.LockTimeout}}"
# Number of prerequisite tasks read in parallel when checking a status change
fetch_concurrency = {{.Engine.FetchConcurrency}}
`

// RenderConfigTemplate renders a commented config file populated with defaults.
func RenderConfigTemplate() (string, error) {
	tmpl, err := template.New("config").Parse(configTemplate)
	if err != nil {
		return "", fmt.Errorf("parse config template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, NewDefaultConfig()); err != nil {
		return "", fmt.Errorf("render config template: %w", err)
	}
	return buf.String(), nil
}
