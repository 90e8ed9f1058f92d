// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/taskdag/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	dataDir       string // Path to the .taskdag data directory
	globalConfDir string // Path to global config directory (e.g., ~/.config/taskdag)
}

// NewLoader creates a new Loader.
func NewLoader(dataDir string) *Loader {
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(dataDir, globalConfDir string) *Loader {
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: globalConfDir,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// Load returns the merged configuration (defaults <- global <- project).
func (l *Loader) Load() (*domain.Config, error) {
	return l.LoadWithOptions(domain.LoadConfigOptions{})
}

// LoadGlobal returns the defaults with only the global configuration applied.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	return l.LoadWithOptions(domain.LoadConfigOptions{IgnoreProject: true})
}

// LoadWithOptions returns the merged configuration with options to ignore sources.
// Missing files are skipped.
func (l *Loader) LoadWithOptions(opts domain.LoadConfigOptions) (*domain.Config, error) {
	cfg := domain.NewDefaultConfig()

	if !opts.IgnoreGlobal && l.globalConfDir != "" {
		if err := l.applyFile(cfg, filepath.Join(l.globalConfDir, domain.ConfigFileName)); err != nil {
			return nil, err
		}
	}
	if !opts.IgnoreProject && l.dataDir != "" {
		if err := l.applyFile(cfg, filepath.Join(l.dataDir, domain.ConfigFileName)); err != nil {
			return nil, err
		}
	}

	sort.Strings(cfg.Warnings)
	return cfg, nil
}

// applyFile overlays the keys present in the file at path onto cfg.
func (l *Loader) applyFile(cfg *domain.Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	applyRaw(cfg, raw)
	return nil
}

// applyRaw copies known keys from the raw map into cfg and collects warnings
// for unknown sections, unknown keys and invalid values.
func applyRaw(cfg *domain.Config, raw map[string]any) {
	warn := func(format string, args ...any) {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf(format, args...))
	}

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warn("unknown key: %s", section)
			continue
		}
		switch section {
		case "store":
			for k, v := range m {
				switch k {
				case "driver":
					if s, ok := stringValue(v); ok {
						cfg.Store.Driver = s
					} else {
						warn("invalid value for [store].driver: %v", v)
					}
				case "path":
					if s, ok := stringValue(v); ok {
						cfg.Store.Path = s
					} else {
						warn("invalid value for [store].path: %v", v)
					}
				case "namespace":
					if s, ok := stringValue(v); ok && s != "" {
						cfg.Store.Namespace = s
					} else {
						warn("invalid value for [store].namespace: %v", v)
					}
				default:
					warn("unknown key in [store]: %s", k)
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					if s, ok := stringValue(v); ok && slices.Contains(domain.LogLevels, s) {
						cfg.Log.Level = s
					} else {
						warn("invalid value for [log].level: %v", v)
					}
				default:
					warn("unknown key in [log]: %s", k)
				}
			}
		case "engine":
			for k, v := range m {
				switch k {
				case "lock_timeout":
					if d, ok := durationValue(v); ok {
						cfg.Engine.LockTimeout = d
					} else {
						warn("invalid value for [engine].lock_timeout: %v", v)
					}
				case "fetch_concurrency":
					if n, ok := v.(int64); ok && n > 0 {
						cfg.Engine.FetchConcurrency = int(n)
					} else {
						warn("invalid value for [engine].fetch_concurrency: %v", v)
					}
				default:
					warn("unknown key in [engine]: %s", k)
				}
			}
		default:
			warn("unknown section: %s", section)
		}
	}
}

func stringValue(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// durationValue accepts Go duration strings ("5s", "250ms") and
// non-negative integers meaning seconds.
func durationValue(v any) (time.Duration, bool) {
	switch x := v.(type) {
	case string:
		d, err := time.ParseDuration(x)
		if err != nil || d < 0 {
			return 0, false
		}
		return d, true
	case int64:
		if x < 0 {
			return 0, false
		}
		return time.Duration(x) * time.Second, true
	default:
		return 0, false
	}
}

// fileConfig is the on-disk shape of a config file.
type fileConfig struct {
	Store  domain.StoreConfig `toml:"store"`
	Log    domain.LogConfig   `toml:"log"`
	Engine struct {
		LockTimeout      string `toml:"lock_timeout"`
		FetchConcurrency int    `toml:"fetch_concurrency"`
	} `toml:"engine"`
}

// Encode renders cfg as TOML in the same shape the loader reads.
func Encode(cfg *domain.Config) ([]byte, error) {
	var fc fileConfig
	fc.Store = cfg.Store
	fc.Log = cfg.Log
	fc.Engine.LockTimeout = cfg.Engine.LockTimeout.String()
	fc.Engine.FetchConcurrency = cfg.Engine.FetchConcurrency

	data, err := toml.Marshal(fc)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
