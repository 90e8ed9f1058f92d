package domain

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Store.Driver != StoreDriverJSON {
		t.Errorf("Store.Driver = %q, want %q", cfg.Store.Driver, StoreDriverJSON)
	}
	if cfg.Store.Namespace != "taskdag" {
		t.Errorf("Store.Namespace = %q, want taskdag", cfg.Store.Namespace)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Engine.LockTimeout != 5*time.Second {
		t.Errorf("Engine.LockTimeout = %v, want 5s", cfg.Engine.LockTimeout)
	}
	if cfg.Engine.FetchConcurrency != 8 {
		t.Errorf("Engine.FetchConcurrency = %d, want 8", cfg.Engine.FetchConcurrency)
	}
}

func TestConfig_StorePath(t *testing.T) {
	dataDir := filepath.FromSlash("/work/.taskdag")
	abs := filepath.FromSlash("/var/lib/taskdag.db")

	tests := []struct {
		name   string
		driver string
		path   string
		want   string
	}{
		{"json default", StoreDriverJSON, "", filepath.Join(dataDir, "store.json")},
		{"sqlite default", StoreDriverSQLite, "", filepath.Join(dataDir, "taskdag.db")},
		{"git default", StoreDriverGit, "", dataDir},
		{"relative path", StoreDriverJSON, "data/tasks.json", filepath.Join(dataDir, "data", "tasks.json")},
		{"absolute path", StoreDriverSQLite, abs, abs},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			cfg.Store.Driver = tt.driver
			cfg.Store.Path = tt.path
			if got := cfg.StorePath(dataDir); got != tt.want {
				t.Errorf("StorePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLogPaths(t *testing.T) {
	dataDir := filepath.FromSlash("/work/.taskdag")

	if got, want := GlobalLogPath(dataDir), filepath.Join(dataDir, "logs", "taskdag.log"); got != want {
		t.Errorf("GlobalLogPath() = %q, want %q", got, want)
	}
	if got, want := ProjectLogPath(dataDir, "p1"), filepath.Join(dataDir, "logs", "project-p1.log"); got != want {
		t.Errorf("ProjectLogPath() = %q, want %q", got, want)
	}
	if got, want := GlobalConfigDir(filepath.FromSlash("/home/u/.config")), filepath.FromSlash("/home/u/.config/taskdag"); got != want {
		t.Errorf("GlobalConfigDir() = %q, want %q", got, want)
	}
}

func TestRenderConfigTemplate(t *testing.T) {
	content, err := RenderConfigTemplate()
	if err != nil {
		t.Fatalf("RenderConfigTemplate() error = %v", err)
	}

	for _, want := range []string{`driver = "json"`, `level = "info"`, `lock_timeout = "5s"`, "fetch_concurrency = 8"} {
		if !strings.Contains(content, want) {
			t.Errorf("template missing %q", want)
		}
	}

	var raw map[string]any
	if err := toml.Unmarshal([]byte(content), &raw); err != nil {
		t.Fatalf("template is not valid TOML: %v", err)
	}
	for _, section := range []string{"store", "log", "engine"} {
		if _, ok := raw[section]; !ok {
			t.Errorf("template missing [%s]", section)
		}
	}
}
