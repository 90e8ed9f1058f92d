package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskdag/internal/domain"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestLogger_ProjectEntryGoesToBothFiles(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	logger.Info("p1", "dependency", "edge d1 added: a depends on b")

	global := readLog(t, domain.GlobalLogPath(dataDir))
	assert.Contains(t, global, "[INFO] [project-p1] [dependency] edge d1 added: a depends on b")

	project := readLog(t, domain.ProjectLogPath(dataDir, "p1"))
	assert.Contains(t, project, "edge d1 added")
}

func TestLogger_GlobalLogOnly(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	logger.Info("", "system", "global message")

	assert.Contains(t, readLog(t, domain.GlobalLogPath(dataDir)), "[global] [system] global message")

	entries, err := os.ReadDir(domain.LogsDir(dataDir))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLogger_UnsafeProjectIDStaysGlobal(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	logger.Warn("../escape", "guard", "odd id")

	assert.Contains(t, readLog(t, domain.GlobalLogPath(dataDir)), "odd id")
	entries, err := os.ReadDir(domain.LogsDir(dataDir))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	_, err = os.Stat(filepath.Join(dataDir, "escape.log"))
	assert.True(t, os.IsNotExist(err))
}

func TestLogger_LevelFiltering(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelWarn)
	defer func() { _ = logger.Close() }()

	logger.Debug("p1", "engine", "debug message")
	logger.Info("p1", "engine", "info message")
	logger.Warn("p1", "engine", "warn message")
	logger.Error("p1", "engine", "error message")

	content := readLog(t, domain.GlobalLogPath(dataDir))
	assert.NotContains(t, content, "debug message")
	assert.NotContains(t, content, "info message")
	assert.Contains(t, content, "[WARN]")
	assert.Contains(t, content, "[ERROR]")
}

func TestLogger_DisabledWhenEmptyDataDir(t *testing.T) {
	logger := New("", slog.LevelDebug)
	defer func() { _ = logger.Close() }()

	assert.NotPanics(t, func() {
		logger.Info("p1", "engine", "test message")
		logger.Error("", "engine", "error message")
	})
}

func TestLogger_LogFormat(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	logger.Info("42", "usecase", `task created: "my task"`)

	lines := strings.Split(strings.TrimSpace(readLog(t, domain.GlobalLogPath(dataDir))), "\n")
	require.Len(t, lines, 1)
	pattern := regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] \[INFO\] \[project-42\] \[usecase\] task created: "my task"$`)
	assert.Regexp(t, pattern, lines[0])
}

func TestLogger_MultipleProjectFiles(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	logger.Info("p1", "task", "message for p1")
	logger.Info("p2", "task", "message for p2")
	logger.Info("p1", "task", "another message for p1")

	global := readLog(t, domain.GlobalLogPath(dataDir))
	assert.Contains(t, global, "message for p1")
	assert.Contains(t, global, "message for p2")

	p1 := readLog(t, domain.ProjectLogPath(dataDir, "p1"))
	assert.Contains(t, p1, "another message for p1")
	assert.NotContains(t, p1, "message for p2")

	p2 := readLog(t, domain.ProjectLogPath(dataDir, "p2"))
	assert.NotContains(t, p2, "message for p1")
}

func TestLogger_Close(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelInfo)
	logger.Info("p1", "task", "test message")

	require.NoError(t, logger.Close())
	assert.FileExists(t, domain.GlobalLogPath(dataDir))
	assert.FileExists(t, domain.ProjectLogPath(dataDir, "p1"))

	// Writing after Close reopens the files.
	logger.Info("p1", "task", "after close")
	require.NoError(t, logger.Close())
	assert.Contains(t, readLog(t, domain.ProjectLogPath(dataDir, "p1")), "after close")
}

func TestLogger_ClosesLeastRecentlyWrittenProjectFile(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()
	logger.SetMaxProjectFiles(2)

	logger.Info("p1", "task", "one")
	logger.Info("p2", "task", "two")
	logger.Info("p1", "task", "one again")
	logger.Info("p3", "task", "three")

	logger.mu.Lock()
	open := make([]string, 0, len(logger.projectFiles))
	for id := range logger.projectFiles {
		open = append(open, id)
	}
	logger.mu.Unlock()
	assert.ElementsMatch(t, []string{"p1", "p3"}, open)

	// A closed project file is reopened in append mode.
	logger.Info("p2", "task", "two again")
	p2 := readLog(t, domain.ProjectLogPath(dataDir, "p2"))
	assert.Contains(t, p2, "] two\n")
	assert.Contains(t, p2, "two again")
	assert.NotContains(t, p2, "three")
}

func TestLogger_SetMaxProjectFiles(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	for _, id := range []string{"p1", "p2", "p3"} {
		logger.Info(id, "task", "hello "+id)
	}
	logger.SetMaxProjectFiles(0)

	logger.mu.Lock()
	defer logger.mu.Unlock()
	require.Len(t, logger.projectFiles, 1)
	assert.Contains(t, logger.projectFiles, "p3")
	assert.Equal(t, 1, logger.maxProjectFiles)
}

func TestNop(t *testing.T) {
	var logger domain.Logger = Nop{}
	assert.NotPanics(t, func() {
		logger.Debug("p1", "c", "m")
		logger.Info("p1", "c", "m")
		logger.Warn("p1", "c", "m")
		logger.Error("p1", "c", "m")
	})
}
