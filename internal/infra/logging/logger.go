// Package logging provides file-based logging for taskdag.
// It outputs logs to both a global log file (.taskdag/logs/taskdag.log)
// and project-specific log files (.taskdag/logs/project-<id>.log).
// At most a bounded number of project files stay open; the least recently
// written one is closed when another project needs a file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/runoshun/taskdag/internal/domain"
)

// DefaultMaxProjectFiles is how many project log files a Logger keeps open.
const DefaultMaxProjectFiles = 16

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// Logger wraps slog.Logger with file-based output support.
// Fields are ordered to minimize memory padding.
type Logger struct {
	globalFile      *os.File
	projectFiles    map[string]*projectFile
	dataDir         string
	writes          uint64
	maxProjectFiles int
	mu              sync.Mutex
	level           slog.Level
}

type projectFile struct {
	f        *os.File
	lastUsed uint64
}

// New creates a new Logger that writes to the log directory under dataDir.
// If dataDir is empty, logging is disabled.
func New(dataDir string, level slog.Level) *Logger {
	return &Logger{
		dataDir:         dataDir,
		level:           level,
		maxProjectFiles: DefaultMaxProjectFiles,
		projectFiles:    make(map[string]*projectFile),
	}
}

// SetMaxProjectFiles changes how many project log files stay open at once.
// Values below one keep a single file open. Files over the new limit are
// closed right away.
func (l *Logger) SetMaxProjectFiles(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n < 1 {
		n = 1
	}
	l.maxProjectFiles = n
	for len(l.projectFiles) > n {
		l.evictLocked()
	}
}

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ensureLogsDir creates the logs directory if it doesn't exist.
func (l *Logger) ensureLogsDir() error {
	return os.MkdirAll(domain.LogsDir(l.dataDir), 0o750)
}

// ensureGlobalFile opens or returns the global log file.
func (l *Logger) ensureGlobalFile() (*os.File, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.globalFile != nil {
		return l.globalFile, nil
	}

	if err := l.ensureLogsDir(); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}

	path := domain.GlobalLogPath(l.dataDir)
	// G302: Log files are append-only and need read access by repository users
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open global log file: %w", err)
	}
	l.globalFile = f
	return f, nil
}

// ensureProjectFile opens or returns the project log file.
func (l *Logger) ensureProjectFile(projectID string) (*os.File, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.writes++
	if pf, ok := l.projectFiles[projectID]; ok {
		pf.lastUsed = l.writes
		return pf.f, nil
	}

	if err := l.ensureLogsDir(); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}

	path := domain.ProjectLogPath(l.dataDir, projectID)
	// G302: Log files are append-only and need read access by repository users
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open project log file: %w", err)
	}
	for len(l.projectFiles) >= l.maxProjectFiles {
		l.evictLocked()
	}
	l.projectFiles[projectID] = &projectFile{f: f, lastUsed: l.writes}
	return f, nil
}

// evictLocked closes the least recently written project file.
func (l *Logger) evictLocked() {
	var (
		oldest    string
		oldestUse uint64
		found     bool
	)
	for id, pf := range l.projectFiles {
		if !found || pf.lastUsed < oldestUse {
			oldest, oldestUse, found = id, pf.lastUsed, true
		}
	}
	if !found {
		return
	}
	_ = l.projectFiles[oldest].f.Close()
	delete(l.projectFiles, oldest)
}

// Close closes all open log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var lastErr error
	if l.globalFile != nil {
		if err := l.globalFile.Close(); err != nil {
			lastErr = err
		}
		l.globalFile = nil
	}
	for id, pf := range l.projectFiles {
		if err := pf.f.Close(); err != nil {
			lastErr = err
		}
		delete(l.projectFiles, id)
	}
	return lastErr
}

// formatLog formats a log entry in the specified format.
// Format: [2025-12-30 09:32:51] [INFO] [project-<id>] [category] message
func formatLog(t time.Time, level slog.Level, projectID, category, msg string) string {
	levelStr := levelToString(level)
	scope := "global"
	if projectID != "" {
		scope = "project-" + projectID
	}
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		levelStr,
		scope,
		category,
		msg,
	)
}

func levelToString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// log writes a log entry to appropriate files based on projectID.
// An empty projectID logs only to the global log; otherwise the entry also
// goes to the project log. Ids that are not plain file names stay global.
func (l *Logger) log(level slog.Level, projectID, category, msg string) {
	if l.dataDir == "" {
		return // Logging disabled
	}

	if level < l.level {
		return // Skip if below minimum level
	}

	now := time.Now()
	entry := formatLog(now, level, projectID, category, msg)

	// Write to global log
	if gf, err := l.ensureGlobalFile(); err == nil {
		_, _ = io.WriteString(gf, entry)
	}

	if projectID != "" && filepath.Base(projectID) == projectID {
		if pf, err := l.ensureProjectFile(projectID); err == nil {
			_, _ = io.WriteString(pf, entry)
		}
	}
}

// Info logs an info message.
func (l *Logger) Info(projectID, category, msg string) {
	l.log(slog.LevelInfo, projectID, category, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(projectID, category, msg string) {
	l.log(slog.LevelDebug, projectID, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(projectID, category, msg string) {
	l.log(slog.LevelWarn, projectID, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(projectID, category, msg string) {
	l.log(slog.LevelError, projectID, category, msg)
}

// Nop discards every entry.
type Nop struct{}

// Ensure Nop implements domain.Logger interface.
var _ domain.Logger = Nop{}

func (Nop) Debug(string, string, string) {}
func (Nop) Info(string, string, string)  {}
func (Nop) Warn(string, string, string)  {}
func (Nop) Error(string, string, string) {}
