package engine

import (
	"time"

	"github.com/runoshun/taskdag/internal/domain"
)

// Options tunes the engine.
type Options struct {
	// LockTimeout bounds the wait for a project lock. Zero leaves it to the caller's context.
	LockTimeout time.Duration
	// FetchConcurrency is the number of prerequisite tasks the guard reads in parallel.
	FetchConcurrency int
}

const defaultFetchConcurrency = 8

// DefaultOptions returns the options used when no configuration is given.
func DefaultOptions() Options {
	return Options{
		LockTimeout:      5 * time.Second,
		FetchConcurrency: defaultFetchConcurrency,
	}
}

// OptionsFromConfig converts the [engine] config section.
func OptionsFromConfig(cfg domain.EngineConfig) Options {
	return Options{
		LockTimeout:      cfg.LockTimeout,
		FetchConcurrency: cfg.FetchConcurrency,
	}
}

func (o Options) fetchLimit() int {
	if o.FetchConcurrency <= 0 {
		return defaultFetchConcurrency
	}
	return o.FetchConcurrency
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, string) {}
func (nopLogger) Info(string, string, string)  {}
func (nopLogger) Warn(string, string, string)  {}
func (nopLogger) Error(string, string, string) {}

func orNop(l domain.Logger) domain.Logger {
	if l == nil {
		return nopLogger{}
	}
	return l
}
