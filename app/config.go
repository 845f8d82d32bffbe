package main

import "io"

// DatabaseConfig holds tunables for opening and reading a database file.
type DatabaseConfig struct {
	MaxConcurrency int // bounds the per-page cell-decode worker pool
	ValidationMode ValidationLevel
}

// ValidationLevel controls how strictly page/header invariants are checked.
type ValidationLevel int

const (
	ValidationBasic ValidationLevel = iota
	ValidationStrict
)

// DatabaseOption is a functional option for configuring a database open.
type DatabaseOption func(*DatabaseConfig)

// WithMaxConcurrency bounds how many cells of one page are decoded at once.
func WithMaxConcurrency(max int) DatabaseOption {
	return func(cfg *DatabaseConfig) {
		if max > 0 {
			cfg.MaxConcurrency = max
		}
	}
}

// WithValidation sets the validation strictness.
func WithValidation(level ValidationLevel) DatabaseOption {
	return func(cfg *DatabaseConfig) {
		cfg.ValidationMode = level
	}
}

// DefaultDatabaseConfig returns the default configuration.
func DefaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		MaxConcurrency: 8,
		ValidationMode: ValidationBasic,
	}
}

// ResourceManager closes a set of resources in LIFO order, guaranteeing
// cleanup runs on every exit path including error paths.
type ResourceManager struct {
	resources []io.Closer
}

// NewResourceManager creates an empty resource manager.
func NewResourceManager() *ResourceManager {
	return &ResourceManager{}
}

// Add registers a resource to be closed.
func (rm *ResourceManager) Add(resource io.Closer) {
	rm.resources = append(rm.resources, resource)
}

// Close closes all managed resources in reverse (LIFO) order, returning the
// last error encountered, if any.
func (rm *ResourceManager) Close() error {
	var lastErr error
	for i := len(rm.resources) - 1; i >= 0; i-- {
		if err := rm.resources[i].Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
