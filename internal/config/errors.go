package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoQ0 is returned when the run configuration names no peak centre.
	ErrNoQ0 = errors.New("no q0 specified: set q0 to a centre, a list of centres or a per-detector table")

	// ErrInvalidWindow is returned when the window width is not positive.
	ErrInvalidWindow = errors.New("invalid window: must be positive")

	// ErrInvalidErrorLimit is returned when the error limit is negative.
	ErrInvalidErrorLimit = errors.New("invalid error limit: must be non-negative")

	// ErrInvalidWorkers is returned when the worker count is negative.
	ErrInvalidWorkers = errors.New("invalid workers: must be non-negative")

	// ErrUnknownFormat is returned for a configuration file that is neither
	// YAML nor TOML.
	ErrUnknownFormat = errors.New("unknown configuration format: use .yaml, .yml or .toml")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
