package strain

import (
	"log/slog"
	"runtime"
)

// Config holds full-ring fit settings.
type Config struct {
	Workers       int
	MaxIterations int
	Logger        *slog.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns one worker per available CPU and a discarding logger.
func DefaultConfig() Config {
	return Config{
		Workers: runtime.GOMAXPROCS(0),
		Logger:  slog.New(slog.DiscardHandler),
	}
}

// WithWorkers sets the number of concurrent fitting goroutines.
func WithWorkers(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.Workers = n
		}
	}
}

// WithMaxIterations bounds the solver iterations per harmonic fit.
func WithMaxIterations(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.MaxIterations = n
		}
	}
}

// WithLogger sets the logger for the failure summary.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *Config) {
		if l != nil {
			cfg.Logger = l
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
