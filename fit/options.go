package fit

import (
	"log/slog"
	"runtime"

	"github.com/cwbudde/algo-edxd/peak/shape"
)

// DefaultErrorLimit rejects fits whose centre standard error exceeds it.
const DefaultErrorLimit = 1e-4

// Config holds peak-fitting settings.
type Config struct {
	Model         shape.Model
	ErrorLimit    float64
	Workers       int
	MaxIterations int
	Logger        *slog.Logger
	// Progress, if set, is called after each fit with the number of
	// completed and total fits. It is called from multiple goroutines.
	Progress func(done, total int)
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns a Gaussian model, the default error limit and one
// worker per available CPU.
func DefaultConfig() Config {
	return Config{
		Model:      shape.Gaussian{},
		ErrorLimit: DefaultErrorLimit,
		Workers:    runtime.GOMAXPROCS(0),
		Logger:     slog.New(slog.DiscardHandler),
	}
}

// WithModel selects the peak-shape model.
func WithModel(m shape.Model) Option {
	return func(cfg *Config) {
		if m != nil {
			cfg.Model = m
		}
	}
}

// WithErrorLimit sets the maximum accepted centre standard error.
// Zero disables the check.
func WithErrorLimit(limit float64) Option {
	return func(cfg *Config) {
		if limit >= 0 {
			cfg.ErrorLimit = limit
		}
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

// WithMaxIterations bounds the solver iterations per fit.
func WithMaxIterations(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.MaxIterations = n
		}
	}
}

// WithLogger sets the logger used for progress and summary records.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *Config) {
		if l != nil {
			cfg.Logger = l
		}
	}
}

// WithProgress registers a progress callback.
func WithProgress(fn func(done, total int)) Option {
	return func(cfg *Config) {
		cfg.Progress = fn
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
