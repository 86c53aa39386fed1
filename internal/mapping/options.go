package mapping

import (
	"log/slog"

	"github.com/agentic-research/fieldmap/api"
)

// Option configures a Registry.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for rejected mutations. Defaults to
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// AddOption configures a single AddMapping call.
type AddOption func(*addConfig)

type addConfig struct {
	source api.Source
}

// WithSource selects the mapping source. Anything other than
// api.SourceFixedValue stores an expression mapping.
func WithSource(s api.Source) AddOption {
	return func(c *addConfig) { c.source = s }
}

// AsFixedValue stores the value as a literal.
func AsFixedValue() AddOption { return WithSource(api.SourceFixedValue) }
