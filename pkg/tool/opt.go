package tool

import (
	"log/slog"

	// Packages
	agent "github.com/mutablelogic/go-travel-agent"
	schema "github.com/mutablelogic/go-travel-agent/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Opt is a functional option for configuring a registry
type Opt func(*Registry) error

///////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithBuiltins registers built-in tools when the registry is created
func WithBuiltins(defs ...schema.ToolDefinition) Opt {
	return func(r *Registry) error {
		return r.Register(defs...)
	}
}

// WithLogger sets the logger used to report skipped external tools
func WithLogger(logger *slog.Logger) Opt {
	return func(r *Registry) error {
		if logger == nil {
			return agent.ErrBadParameter.With("logger is required")
		}
		r.logger = logger
		return nil
	}
}
