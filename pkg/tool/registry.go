package tool

import (
	"log/slog"
	"regexp"
	"sync"

	// Packages
	agent "github.com/mutablelogic/go-travel-agent"
	schema "github.com/mutablelogic/go-travel-agent/pkg/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Registry holds the built-in tools registered at startup and the external
// tools discovered once from the capability provider. Names are unique
// across both sets.
type Registry struct {
	mu       sync.RWMutex
	builtins []schema.ToolDefinition
	external []schema.ToolDefinition
	names    map[string]schema.ToolSource
	merged   bool
	sealed   bool
	tools    string // cached tool block once sealed
	logger   *slog.Logger
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

var (
	reToolName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_\-\.]{0,63}$`)
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewRegistry creates a registry with the given built-in tools.
// Returns an error if any tool has an invalid or duplicate name.
func NewRegistry(opts ...Opt) (*Registry, error) {
	r := &Registry{
		names:  make(map[string]schema.ToolSource),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Register adds one or more built-in tools to the registry
func (r *Registry) Register(defs ...schema.ToolDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, def := range defs {
		if !reToolName.MatchString(def.Name) {
			return agent.ErrBadParameter.Withf("invalid tool name: %q", def.Name)
		}
		if _, exists := r.names[def.Name]; exists {
			return agent.ErrConflict.Withf("duplicate tool name: %q", def.Name)
		}
		r.names[def.Name] = schema.SourceBuiltin
		r.builtins = append(r.builtins, def)
	}

	// Built-ins change the tool block
	r.tools = ""

	return nil
}

// Merge adds the externally discovered tools. It may succeed at most once,
// after which the registry is sealed. External tools which collide with a
// built-in name, or which have an invalid name, are skipped.
func (r *Registry) Merge(defs []schema.ToolDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.merged {
		return agent.ErrConflict.With("external tools already merged")
	}
	for _, def := range defs {
		if !reToolName.MatchString(def.Name) {
			r.logger.Warn("skipping external tool with invalid name", "tool", def.Name)
			continue
		}
		if source, exists := r.names[def.Name]; exists {
			r.logger.Warn("skipping external tool with duplicate name", "tool", def.Name, "source", string(source))
			continue
		}
		r.names[def.Name] = schema.SourceExternal
		r.external = append(r.external, def)
	}
	r.merged = true
	r.sealed = true
	r.tools = ""

	return nil
}

// Seal marks the external tool set as final without merging anything,
// which is the case when the capability provider could not be reached
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Sealed returns true once the external tool set can no longer change
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Lookup returns a tool definition and its source, or nil if not found
func (r *Registry) Lookup(name string) (*schema.ToolDefinition, schema.ToolSource) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	source, exists := r.names[name]
	if !exists {
		return nil, schema.SourceNone
	}
	defs := r.builtins
	if source == schema.SourceExternal {
		defs = r.external
	}
	for i := range defs {
		if defs[i].Name == name {
			return types.Ptr(defs[i]), source
		}
	}
	return nil, schema.SourceNone
}

// IsBuiltin returns true if the name refers to a built-in tool
func (r *Registry) IsBuiltin(name string) bool {
	_, source := r.Lookup(name)
	return source == schema.SourceBuiltin
}

// Definitions returns built-in tools in registration order, followed by
// external tools in discovery order
func (r *Registry) Definitions() []schema.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]schema.ToolDefinition, 0, len(r.builtins)+len(r.external))
	result = append(result, r.builtins...)
	result = append(result, r.external...)
	return result
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (r *Registry) String() string {
	return types.Stringify(r.Definitions())
}
