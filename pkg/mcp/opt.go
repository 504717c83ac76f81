package mcp

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	// Packages
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	agent "github.com/mutablelogic/go-travel-agent"
	schema "github.com/mutablelogic/go-travel-agent/pkg/schema"
	tool "github.com/mutablelogic/go-travel-agent/pkg/tool"
	trace "go.opentelemetry.io/otel/trace"
)

/////////////////////////////////////////////////////////////////////////////////
// TYPES

// Opt is a functional option for configuring a connector
type Opt func(*opts) error

// TransportFunc returns the transport for the provider. The context lives
// as long as the connector, so a subprocess started with it is killed when
// the connector is closed or the handshake is abandoned.
type TransportFunc func(ctx context.Context) (mcpsdk.Transport, error)

type opts struct {
	transport        TransportFunc
	env              []string
	handshakeTimeout time.Duration
	discoveryTimeout time.Duration
	fallback         []schema.ToolDefinition
	registry         *tool.Registry
	logger           *slog.Logger
	tracer           trace.Tracer
	name             string
	version          string
}

/////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	DefaultHandshakeTimeout = 45 * time.Second
	DefaultDiscoveryTimeout = 15 * time.Second
)

/////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func applyOpts(fns ...Opt) (*opts, error) {
	o := &opts{
		handshakeTimeout: DefaultHandshakeTimeout,
		discoveryTimeout: DefaultDiscoveryTimeout,
		fallback:         Fallback(),
		logger:           slog.Default(),
		name:             "travel-agent",
		version:          "dev",
	}
	for _, fn := range fns {
		if err := fn(o); err != nil {
			return nil, err
		}
	}
	if o.transport == nil {
		return nil, agent.ErrBadParameter.With("a provider command or transport is required")
	}
	return o, nil
}

/////////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithCommand launches the provider as a subprocess speaking MCP over stdio
func WithCommand(command string, args ...string) Opt {
	return func(o *opts) error {
		if command = strings.TrimSpace(command); command == "" {
			return agent.ErrBadParameter.With("command is required")
		}
		o.transport = func(ctx context.Context) (mcpsdk.Transport, error) {
			cmd := exec.CommandContext(ctx, command, args...)
			if len(o.env) > 0 {
				cmd.Env = append(cmd.Environ(), o.env...)
			}
			return &mcpsdk.CommandTransport{Command: cmd}, nil
		}
		return nil
	}
}

// WithEnv adds KEY=VALUE pairs to the subprocess environment
func WithEnv(env ...string) Opt {
	return func(o *opts) error {
		for _, kv := range env {
			if key, _, ok := strings.Cut(kv, "="); !ok || key == "" {
				return agent.ErrBadParameter.Withf("invalid environment variable %q", kv)
			}
		}
		o.env = append(o.env, env...)
		return nil
	}
}

// WithTransport sets the transport directly, replacing any command
func WithTransport(fn TransportFunc) Opt {
	return func(o *opts) error {
		if fn == nil {
			return agent.ErrBadParameter.With("transport is required")
		}
		o.transport = fn
		return nil
	}
}

// WithHandshakeTimeout bounds the launch and initialize handshake
func WithHandshakeTimeout(d time.Duration) Opt {
	return func(o *opts) error {
		if d <= 0 {
			return agent.ErrBadParameter.With("handshake timeout must be positive")
		}
		o.handshakeTimeout = d
		return nil
	}
}

// WithDiscoveryTimeout bounds listing the tools after the handshake
func WithDiscoveryTimeout(d time.Duration) Opt {
	return func(o *opts) error {
		if d <= 0 {
			return agent.ErrBadParameter.With("discovery timeout must be positive")
		}
		o.discoveryTimeout = d
		return nil
	}
}

// WithFallback replaces the tools advertised when discovery fails
func WithFallback(defs ...schema.ToolDefinition) Opt {
	return func(o *opts) error {
		o.fallback = defs
		return nil
	}
}

// WithRegistry merges the discovered or fallback tools into the registry
// once the connection settles, and seals it
func WithRegistry(r *tool.Registry) Opt {
	return func(o *opts) error {
		if r == nil {
			return agent.ErrBadParameter.With("registry is required")
		}
		o.registry = r
		return nil
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Opt {
	return func(o *opts) error {
		if logger == nil {
			return agent.ErrBadParameter.With("logger is required")
		}
		o.logger = logger
		return nil
	}
}

// WithTracer sets the tracer for the connect span
func WithTracer(tracer trace.Tracer) Opt {
	return func(o *opts) error {
		o.tracer = tracer
		return nil
	}
}

// WithImplementation sets the client name and version sent in the handshake
func WithImplementation(name, version string) Opt {
	return func(o *opts) error {
		if name == "" || version == "" {
			return agent.ErrBadParameter.With("implementation name and version are required")
		}
		o.name, o.version = name, version
		return nil
	}
}
