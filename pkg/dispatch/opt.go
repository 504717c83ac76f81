package dispatch

import (
	"log/slog"
	"strings"
	"time"

	// Packages
	agent "github.com/mutablelogic/go-travel-agent"
	tool "github.com/mutablelogic/go-travel-agent/pkg/tool"
	trace "go.opentelemetry.io/otel/trace"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Opt is a functional option for configuring a dispatcher
type Opt func(*Dispatcher) error

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	DefaultTimeout = 30 * time.Second
	DefaultLimit   = 4000
	DefaultMarker  = "\n...[truncated]"
)

var (
	// Words in a provider failure which indicate missing or expired credentials
	DefaultKeywords = []string{"oauth", "credential", "invalid_grant", "unauthorized", "unauthenticated", "access token", "refresh token"}
)

///////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithRegistry sets the registry used to resolve external tools
func WithRegistry(r *tool.Registry) Opt {
	return func(d *Dispatcher) error {
		if r == nil {
			return agent.ErrBadParameter.With("registry is required")
		}
		d.registry = r
		return nil
	}
}

// WithConnector sets the provider which executes external tools
func WithConnector(c agent.Connector) Opt {
	return func(d *Dispatcher) error {
		if c == nil {
			return agent.ErrBadParameter.With("connector is required")
		}
		d.connector = c
		return nil
	}
}

// WithTimeout bounds each tool execution
func WithTimeout(timeout time.Duration) Opt {
	return func(d *Dispatcher) error {
		if timeout <= 0 {
			return agent.ErrBadParameter.With("tool timeout must be positive")
		}
		d.timeout = timeout
		return nil
	}
}

// WithTruncation sets the maximum length in bytes of external tool text,
// including the marker appended when the text is cut
func WithTruncation(limit int, marker string) Opt {
	return func(d *Dispatcher) error {
		if limit <= len(marker) {
			return agent.ErrBadParameter.Withf("truncation limit must exceed the marker length %d", len(marker))
		}
		d.limit, d.marker = limit, marker
		return nil
	}
}

// WithKeywords replaces the words which mark a provider credential failure.
// Matching is case-insensitive.
func WithKeywords(keywords ...string) Opt {
	return func(d *Dispatcher) error {
		d.keywords = d.keywords[:0]
		for _, keyword := range keywords {
			if keyword = strings.ToLower(strings.TrimSpace(keyword)); keyword != "" {
				d.keywords = append(d.keywords, keyword)
			}
		}
		return nil
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Opt {
	return func(d *Dispatcher) error {
		if logger == nil {
			return agent.ErrBadParameter.With("logger is required")
		}
		d.logger = logger
		return nil
	}
}

// WithTracer sets the tracer for dispatch spans
func WithTracer(tracer trace.Tracer) Opt {
	return func(d *Dispatcher) error {
		d.tracer = tracer
		return nil
	}
}
