package orchestrator

import (
	"log/slog"
	"strings"
	"time"

	// Packages
	agent "github.com/mutablelogic/go-travel-agent"
	normalize "github.com/mutablelogic/go-travel-agent/pkg/normalize"
	schema "github.com/mutablelogic/go-travel-agent/pkg/schema"
	tool "github.com/mutablelogic/go-travel-agent/pkg/tool"
	types "github.com/mutablelogic/go-server/pkg/types"
	trace "go.opentelemetry.io/otel/trace"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Opt is a functional option for configuring an orchestrator
type Opt func(*Orchestrator) error

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	DefaultAttemptTimeout     = 30 * time.Second
	DefaultMaxTokens          = 512
	DefaultTemperature        = 0.1
	DefaultSummaryTemperature = 0.3
)

///////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithEndpoint adds a model endpoint. Endpoints are tried in ascending
// priority order, and in the order added when priorities are equal.
func WithEndpoint(name string, completer agent.Completer, model string, priority int) Opt {
	return func(o *Orchestrator) error {
		name = strings.TrimSpace(name)
		if !types.IsIdentifier(name) {
			return agent.ErrBadParameter.Withf("invalid endpoint name %q", name)
		} else if completer == nil {
			return agent.ErrBadParameter.Withf("endpoint %q: completer is required", name)
		} else if model = strings.TrimSpace(model); model == "" {
			return agent.ErrBadParameter.Withf("endpoint %q: model is required", name)
		} else if _, exists := o.completers[name]; exists {
			return agent.ErrConflict.Withf("duplicate endpoint %q", name)
		}
		o.completers[name] = completer
		o.endpoints = append(o.endpoints, schema.Endpoint{
			Name:     name,
			Provider: completer.Name(),
			Model:    model,
			Priority: priority,
		})
		return nil
	}
}

// WithRegistry sets the tool registry used to render the manifest
func WithRegistry(registry *tool.Registry) Opt {
	return func(o *Orchestrator) error {
		if registry == nil {
			return agent.ErrBadParameter.With("registry is required")
		}
		o.registry = registry
		return nil
	}
}

// WithConnector sets the external capability connector, which is connected
// before the first manifest is rendered
func WithConnector(connector agent.Connector) Opt {
	return func(o *Orchestrator) error {
		if connector == nil {
			return agent.ErrBadParameter.With("connector is required")
		}
		o.connector = connector
		return nil
	}
}

// WithDispatcher sets the tool dispatcher
func WithDispatcher(dispatcher agent.Dispatcher) Opt {
	return func(o *Orchestrator) error {
		if dispatcher == nil {
			return agent.ErrBadParameter.With("dispatcher is required")
		}
		o.dispatcher = dispatcher
		return nil
	}
}

// WithNormalizer replaces the default argument normalizer
func WithNormalizer(normalizer *normalize.Normalizer) Opt {
	return func(o *Orchestrator) error {
		if normalizer == nil {
			return agent.ErrBadParameter.With("normalizer is required")
		}
		o.normalizer = normalizer
		return nil
	}
}

// WithAttemptTimeout bounds each call to a model endpoint
func WithAttemptTimeout(timeout time.Duration) Opt {
	return func(o *Orchestrator) error {
		if timeout <= 0 {
			return agent.ErrBadParameter.With("attempt timeout must be positive")
		}
		o.attemptTimeout = timeout
		return nil
	}
}

// WithMaxTokens sets the maximum number of tokens generated per call
func WithMaxTokens(value uint) Opt {
	return func(o *Orchestrator) error {
		if value == 0 {
			return agent.ErrBadParameter.With("max tokens must be at least 1")
		}
		o.maxTokens = value
		return nil
	}
}

// WithTemperature sets the temperature of the decision call
func WithTemperature(value float64) Opt {
	return func(o *Orchestrator) error {
		if value < 0 || value > 2 {
			return agent.ErrBadParameter.With("temperature must be between 0.0 and 2.0")
		}
		o.temperature = value
		return nil
	}
}

// WithSummaryTemperature sets the temperature of the summary call
func WithSummaryTemperature(value float64) Opt {
	return func(o *Orchestrator) error {
		if value < 0 || value > 2 {
			return agent.ErrBadParameter.With("summary temperature must be between 0.0 and 2.0")
		}
		o.summaryTemperature = value
		return nil
	}
}

// WithClock replaces the clock used for the date in the system instruction
func WithClock(now func() time.Time) Opt {
	return func(o *Orchestrator) error {
		if now == nil {
			return agent.ErrBadParameter.With("clock is required")
		}
		o.now = now
		return nil
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Opt {
	return func(o *Orchestrator) error {
		if logger == nil {
			return agent.ErrBadParameter.With("logger is required")
		}
		o.logger = logger
		return nil
	}
}

// WithTracer sets the tracer for request and completion spans
func WithTracer(tracer trace.Tracer) Opt {
	return func(o *Orchestrator) error {
		o.tracer = tracer
		return nil
	}
}
