// Package orchestrator drives one conversational request through the
// decision call, an optional tool call and the summary call, falling back
// across model endpoints in priority order.
package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	// Packages
	uuid "github.com/google/uuid"
	otel "github.com/mutablelogic/go-client/pkg/otel"
	agent "github.com/mutablelogic/go-travel-agent"
	extract "github.com/mutablelogic/go-travel-agent/pkg/extract"
	normalize "github.com/mutablelogic/go-travel-agent/pkg/normalize"
	opt "github.com/mutablelogic/go-travel-agent/pkg/opt"
	schema "github.com/mutablelogic/go-travel-agent/pkg/schema"
	tool "github.com/mutablelogic/go-travel-agent/pkg/tool"
	attribute "go.opentelemetry.io/otel/attribute"
	trace "go.opentelemetry.io/otel/trace"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Orchestrator struct {
	endpoints          []schema.Endpoint
	completers         map[string]agent.Completer
	registry           *tool.Registry
	connector          agent.Connector
	dispatcher         agent.Dispatcher
	normalizer         *normalize.Normalizer
	attemptTimeout     time.Duration
	maxTokens          uint
	temperature        float64
	summaryTemperature float64
	now                func() time.Time
	logger             *slog.Logger
	tracer             trace.Tracer
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	MessageApology = "I'm sorry, I'm having trouble responding right now. Please try again in a moment."
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New returns an orchestrator. At least one endpoint, a registry and a
// dispatcher are required.
func New(opts ...Opt) (*Orchestrator, error) {
	o := &Orchestrator{
		completers:         make(map[string]agent.Completer),
		normalizer:         normalize.Default(),
		attemptTimeout:     DefaultAttemptTimeout,
		maxTokens:          DefaultMaxTokens,
		temperature:        DefaultTemperature,
		summaryTemperature: DefaultSummaryTemperature,
		now:                time.Now,
		logger:             slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	// Check required components
	if len(o.endpoints) == 0 {
		return nil, agent.ErrBadParameter.With("at least one endpoint is required")
	} else if o.registry == nil {
		return nil, agent.ErrBadParameter.With("registry is required")
	} else if o.dispatcher == nil {
		return nil, agent.ErrBadParameter.With("dispatcher is required")
	}

	// Order the endpoints
	schema.SortEndpoints(o.endpoints)

	// Return success
	return o, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Endpoints returns the endpoints in the order they are tried
func (o *Orchestrator) Endpoints() []schema.Endpoint {
	return slices.Clone(o.endpoints)
}

// Registry returns the tool registry
func (o *Orchestrator) Registry() *tool.Registry {
	return o.registry
}

// Manifest connects to the external capability provider if necessary and
// returns the current tool manifest
func (o *Orchestrator) Manifest(ctx context.Context) string {
	if o.connector != nil {
		o.connector.EnsureConnected(ctx)
	}
	return o.registry.Manifest(o.now())
}

// Tools connects to the external capability provider if necessary and
// returns the connection status with every known tool
func (o *Orchestrator) Tools(ctx context.Context) schema.ToolListResponse {
	status := schema.Unconnected
	if o.connector != nil {
		status = o.connector.EnsureConnected(ctx).Status
	}
	return schema.ToolListResponse{
		Status: status,
		Tools:  o.registry.Definitions(),
	}
}

// Tool returns a known tool by name, or ErrNotFound
func (o *Orchestrator) Tool(ctx context.Context, name string) (*schema.ToolDefinition, error) {
	if o.connector != nil {
		o.connector.EnsureConnected(ctx)
	}
	if def, _ := o.registry.Lookup(name); def != nil {
		return def, nil
	}
	return nil, agent.ErrNotFound.Withf("tool %q", name)
}

// GenerateResponse answers a message from the caller. It never fails:
// every failure resolves to text for the caller.
func (o *Orchestrator) GenerateResponse(ctx context.Context, message, callerId string) string {
	var err error
	request := uuid.NewString()
	logger := o.logger.With("request", request)
	ctx, endSpan := otel.StartSpan(o.tracer, ctx, "GenerateResponse",
		attribute.String("request", request),
	)
	defer func() { endSpan(err) }()

	// Obtain the decision
	now := o.now()
	system := DecisionPrompt(o.Manifest(ctx))
	raw, err := o.complete(ctx, logger, schema.NewDecisionTurn(system, message), o.temperature)
	if err != nil {
		logger.ErrorContext(ctx, "no model endpoint responded", "error", err)
		return MessageApology
	}

	// Plain replies are returned as they are
	text, found := extract.Extract(raw)
	if !found {
		return plain(raw)
	}
	call, parseErr := extract.ParseToolCall(text)
	if parseErr != nil {
		logger.DebugContext(ctx, "reply is not a valid tool call", "error", parseErr)
		return strings.TrimSpace(raw)
	}

	// Run the tool
	call.Args = o.normalizer.Normalize(call.Tool, call.Args)
	logger.InfoContext(ctx, "tool call", "tool", call.Tool, "caller", callerId)
	result := o.dispatcher.Execute(ctx, *call, callerId)
	if result.Final {
		return result.Text
	}

	// Ground the reply in the tool result
	turn := schema.NewSummaryTurn(SummaryPrompt(now), message, strings.TrimSpace(raw), result.Text)
	reply, err := o.complete(ctx, logger, turn, o.summaryTemperature)
	if err != nil {
		logger.ErrorContext(ctx, "no model endpoint responded to the summary", "error", err)
		return MessageApology
	}
	return plain(reply)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// complete tries each endpoint in order until one returns text. Only
// retryable failures move on to the next endpoint.
func (o *Orchestrator) complete(ctx context.Context, logger *slog.Logger, turn schema.Turn, temperature float64) (string, error) {
	var result error
	for _, endpoint := range o.endpoints {
		text, err := o.attempt(ctx, endpoint, turn, temperature)
		if err == nil {
			return text, nil
		}
		result = errors.Join(result, err)
		if ctx.Err() != nil {
			return "", ctx.Err()
		} else if !agent.IsRetryable(err) {
			return "", err
		}
		logger.WarnContext(ctx, "model endpoint failed", "endpoint", endpoint.Identifier(), "error", err)
	}
	return "", result
}

// attempt makes one bounded call to an endpoint
func (o *Orchestrator) attempt(ctx context.Context, endpoint schema.Endpoint, turn schema.Turn, temperature float64) (text string, err error) {
	ctx, endSpan := otel.StartSpan(o.tracer, ctx, "Complete",
		attribute.String("endpoint", endpoint.Identifier()),
		attribute.String("model", endpoint.Model),
	)
	defer func() { endSpan(err) }()

	ctx, cancel := context.WithTimeout(ctx, o.attemptTimeout)
	defer cancel()

	completer := o.completers[endpoint.Name]
	text, err = completer.Complete(ctx, endpoint.Model, turn,
		opt.WithMaxTokens(o.maxTokens),
		opt.WithTemperature(temperature),
	)
	if err == nil && strings.TrimSpace(text) == "" {
		err = agent.Retryable(agent.ErrInternalServerError.Withf("%s: empty reply", endpoint.Identifier()))
	} else if errors.Is(err, context.DeadlineExceeded) && ctx.Err() != nil {
		// The attempt timed out rather than the request
		err = agent.Retryable(agent.ErrTimeout.Withf("%s: %v", endpoint.Identifier(), err))
	}
	return text, err
}

// plain returns model text as a reply to the caller, without formatting
// fences or special tokens
func plain(raw string) string {
	if text := extract.Clean(raw); text != "" {
		return text
	}
	return strings.TrimSpace(raw)
}
