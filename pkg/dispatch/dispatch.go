// Package dispatch executes tool calls, built-in tools first and then
// tools discovered from the calendar provider, and turns every outcome into
// text.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	agent "github.com/mutablelogic/go-travel-agent"
	booking "github.com/mutablelogic/go-travel-agent/pkg/booking"
	schema "github.com/mutablelogic/go-travel-agent/pkg/schema"
	tool "github.com/mutablelogic/go-travel-agent/pkg/tool"
	attribute "go.opentelemetry.io/otel/attribute"
	trace "go.opentelemetry.io/otel/trace"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Dispatcher struct {
	tools     *booking.Tools
	registry  *tool.Registry
	connector agent.Connector
	timeout   time.Duration
	limit     int
	marker    string
	keywords  []string
	logger    *slog.Logger
	tracer    trace.Tracer
}

var _ agent.Dispatcher = (*Dispatcher)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	MessageUnknownTool = "I'm sorry, I couldn't understand which action you wanted me to take. Could you rephrase your request?"
	MessageCredentials = "The calendar service is not available because calendar access has not been authorised. An administrator needs to configure the calendar credentials before calendar actions can be used."
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New returns a dispatcher for the built-in tools. External tools are only
// dispatched when both a registry and a connector are set.
func New(tools *booking.Tools, opts ...Opt) (*Dispatcher, error) {
	if tools == nil {
		return nil, agent.ErrBadParameter.With("built-in tools are required")
	}
	d := &Dispatcher{
		tools:    tools,
		timeout:  DefaultTimeout,
		limit:    DefaultLimit,
		marker:   DefaultMarker,
		keywords: slices.Clone(DefaultKeywords),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Execute runs the tool call for the caller. It never fails: unknown tools,
// invalid arguments and execution failures all return text, with Err set.
func (d *Dispatcher) Execute(ctx context.Context, call schema.ToolCall, callerId string) (result schema.ToolResult) {
	ctx, endSpan := otel.StartSpan(d.tracer, ctx, "Dispatch",
		attribute.String("tool", call.Tool),
	)
	defer func() {
		endSpan(result.Err)
		if result.Err != nil {
			d.logger.WarnContext(ctx, "tool call failed", "tool", call.Tool, "source", string(result.Source), "error", result.Err)
		}
	}()

	// Built-in tools by exact name
	if kind := booking.KindOf(call.Tool); kind != booking.KindNone {
		return d.builtin(ctx, kind, call, callerId)
	}

	// Discovered tools
	if d.registry != nil && d.connector != nil {
		if _, source := d.registry.Lookup(call.Tool); source == schema.SourceExternal {
			return d.external(ctx, call)
		}
	}

	// Unknown tool
	return schema.ToolResult{
		Tool:  call.Tool,
		Text:  MessageUnknownTool,
		Final: true,
		Err:   agent.ErrUnknownTool.With(call.Tool),
	}
}

// Truncate cuts text longer than limit bytes so that, with the marker
// appended, it is exactly limit bytes or fewer. The cut never splits a
// UTF-8 sequence.
func Truncate(text string, limit int, marker string) string {
	if len(text) <= limit {
		return text
	}
	cut := max(limit-len(marker), 0)
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + marker
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (d *Dispatcher) builtin(ctx context.Context, kind booking.Kind, call schema.ToolCall, callerId string) schema.ToolResult {
	result := schema.ToolResult{Tool: call.Tool, Source: schema.SourceBuiltin}

	// Validate before anything reaches the backend
	req, err := booking.Parse(kind, call.Args)
	if err != nil {
		result.Text = err.Error()
		result.Final = true
		result.Err = err
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	if text, err := d.tools.Execute(ctx, req, callerId); err != nil {
		result.Text = Truncate(failure(call.Tool, err), d.limit, d.marker)
		result.Err = err
	} else {
		result.Text = Truncate(completed(call.Tool, text), d.limit, d.marker)
	}
	return result
}

func (d *Dispatcher) external(ctx context.Context, call schema.ToolCall) schema.ToolResult {
	result := schema.ToolResult{Tool: call.Tool, Source: schema.SourceExternal}

	// Fallback tools are advertised when degraded, but there is no session
	if state := d.connector.State(); state.Status != schema.Connected {
		result.Text = MessageCredentials
		result.Err = agent.ErrUnavailable.Withf("calendar provider is %s", state.Status)
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	text, err := d.connector.CallTool(ctx, call.Tool, call.Args)
	switch {
	case err != nil && d.credentialFailure(err):
		result.Text = MessageCredentials
		result.Err = err
	case err != nil:
		result.Text = Truncate(failure(call.Tool, err), d.limit, d.marker)
		result.Err = err
	default:
		result.Text = Truncate(completed(call.Tool, text), d.limit, d.marker)
	}
	return result
}

// credentialFailure returns true if the error mentions the provider's
// authorisation domain
func (d *Dispatcher) credentialFailure(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	message := strings.ToLower(err.Error())
	return slices.ContainsFunc(d.keywords, func(keyword string) bool {
		return strings.Contains(message, keyword)
	})
}

func failure(name string, err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("The action %q did not complete in time.", name)
	}
	return fmt.Sprintf("The action %q failed: %v", name, err)
}

func completed(name, text string) string {
	if text = strings.TrimSpace(text); text == "" {
		return fmt.Sprintf("The action %q completed.", name)
	}
	return text
}
