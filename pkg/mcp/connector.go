/*
mcp connects to an external capability provider over the Model Context
Protocol.

The Connector launches the provider at most once per process. The first
call to EnsureConnected performs the handshake and lists the tools;
concurrent callers share that attempt. The outcome is permanent:

  - Connected: the handshake and discovery succeeded
  - Degraded: the handshake succeeded but discovery did not, so the fallback
    tools are advertised and calls to them fail
  - Unavailable: the handshake failed or timed out, so only the built-in
    tools are available
*/
package mcp

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	// Packages
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	otel "github.com/mutablelogic/go-client/pkg/otel"
	agent "github.com/mutablelogic/go-travel-agent"
	schema "github.com/mutablelogic/go-travel-agent/pkg/schema"
	tool "github.com/mutablelogic/go-travel-agent/pkg/tool"
	attribute "go.opentelemetry.io/otel/attribute"
	singleflight "golang.org/x/sync/singleflight"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Connector struct {
	*opts
	client *mcpsdk.Client
	group  singleflight.Group

	mu        sync.RWMutex
	attempted bool
	state     schema.ConnectionState
	session   *mcpsdk.ClientSession
	cancel    context.CancelFunc
}

var _ agent.Connector = (*Connector)(nil)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New returns an unconnected connector. Nothing is launched until
// EnsureConnected is called.
func New(opts ...Opt) (*Connector, error) {
	o, err := applyOpts(opts...)
	if err != nil {
		return nil, err
	}
	return &Connector{
		opts:   o,
		client: mcpsdk.NewClient(&mcpsdk.Implementation{Name: o.name, Version: o.version}, nil),
	}, nil
}

// Close ends the session and terminates the subprocess. The state is
// retained but calls fail from then on.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var result error
	if c.session != nil {
		result = c.session.Close()
		c.session = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	return result
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// EnsureConnected connects on the first call and returns the settled state
// on every later call. If ctx ends while an attempt is in flight, the
// Connecting state is returned and the attempt carries on.
func (c *Connector) EnsureConnected(ctx context.Context) schema.ConnectionState {
	if state := c.State(); state.Status.Settled() {
		return state
	}
	ch := c.group.DoChan("connect", func() (any, error) {
		return c.connect(), nil
	})
	select {
	case result := <-ch:
		return result.Val.(schema.ConnectionState)
	case <-ctx.Done():
		return c.State()
	}
}

// State returns a snapshot of the connection state
func (c *Connector) State() schema.ConnectionState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	state := c.state
	state.Tools = slices.Clone(state.Tools)
	return state
}

// CallTool calls a discovered tool and returns its text parts joined with
// newlines. It fails unless the connector is Connected.
func (c *Connector) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	c.mu.RLock()
	session, status := c.session, c.state.Status
	c.mu.RUnlock()
	if status != schema.Connected || session == nil {
		return "", agent.ErrUnavailable.Withf("calendar provider is %s", status)
	}

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return "", err
	}
	text := Text(result)
	if result.IsError {
		if text == "" {
			text = "the provider reported an error"
		}
		return "", errors.New(text)
	}
	return text, nil
}

// Text returns the text parts of a tool result joined with newlines. Other
// content types are ignored.
func Text(result *mcpsdk.CallToolResult) string {
	if result == nil {
		return ""
	}
	parts := make([]string, 0, len(result.Content))
	for _, content := range result.Content {
		if text, ok := content.(*mcpsdk.TextContent); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n")
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// connect runs once per connector and settles the state
func (c *Connector) connect() (state schema.ConnectionState) {
	c.mu.Lock()
	if c.attempted {
		defer c.mu.Unlock()
		return c.state
	}
	c.attempted = true
	c.state = schema.ConnectionState{Status: schema.Connecting}
	c.mu.Unlock()

	// The span is detached from any one caller
	var err error
	ctx, endSpan := otel.StartSpan(c.tracer, context.Background(), "Connect",
		attribute.String("client", c.name),
	)
	defer func() {
		endSpan(err)
	}()

	// The subprocess lives until Close or a failed handshake
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	session, err := c.handshake(runCtx)
	if err != nil {
		cancel()
		c.logger.Error("calendar provider unavailable, continuing with built-in tools only", "error", err)
		return c.settle(schema.ConnectionState{Status: schema.Unavailable, Err: err}, nil, nil)
	}

	// Discover tools. The session is not kept when the provider is degraded.
	tools, err := c.discover(runCtx, session)
	if err != nil {
		c.logger.Warn("calendar tool discovery failed, using fallback tools", "error", err, "tools", len(c.fallback))
		_ = session.Close()
		cancel()
		return c.settle(schema.ConnectionState{Status: schema.Degraded, Tools: c.fallback, Err: err}, nil, nil)
	}

	c.logger.Info("calendar provider connected", "tools", len(tools))
	return c.settle(schema.ConnectionState{Status: schema.Connected, Tools: tools}, session, cancel)
}

// handshake launches the provider and initializes the session. The
// connection attempt also races a timer in case the transport ignores
// cancellation; a session which arrives late is closed.
func (c *Connector) handshake(ctx context.Context) (*mcpsdk.ClientSession, error) {
	transport, err := c.transport(ctx)
	if err != nil {
		return nil, err
	}

	type result struct {
		session *mcpsdk.ClientSession
		err     error
	}
	ch := make(chan result, 1)
	hctx, cancel := context.WithTimeout(ctx, c.handshakeTimeout)
	defer cancel()
	go func() {
		session, err := c.client.Connect(hctx, transport, nil)
		ch <- result{session, err}
	}()

	timer := time.NewTimer(c.handshakeTimeout)
	defer timer.Stop()
	select {
	case r := <-ch:
		if r.err != nil && hctx.Err() != nil {
			return nil, agent.ErrTimeout.Withf("handshake after %v: %v", c.handshakeTimeout, r.err)
		}
		return r.session, r.err
	case <-timer.C:
		go func() {
			if r := <-ch; r.session != nil {
				_ = r.session.Close()
			}
		}()
		return nil, agent.ErrTimeout.Withf("handshake after %v", c.handshakeTimeout)
	}
}

// discover lists the tools of the session. A provider with no usable tools
// is treated as a failed discovery.
func (c *Connector) discover(ctx context.Context, session *mcpsdk.ClientSession) ([]schema.ToolDefinition, error) {
	ctx, cancel := context.WithTimeout(ctx, c.discoveryTimeout)
	defer cancel()

	var result []schema.ToolDefinition
	for t, err := range session.Tools(ctx, nil) {
		if err != nil {
			return nil, err
		}
		params, err := tool.ParametersFromJSON(t.InputSchema)
		if err != nil {
			c.logger.Warn("skipping calendar tool", "tool", t.Name, "error", err)
			continue
		}
		result = append(result, schema.ToolDefinition{
			Name:        t.Name,
			Description: strings.TrimSpace(t.Description),
			Parameters:  params,
		})
	}
	if len(result) == 0 {
		return nil, agent.ErrNotFound.With("provider returned no tools")
	}
	return result, nil
}

// settle registers the tools and then publishes the state, so a caller which
// observes a settled state also observes the registry it implies
func (c *Connector) settle(state schema.ConnectionState, session *mcpsdk.ClientSession, cancel context.CancelFunc) schema.ConnectionState {
	c.registerTools(state)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
	c.session = session
	c.cancel = cancel
	state.Tools = slices.Clone(state.Tools)
	return state
}

// registerTools merges the settled tools into the registry and seals it
func (c *Connector) registerTools(state schema.ConnectionState) {
	if c.registry == nil {
		return
	}
	if len(state.Tools) > 0 {
		if err := c.registry.Merge(state.Tools); err != nil {
			c.logger.Warn("calendar tools not merged", "error", err)
		}
	}
	c.registry.Seal()
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (c *Connector) String() string {
	state := c.State()
	if state.Err != nil {
		return fmt.Sprintf("<mcp.Connector status=%s tools=%d error=%q>", state.Status, len(state.Tools), state.Err.Error())
	}
	return fmt.Sprintf("<mcp.Connector status=%s tools=%d>", state.Status, len(state.Tools))
}
