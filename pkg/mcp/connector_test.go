package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	// Packages
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	agent "github.com/mutablelogic/go-travel-agent"
	mcp "github.com/mutablelogic/go-travel-agent/pkg/mcp"
	schema "github.com/mutablelogic/go-travel-agent/pkg/schema"
	tool "github.com/mutablelogic/go-travel-agent/pkg/tool"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

///////////////////////////////////////////////////////////////////////////////
// HELPERS

// newServer returns a transport onto an in-memory calendar provider, and a
// counter of how many times the transport was requested
func newServer(t *testing.T, register func(*mcpsdk.Server)) (mcp.TransportFunc, *atomic.Int32) {
	t.Helper()
	server := mcpsdk.NewServer(&mcpsdk.Implementation{Name: "calendar", Version: "test"}, nil)
	if register != nil {
		register(server)
	}

	serverTransport, clientTransport := mcpsdk.NewInMemoryTransports()
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if session, err := server.Connect(ctx, serverTransport, nil); err == nil {
			<-ctx.Done()
			_ = session.Close()
		}
	}()
	t.Cleanup(cancel)

	var count atomic.Int32
	return func(context.Context) (mcpsdk.Transport, error) {
		count.Add(1)
		return clientTransport, nil
	}, &count
}

func calendarTools(server *mcpsdk.Server) {
	server.AddTool(&mcpsdk.Tool{
		Name:        "list-events",
		Description: "List events",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"calendarId": map[string]any{"type": "string"},
				"timeMin":    map[string]any{"type": "string", "description": "Start"},
			},
			"required": []any{"calendarId"},
		},
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		var args map[string]string
		if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
			return nil, err
		}
		return &mcpsdk.CallToolResult{
			Content: []mcpsdk.Content{
				&mcpsdk.TextContent{Text: "calendar " + args["calendarId"]},
				&mcpsdk.TextContent{Text: "no events"},
			},
		}, nil
	})
	server.AddTool(&mcpsdk.Tool{
		Name:        "create-event",
		Description: "Create an event",
		InputSchema: map[string]any{"type": "object", "properties": map[string]any{}},
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		return &mcpsdk.CallToolResult{
			IsError: true,
			Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: "invalid_grant: token has been expired or revoked"}},
		}, nil
	})
}

func newRegistry(t *testing.T) *tool.Registry {
	t.Helper()
	r, err := tool.NewRegistry(tool.WithBuiltins(schema.ToolDefinition{Name: "search_trips", Description: "Search"}))
	require.NoError(t, err)
	return r
}

///////////////////////////////////////////////////////////////////////////////
// TESTS

func Test_connector_001(t *testing.T) {
	// A transport or command is required
	_, err := mcp.New()
	assert.ErrorIs(t, err, agent.ErrBadParameter)
	_, err = mcp.New(mcp.WithCommand(" "))
	assert.ErrorIs(t, err, agent.ErrBadParameter)
	_, err = mcp.New(mcp.WithCommand("calendar-mcp"), mcp.WithEnv("NOEQUALS"))
	assert.ErrorIs(t, err, agent.ErrBadParameter)
}

func Test_connector_002(t *testing.T) {
	// Nothing is launched until the first EnsureConnected
	assert := assert.New(t)
	transport, count := newServer(t, calendarTools)
	c, err := mcp.New(mcp.WithTransport(transport))
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(schema.Unconnected, c.State().Status)
	assert.Equal(int32(0), count.Load())
	_, err = c.CallTool(context.Background(), "list-events", nil)
	assert.ErrorIs(err, agent.ErrUnavailable)
}

func Test_connector_003(t *testing.T) {
	// Discovered tools are merged into the registry, which is sealed
	assert := assert.New(t)
	transport, count := newServer(t, calendarTools)
	registry := newRegistry(t)
	c, err := mcp.New(mcp.WithTransport(transport), mcp.WithRegistry(registry))
	require.NoError(t, err)
	defer c.Close()

	state := c.EnsureConnected(context.Background())
	require.Equal(t, schema.Connected, state.Status, state.Err)
	assert.Len(state.Tools, 2)
	assert.True(registry.Sealed())

	def, source := registry.Lookup("list-events")
	if assert.NotNil(def) {
		assert.Equal(schema.SourceExternal, source)
		assert.Equal([]string{"calendarId"}, def.Required())
	}
	assert.True(registry.IsBuiltin("search_trips"))

	// A second call does not reconnect
	assert.Equal(schema.Connected, c.EnsureConnected(context.Background()).Status)
	assert.Equal(int32(1), count.Load())
}

func Test_connector_004(t *testing.T) {
	// Tool calls join the text parts and report provider errors
	assert := assert.New(t)
	transport, _ := newServer(t, calendarTools)
	c, err := mcp.New(mcp.WithTransport(transport))
	require.NoError(t, err)
	defer c.Close()
	require.Equal(t, schema.Connected, c.EnsureConnected(context.Background()).Status)

	text, err := c.CallTool(context.Background(), "list-events", map[string]any{"calendarId": "primary"})
	assert.NoError(err)
	assert.Equal("calendar primary\nno events", text)

	_, err = c.CallTool(context.Background(), "create-event", map[string]any{})
	assert.EqualError(err, "invalid_grant: token has been expired or revoked")
}

func Test_connector_005(t *testing.T) {
	// Concurrent callers share a single handshake and observe the same state
	assert := assert.New(t)
	transport, count := newServer(t, calendarTools)
	c, err := mcp.New(mcp.WithTransport(transport))
	require.NoError(t, err)
	defer c.Close()

	var wg sync.WaitGroup
	states := make([]schema.ConnectionStatus, 20)
	for i := range states {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			states[i] = c.EnsureConnected(context.Background()).Status
		}(i)
	}
	wg.Wait()

	assert.Equal(int32(1), count.Load())
	for _, status := range states {
		assert.Equal(schema.Connected, status)
	}
}

func Test_connector_006(t *testing.T) {
	// A handshake which never completes times out and is not retried
	assert := assert.New(t)
	_, clientTransport := mcpsdk.NewInMemoryTransports()
	var count atomic.Int32
	registry := newRegistry(t)
	c, err := mcp.New(
		mcp.WithTransport(func(context.Context) (mcpsdk.Transport, error) {
			count.Add(1)
			return clientTransport, nil
		}),
		mcp.WithHandshakeTimeout(100*time.Millisecond),
		mcp.WithRegistry(registry),
	)
	require.NoError(t, err)
	defer c.Close()

	start := time.Now()
	state := c.EnsureConnected(context.Background())
	assert.Less(time.Since(start), 5*time.Second)
	assert.Equal(schema.Unavailable, state.Status)
	assert.ErrorIs(state.Err, agent.ErrTimeout)
	assert.Empty(state.Tools)

	// The registry holds only built-ins
	assert.True(registry.Sealed())
	assert.Len(registry.Definitions(), 1)

	assert.Equal(schema.Unavailable, c.EnsureConnected(context.Background()).Status)
	assert.Equal(int32(1), count.Load())
}

func Test_connector_007(t *testing.T) {
	// A transport error leaves the connector unavailable
	assert := assert.New(t)
	c, err := mcp.New(mcp.WithTransport(func(context.Context) (mcpsdk.Transport, error) {
		return nil, errors.New("executable not found")
	}))
	require.NoError(t, err)

	state := c.EnsureConnected(context.Background())
	assert.Equal(schema.Unavailable, state.Status)
	assert.EqualError(state.Err, "executable not found")
	assert.NoError(c.Close())
}

func Test_connector_008(t *testing.T) {
	// A provider with no tools degrades to the fallback tools
	assert := assert.New(t)
	transport, _ := newServer(t, nil)
	registry := newRegistry(t)
	c, err := mcp.New(mcp.WithTransport(transport), mcp.WithRegistry(registry))
	require.NoError(t, err)
	defer c.Close()

	state := c.EnsureConnected(context.Background())
	assert.Equal(schema.Degraded, state.Status)
	assert.Equal(mcp.Fallback(), state.Tools)
	assert.Error(state.Err)

	// Fallback tools are advertised but cannot be called
	_, source := registry.Lookup("create-event")
	assert.Equal(schema.SourceExternal, source)
	_, err = c.CallTool(context.Background(), "create-event", map[string]any{})
	assert.ErrorIs(err, agent.ErrUnavailable)
}

func Test_connector_009(t *testing.T) {
	// A caller whose context ends does not cancel the shared attempt
	assert := assert.New(t)
	transport, _ := newServer(t, calendarTools)
	release := make(chan struct{})
	c, err := mcp.New(mcp.WithTransport(func(ctx context.Context) (mcpsdk.Transport, error) {
		<-release
		return transport(ctx)
	}))
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.Equal(schema.Connecting, c.EnsureConnected(ctx).Status)

	close(release)
	assert.Equal(schema.Connected, c.EnsureConnected(context.Background()).Status)
}

func Test_connector_010(t *testing.T) {
	// Only text content is extracted
	assert := assert.New(t)
	assert.Equal("", mcp.Text(nil))
	assert.Equal("a\nb", mcp.Text(&mcpsdk.CallToolResult{Content: []mcpsdk.Content{
		&mcpsdk.TextContent{Text: "a"},
		&mcpsdk.ImageContent{MIMEType: "image/png", Data: []byte{0x89}},
		&mcpsdk.TextContent{Text: "b"},
	}}))
}

func Test_connector_011(t *testing.T) {
	// The default fallback lists the common calendar tools
	assert := assert.New(t)
	var names []string
	for _, def := range mcp.Fallback() {
		names = append(names, def.Name)
		assert.NotEmpty(def.Required())
	}
	assert.Equal([]string{"list-events", "create-event", "search-events"}, names)
}

func Test_connector_012(t *testing.T) {
	// A settled state is never visible before its tools are in the registry
	assert := assert.New(t)
	transport, _ := newServer(t, calendarTools)
	registry := newRegistry(t)
	c, err := mcp.New(mcp.WithTransport(transport), mcp.WithRegistry(registry))
	require.NoError(t, err)
	defer c.Close()

	observed := make(chan bool, 1)
	go func() {
		deadline := time.Now().Add(5 * time.Second)
		for time.Now().Before(deadline) {
			if c.State().Status.Settled() {
				def, _ := registry.Lookup("list-events")
				observed <- def != nil && registry.Sealed()
				return
			}
		}
		observed <- false
	}()

	state := c.EnsureConnected(context.Background())
	require.Equal(t, schema.Connected, state.Status, state.Err)
	assert.True(<-observed)
}
