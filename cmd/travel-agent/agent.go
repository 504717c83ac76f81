package main

import (
	"errors"
	"fmt"
	"os"
	"slices"

	// Packages
	client "github.com/mutablelogic/go-client"
	agent "github.com/mutablelogic/go-travel-agent"
	booking "github.com/mutablelogic/go-travel-agent/pkg/booking"
	httpbackend "github.com/mutablelogic/go-travel-agent/pkg/booking/httpbackend"
	memory "github.com/mutablelogic/go-travel-agent/pkg/booking/memory"
	config "github.com/mutablelogic/go-travel-agent/pkg/config"
	dispatch "github.com/mutablelogic/go-travel-agent/pkg/dispatch"
	mcp "github.com/mutablelogic/go-travel-agent/pkg/mcp"
	orchestrator "github.com/mutablelogic/go-travel-agent/pkg/orchestrator"
	mistral "github.com/mutablelogic/go-travel-agent/pkg/provider/mistral"
	openai "github.com/mutablelogic/go-travel-agent/pkg/provider/openai"
	tool "github.com/mutablelogic/go-travel-agent/pkg/tool"
	version "github.com/mutablelogic/go-travel-agent/pkg/version"
	option "github.com/openai/openai-go/option"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Agent is the orchestrator together with the resources it owns
type Agent struct {
	*orchestrator.Orchestrator
	connector *mcp.Connector
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// Agent builds the orchestrator from the configuration file, or from the
// flags when no file is given. The caller closes the agent.
func (g *Globals) Agent() (*Agent, error) {
	cfg, err := g.configuration()
	if err != nil {
		return nil, err
	}

	// Client options
	clientOpts := []client.ClientOpt{}
	if g.Debug {
		clientOpts = append(clientOpts, client.OptTrace(os.Stderr, g.Verbose))
	}
	if g.tracer != nil {
		clientOpts = append(clientOpts, client.OptTracer(g.tracer))
	}

	// Booking backend and built-in tools
	var backend agent.Backend
	if cfg.BookingURL != "" {
		if backend, err = httpbackend.New(cfg.BookingURL, clientOpts...); err != nil {
			return nil, fmt.Errorf("failed to create booking client: %w", err)
		}
	} else if backend, err = memory.New(); err != nil {
		return nil, err
	}
	tools, err := booking.New(backend)
	if err != nil {
		return nil, err
	}
	defs, err := booking.Definitions()
	if err != nil {
		return nil, err
	}
	registry, err := tool.NewRegistry(tool.WithBuiltins(defs...), tool.WithLogger(g.logger))
	if err != nil {
		return nil, err
	}

	// Calendar provider. Without a command only the built-in tools are known.
	var result Agent
	dispatchOpts := []dispatch.Opt{
		dispatch.WithRegistry(registry),
		dispatch.WithTimeout(cfg.Timeouts.Tool),
		dispatch.WithLogger(g.logger),
		dispatch.WithTracer(g.tracer),
	}
	opts := []orchestrator.Opt{
		orchestrator.WithRegistry(registry),
		orchestrator.WithAttemptTimeout(cfg.Timeouts.Attempt),
		orchestrator.WithMaxTokens(cfg.MaxTokens),
		orchestrator.WithTemperature(*cfg.Temperature),
		orchestrator.WithSummaryTemperature(*cfg.SummaryTemperature),
		orchestrator.WithLogger(g.logger),
		orchestrator.WithTracer(g.tracer),
	}
	if args := cfg.Provider.Args(); len(args) > 0 {
		connector, err := mcp.New(
			mcp.WithEnv(cfg.Provider.Environ()...),
			mcp.WithCommand(args[0], args[1:]...),
			mcp.WithHandshakeTimeout(cfg.Timeouts.Handshake),
			mcp.WithDiscoveryTimeout(cfg.Timeouts.Discovery),
			mcp.WithRegistry(registry),
			mcp.WithLogger(g.logger),
			mcp.WithTracer(g.tracer),
			mcp.WithImplementation(g.execName, version.Version()),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create calendar connector: %w", err)
		}
		result.connector = connector
		dispatchOpts = append(dispatchOpts, dispatch.WithConnector(connector))
		opts = append(opts, orchestrator.WithConnector(connector))
	} else {
		registry.Seal()
	}

	// Dispatcher
	dispatcher, err := dispatch.New(tools, dispatchOpts...)
	if err != nil {
		return nil, errors.Join(err, result.Close())
	}
	opts = append(opts, orchestrator.WithDispatcher(dispatcher))

	// Model endpoints
	for _, endpoint := range cfg.Endpoints {
		completer, err := newCompleter(endpoint, clientOpts)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("endpoint %q: %w", endpoint.Identifier(), err), result.Close())
		}
		opts = append(opts, orchestrator.WithEndpoint(endpoint.Identifier(), completer, endpoint.Model, endpoint.Priority))
	}

	// Create the orchestrator
	if result.Orchestrator, err = orchestrator.New(opts...); err != nil {
		return nil, errors.Join(err, result.Close())
	}
	return &result, nil
}

// Close terminates the calendar provider
func (a *Agent) Close() error {
	if a.connector != nil {
		return a.connector.Close()
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// configuration loads the configuration file or builds one from the flags
func (g *Globals) configuration() (*config.Config, error) {
	if g.Config != "" {
		return config.Load(g.Config)
	}

	// Endpoints from the flags, OpenAI-compatible first
	var endpoints []config.Endpoint
	if g.OpenAIKey != "" {
		endpoint := config.Endpoint{URL: g.OpenAIURL, APIKey: g.OpenAIKey}
		endpoint.Name, endpoint.Provider, endpoint.Model, endpoint.Priority = config.ProviderOpenAI, config.ProviderOpenAI, g.OpenAIModel, 1
		endpoints = append(endpoints, endpoint)
	}
	if g.MistralKey != "" {
		endpoint := config.Endpoint{APIKey: g.MistralKey}
		endpoint.Name, endpoint.Provider, endpoint.Model, endpoint.Priority = config.ProviderMistral, config.ProviderMistral, g.MistralModel, 2
		endpoints = append(endpoints, endpoint)
	}
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("no endpoints configured. Set --openai.key or --mistral.key (or use environment variables), or --config")
	}
	cfg, err := config.New(endpoints...)
	if err != nil {
		return nil, err
	}

	// Calendar provider and booking service
	cfg.Provider.Command = g.CalendarCommand
	if g.CalendarCredentials != "" {
		cfg.Provider.Env = map[string]string{"GOOGLE_OAUTH_CREDENTIALS": g.CalendarCredentials}
	}
	cfg.BookingURL = g.BookingURL
	return cfg, nil
}

// newCompleter returns the model client for an endpoint
func newCompleter(endpoint config.Endpoint, clientOpts []client.ClientOpt) (agent.Completer, error) {
	switch endpoint.Provider {
	case config.ProviderOpenAI:
		var opts []option.RequestOption
		if url := endpoint.BaseURL(); url != "" {
			opts = append(opts, option.WithBaseURL(url))
		}
		return openai.New(endpoint.Key(), opts...).WithName(endpoint.Identifier()), nil
	case config.ProviderMistral:
		if url := endpoint.BaseURL(); url != "" {
			clientOpts = append(slices.Clip(clientOpts), client.OptEndpoint(url))
		}
		return mistral.New(endpoint.Key(), clientOpts...)
	default:
		return nil, agent.ErrBadParameter.Withf("unknown provider %q", endpoint.Provider)
	}
}
