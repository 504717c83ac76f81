package main

import (
	"context"
	"errors"

	// Packages
	httphandler "github.com/mutablelogic/go-travel-agent/pkg/httphandler"
	version "github.com/mutablelogic/go-travel-agent/pkg/version"
	httprouter "github.com/mutablelogic/go-server/pkg/httprouter"
	httpserver "github.com/mutablelogic/go-server/pkg/httpserver"
	errgroup "golang.org/x/sync/errgroup"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ServeCommand struct {
	Addr   string `name:"addr" env:"TRAVEL_AGENT_ADDR" help:"Address to listen on" default:"localhost:8084"`
	Prefix string `name:"prefix" help:"Path prefix for the API" default:"/api"`
	Origin string `name:"origin" help:"Allowed cross-origin requests, or empty to disallow" default:""`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

// Run serves the chat API until the context is cancelled. The calendar
// provider is connected alongside, so the first request does not wait.
func (cmd *ServeCommand) Run(ctx *Globals) error {
	agent, err := ctx.Agent()
	if err != nil {
		return err
	}
	defer agent.Close()

	// Create the HTTP router
	versionTag := version.Version()
	router, err := httprouter.NewRouter(ctx.ctx, cmd.Prefix, cmd.Origin, "Travel Agent", versionTag)
	if err != nil {
		return err
	} else if err := httphandler.RegisterHandlers(agent.Orchestrator, router, true); err != nil {
		return err
	}

	// Create the server
	server, err := httpserver.New(cmd.Addr, router, nil)
	if err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx.ctx)
	group.Go(func() error {
		ctx.logger.InfoContext(groupCtx, "server started", "name", ctx.execName, "version", versionTag, "addr", cmd.Addr)
		defer ctx.logger.InfoContext(groupCtx, "server stopped", "name", ctx.execName, "version", versionTag)
		return server.Run(groupCtx)
	})
	group.Go(func() error {
		tools := agent.Tools(groupCtx)
		ctx.logger.InfoContext(groupCtx, "calendar provider", "status", tools.Status.String(), "tools", len(tools.Tools))
		return nil
	})

	// Cancellation is the normal way to stop
	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
