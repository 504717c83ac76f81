package main

import (
	"fmt"
	"os"
	"strings"

	// Packages
	client "github.com/mutablelogic/go-client"
	otel "github.com/mutablelogic/go-client/pkg/otel"
	httpclient "github.com/mutablelogic/go-travel-agent/pkg/httpclient"
	schema "github.com/mutablelogic/go-travel-agent/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type AskCommand struct {
	Message []string `arg:"" help:"Message to send"`
	User    string   `name:"user" env:"TRAVEL_AGENT_USER" help:"Caller identifier, which scopes bookings" default:"cli"`
	Server  string   `name:"server" env:"TRAVEL_AGENT_SERVER" help:"Send the message to a running server, e.g. http://localhost:8084/api" optional:""`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *AskCommand) Run(ctx *Globals) (err error) {
	message := strings.TrimSpace(strings.Join(cmd.Message, " "))
	if message == "" {
		return fmt.Errorf("message is required")
	}

	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "AskCommand")
	defer func() { endSpan(err) }()

	// Send to a running server
	if cmd.Server != "" {
		opts := []client.ClientOpt{client.OptTracer(ctx.tracer)}
		if ctx.Debug {
			opts = append(opts, client.OptTrace(os.Stderr, ctx.Verbose))
		}
		remote, err := httpclient.New(cmd.Server, opts...)
		if err != nil {
			return err
		}
		response, err := remote.Chat(parent, schema.ChatRequest{Message: message, User: cmd.User})
		if err != nil {
			return err
		}
		fmt.Println(render(response.Reply))
		return nil
	}

	// Answer in process
	agent, err := ctx.Agent()
	if err != nil {
		return err
	}
	defer agent.Close()
	fmt.Println(render(agent.GenerateResponse(parent, message, cmd.User)))
	return nil
}
