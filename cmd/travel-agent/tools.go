package main

import (
	"encoding/json"
	"fmt"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ToolsCommand struct {
	JSON bool `name:"json" help:"Print the tools and provider status as JSON"`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ToolsCommand) Run(ctx *Globals) (err error) {
	agent, err := ctx.Agent()
	if err != nil {
		return err
	}
	defer agent.Close()

	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "ToolsCommand")
	defer func() { endSpan(err) }()

	// Connects to the calendar provider before rendering
	if cmd.JSON {
		data, err := json.MarshalIndent(agent.Tools(parent), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		fmt.Println(agent.Manifest(parent))
	}
	return nil
}
