package httpclient

import (
	"context"
	"fmt"

	// Packages
	client "github.com/mutablelogic/go-client"
	schema "github.com/mutablelogic/go-travel-agent/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ListTools returns every known tool and the calendar provider status
func (c *Client) ListTools(ctx context.Context) (*schema.ToolListResponse, error) {
	var response schema.ToolListResponse
	if err := c.DoWithContext(ctx, client.NewRequest(), &response, client.OptPath("tool")); err != nil {
		return nil, err
	}
	return &response, nil
}

// GetTool retrieves a specific tool by name.
func (c *Client) GetTool(ctx context.Context, name string) (*schema.ToolDefinition, error) {
	if name == "" {
		return nil, fmt.Errorf("tool name cannot be empty")
	}

	// Perform request
	var response schema.ToolDefinition
	if err := c.DoWithContext(ctx, client.NewRequest(), &response, client.OptPath("tool", name)); err != nil {
		return nil, err
	}

	// Return the response
	return &response, nil
}
