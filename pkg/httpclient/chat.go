package httpclient

import (
	"context"
	"fmt"
	"strings"

	// Packages
	client "github.com/mutablelogic/go-client"
	schema "github.com/mutablelogic/go-travel-agent/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Chat sends a message on behalf of a caller and returns the reply
func (c *Client) Chat(ctx context.Context, req schema.ChatRequest) (*schema.ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("message cannot be empty")
	} else if strings.TrimSpace(req.User) == "" {
		return nil, fmt.Errorf("user cannot be empty")
	}

	// Create request
	payload, err := client.NewJSONRequest(req)
	if err != nil {
		return nil, err
	}

	// Perform request
	var response schema.ChatResponse
	if err := c.DoWithContext(ctx, payload, &response, client.OptPath("chat")); err != nil {
		return nil, err
	}

	// Return the response
	return &response, nil
}
