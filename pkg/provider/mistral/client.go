/*
mistral implements a model endpoint for the Mistral AI chat completions API.
https://docs.mistral.ai/api/
*/
package mistral

import (
	// Packages
	client "github.com/mutablelogic/go-client"
	agent "github.com/mutablelogic/go-travel-agent"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Client struct {
	*client.Client
}

var _ agent.Completer = (*Client)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	endPoint    = "https://api.mistral.ai/v1"
	defaultName = "mistral"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a new Mistral API client with the given API key. Options
// follow the defaults, so client.OptEndpoint replaces the endpoint.
func New(apiKey string, opts ...client.ClientOpt) (*Client, error) {
	opts = append([]client.ClientOpt{
		client.OptEndpoint(endPoint),
		client.OptReqToken(client.Token{Scheme: client.Bearer, Value: apiKey}),
	}, opts...)
	if c, err := client.New(opts...); err != nil {
		return nil, err
	} else {
		return &Client{c}, nil
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Name returns the provider name
func (*Client) Name() string {
	return defaultName
}
