/*
openai implements a model endpoint for any OpenAI-compatible chat
completions API, such as OpenAI itself or a self-hosted inference server.
*/
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	// Packages
	agent "github.com/mutablelogic/go-travel-agent"
	opt "github.com/mutablelogic/go-travel-agent/pkg/opt"
	schema "github.com/mutablelogic/go-travel-agent/pkg/schema"
	openai "github.com/openai/openai-go"
	option "github.com/openai/openai-go/option"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Client struct {
	client openai.Client
	name   string
}

var _ agent.Completer = (*Client)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	defaultName = "openai"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a client with the given API key. The SDK does not retry, so a
// failing endpoint hands over to the next one without delay; pass
// option.WithMaxRetries to change this, and option.WithBaseURL for a
// compatible server.
func New(apiKey string, opts ...option.RequestOption) *Client {
	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)
	return &Client{
		client: openai.NewClient(opts...),
		name:   defaultName,
	}
}

// WithName returns the client with a different provider name, to tell
// several compatible servers apart in logs
func (c *Client) WithName(name string) *Client {
	if name = strings.TrimSpace(name); name != "" {
		c.name = name
	}
	return c
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Name returns the provider name
func (c *Client) Name() string {
	return c.name
}

// Complete sends the turn to the model and returns the assistant text.
// Every failure other than cancellation by the caller is retryable.
func (c *Client) Complete(ctx context.Context, model string, turn schema.Turn, opts ...opt.Opt) (string, error) {
	options, err := opt.Apply(opts...)
	if err != nil {
		return "", err
	}

	// Build the request
	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: messages(turn),
	}
	if options.Has(opt.MaxTokensKey) {
		params.MaxTokens = openai.Int(int64(options.GetUint(opt.MaxTokensKey)))
	}
	if options.Has(opt.TemperatureKey) {
		params.Temperature = openai.Float(options.GetFloat64(opt.TemperatureKey))
	}
	if options.Has(opt.TopPKey) {
		params.TopP = openai.Float(options.GetFloat64(opt.TopPKey))
	}

	// Send the request
	response, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", agent.Retryable(fmt.Errorf("%s: %w", c.name, err))
	}

	// Return the first choice
	if len(response.Choices) == 0 {
		return "", agent.Retryable(agent.ErrInternalServerError.Withf("%s: no choices returned", c.name))
	}
	text := strings.TrimSpace(response.Choices[0].Message.Content)
	if text == "" {
		return "", agent.Retryable(agent.ErrInternalServerError.Withf("%s: empty completion", c.name))
	}
	return text, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func messages(turn schema.Turn) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(turn))
	for _, message := range turn {
		switch message.Role {
		case schema.RoleSystem:
			result = append(result, openai.SystemMessage(message.Content))
		case schema.RoleAssistant:
			result = append(result, openai.AssistantMessage(message.Content))
		default:
			result = append(result, openai.UserMessage(message.Content))
		}
	}
	return result
}
