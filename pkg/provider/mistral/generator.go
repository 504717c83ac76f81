package mistral

import (
	"context"
	"errors"
	"strings"

	// Packages
	client "github.com/mutablelogic/go-client"
	agent "github.com/mutablelogic/go-travel-agent"
	opt "github.com/mutablelogic/go-travel-agent/pkg/opt"
	schema "github.com/mutablelogic/go-travel-agent/pkg/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// generateOpts is the read side of the applied generation options
type generateOpts interface {
	Has(string) bool
	GetUint(string) uint
	GetFloat64(string) float64
	GetString(string) string
	GetStringArray(string) []string
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Complete sends the turn to the model and returns the assistant text.
// Every failure other than cancellation by the caller is retryable.
func (c *Client) Complete(ctx context.Context, model string, turn schema.Turn, opts ...opt.Opt) (string, error) {
	// Apply options
	options, err := opt.Apply(opts...)
	if err != nil {
		return "", err
	}

	// Create JSON payload
	payload, err := client.NewJSONRequest(generateRequestFromOpts(model, turn, options))
	if err != nil {
		return "", err
	}

	// Send the request
	var response chatCompletionResponse
	if err := c.DoWithContext(ctx, payload, &response, client.OptPath("chat", "completions")); err != nil {
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", agent.Retryable(err)
	}

	// Return the first choice
	if len(response.Choices) == 0 {
		return "", agent.Retryable(agent.ErrInternalServerError.With("mistral: no choices returned"))
	}
	text := strings.TrimSpace(textFromContent(response.Choices[0].Message.Content))
	if text == "" {
		return "", agent.Retryable(agent.ErrInternalServerError.With("mistral: empty completion"))
	}
	return text, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// generateRequestFromOpts builds a request body from the turn and options
func generateRequestFromOpts(model string, turn schema.Turn, options generateOpts) chatCompletionRequest {
	request := chatCompletionRequest{
		Model:    model,
		Messages: mistralMessagesFromTurn(turn),
	}
	if options.Has(opt.MaxTokensKey) {
		request.MaxTokens = types.Ptr(options.GetUint(opt.MaxTokensKey))
	}
	if options.Has(opt.TemperatureKey) {
		request.Temperature = types.Ptr(min(options.GetFloat64(opt.TemperatureKey), 1.5))
	}
	if options.Has(opt.TopPKey) {
		request.TopP = types.Ptr(options.GetFloat64(opt.TopPKey))
	}
	if stop := options.GetStringArray(opt.StopSequencesKey); len(stop) > 0 {
		request.Stop = stop
	}
	request.SafePrompt = options.GetString(safePromptKey) == "true"
	return request
}
