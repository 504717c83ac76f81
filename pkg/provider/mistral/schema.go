package mistral

///////////////////////////////////////////////////////////////////////////////
// TYPES - Mistral REST API wire format
//
// Reference: https://docs.mistral.ai/api/#tag/chat/operation/chat_completion_v1_chat_completions_post

///////////////////////////////////////////////////////////////////////////////
// CHAT COMPLETIONS - REQUEST

// chatCompletionRequest is the request body for POST /v1/chat/completions.
type chatCompletionRequest struct {
	Model       string           `json:"model"`
	Messages    []mistralMessage `json:"messages"`
	Temperature *float64         `json:"temperature,omitempty"`
	TopP        *float64         `json:"top_p,omitempty"`
	MaxTokens   *uint            `json:"max_tokens,omitempty"`
	Stop        []string         `json:"stop,omitempty"`
	SafePrompt  bool             `json:"safe_prompt,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// CHAT COMPLETIONS - RESPONSE

// chatCompletionResponse is the response body from POST /v1/chat/completions.
type chatCompletionResponse struct {
	Id      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

// chatChoice is one element of the choices array.
type chatChoice struct {
	Index        int            `json:"index"`
	Message      mistralMessage `json:"message"`
	FinishReason string         `json:"finish_reason"`
}

// chatUsage reports token counts for a chat completion request.
type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

///////////////////////////////////////////////////////////////////////////////
// MESSAGES

// mistralMessage is a single role-tagged message. Responses may carry the
// content as a string or as an array of parts.
type mistralMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

