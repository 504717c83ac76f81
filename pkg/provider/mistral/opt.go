package mistral

import (
	"fmt"

	// Packages
	opt "github.com/mutablelogic/go-travel-agent/pkg/opt"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	safePromptKey = "safe-prompt"
)

///////////////////////////////////////////////////////////////////////////////
// GENERATION OPTIONS
//
// See: https://docs.mistral.ai/api/#tag/chat/operation/chat_completion_v1_chat_completions_post

// WithTemperature sets the temperature for the request (0.0 to 1.5).
// Higher values produce more random output, lower values more deterministic.
func WithTemperature(value float64) opt.Opt {
	if value < 0 || value > 1.5 {
		return opt.Error(fmt.Errorf("temperature must be between 0.0 and 1.5"))
	}
	return opt.SetFloat64(opt.TemperatureKey, value)
}

// WithSafePrompt enables the safety prompt injection.
func WithSafePrompt() opt.Opt {
	return opt.SetString(safePromptKey, "true")
}
