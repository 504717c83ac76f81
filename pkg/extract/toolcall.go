package extract

import (
	"bytes"
	"encoding/json"
	"strings"

	// Packages
	agent "github.com/mutablelogic/go-travel-agent"
	schema "github.com/mutablelogic/go-travel-agent/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ParseToolCall decodes and structurally validates extracted JSON text. The
// tool must be a non-empty string and args must be present and an object,
// possibly empty. Numbers are kept as json.Number.
func ParseToolCall(text string) (*schema.ToolCall, error) {
	var fields map[string]json.RawMessage
	dec := json.NewDecoder(strings.NewReader(text))
	if err := dec.Decode(&fields); err != nil {
		return nil, agent.ErrInvalidToolCall.Withf("not an object: %v", err)
	}

	// Tool name
	var name string
	if raw, exists := fields["tool"]; !exists {
		return nil, agent.ErrInvalidToolCall.With("missing tool")
	} else if err := json.Unmarshal(raw, &name); err != nil {
		return nil, agent.ErrInvalidToolCall.With("tool is not a string")
	} else if name = strings.TrimSpace(name); name == "" {
		return nil, agent.ErrInvalidToolCall.With("tool is empty")
	}

	// Arguments
	raw, exists := fields["args"]
	if !exists {
		return nil, agent.ErrInvalidToolCall.Withf("%s: missing args", name)
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, agent.ErrInvalidToolCall.Withf("%s: args is not an object", name)
	}
	args := make(map[string]any)
	argsDec := json.NewDecoder(bytes.NewReader(raw))
	argsDec.UseNumber()
	if err := argsDec.Decode(&args); err != nil {
		return nil, agent.ErrInvalidToolCall.Withf("%s: %v", name, err)
	}

	return &schema.ToolCall{Tool: name, Args: args}, nil
}
