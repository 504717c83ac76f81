package schema

import (
	"encoding/json"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// ToolDefinition describes a callable tool: its name (unique within a
// registry), a description for the model and an ordered list of parameters.
type ToolDefinition struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Parameters  []Parameter `json:"parameters,omitempty"`
}

// Parameter is a single named argument of a tool
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required,omitempty"`
	Description string `json:"description,omitempty"`
}

// ToolCall is the structured intent recovered from model output
type ToolCall struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

// ToolSource identifies which class of executor handled a tool call
type ToolSource string

// ToolResult is the textual outcome of executing a tool call. Err is set
// when the call failed; Text is always the user or model facing text. When
// Final is set the text is the reply to the user and is not summarised.
type ToolResult struct {
	Tool   string     `json:"tool"`
	Source ToolSource `json:"source,omitempty"`
	Text   string     `json:"text"`
	Final  bool       `json:"final,omitempty"`
	Err    error      `json:"-"`
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	SourceNone     ToolSource = ""
	SourceBuiltin  ToolSource = "builtin"
	SourceExternal ToolSource = "external"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Required returns the names of the required parameters, in order
func (t ToolDefinition) Required() []string {
	var result []string
	for _, p := range t.Parameters {
		if p.Required {
			result = append(result, p.Name)
		}
	}
	return result
}

// JSON returns the tool call encoded as compact JSON
func (c ToolCall) JSON() string {
	data, err := json.Marshal(c)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// Failed returns true if the tool result carries an error
func (r ToolResult) Failed() bool {
	return r.Err != nil
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (t ToolDefinition) String() string {
	return types.Stringify(t)
}

func (c ToolCall) String() string {
	return types.Stringify(c)
}
