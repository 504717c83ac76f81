package schema

import (
	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// ChatRequest is a single message from a caller
type ChatRequest struct {
	Message string `json:"message" help:"Message from the caller"`
	User    string `json:"user" help:"Caller identifier, which scopes bookings"`
}

// ChatResponse is the reply to a ChatRequest
type ChatResponse struct {
	Reply string `json:"reply"`
}

// ToolListResponse lists every known tool and the state of the calendar
// provider
type ToolListResponse struct {
	Status ConnectionStatus `json:"status"`
	Tools  []ToolDefinition `json:"tools"`
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (r ChatRequest) String() string {
	return types.Stringify(r)
}

func (r ChatResponse) String() string {
	return types.Stringify(r)
}

func (r ToolListResponse) String() string {
	return types.Stringify(r)
}
