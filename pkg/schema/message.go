package schema

import (
	"strings"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Message is a single role-tagged message sent to a model endpoint
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Turn is the ordered sequence of messages constructed for one model call.
// Turns are rebuilt for every request and never persisted.
type Turn []Message

////////////////////////////////////////////////////////////////////////////////
// CONSTANTS

// Message role constants
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewDecisionTurn returns the turn used to obtain the initial model decision
func NewDecisionTurn(system, user string) Turn {
	return Turn{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: user},
	}
}

// NewSummaryTurn returns the turn used to obtain the final grounded reply.
// It appends the raw assistant tool-call text and a synthetic user message
// carrying the tool result to the original exchange.
func NewSummaryTurn(system, user, assistant, result string) Turn {
	return Turn{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: user},
		{Role: RoleAssistant, Content: assistant},
		{Role: RoleUser, Content: ToolResultPrefix + result},
	}
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

// ToolResultPrefix introduces the tool output in the summary turn
const ToolResultPrefix = "Tool result:\n"

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// System returns the content of the first system message, or empty string
func (t Turn) System() string {
	for _, m := range t {
		if m.Role == RoleSystem {
			return m.Content
		}
	}
	return ""
}

// Last returns the last message in the turn, or nil if the turn is empty
func (t Turn) Last() *Message {
	if len(t) == 0 {
		return nil
	}
	return &t[len(t)-1]
}

// Text concatenates the turn into a role-prefixed transcript, used by
// endpoints which only accept a single prompt
func (t Turn) Text() string {
	var b strings.Builder
	for i, m := range t {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.Role)
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	return b.String()
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (t Turn) String() string {
	return types.Stringify(t)
}
