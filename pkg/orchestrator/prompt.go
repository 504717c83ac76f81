package orchestrator

import (
	"strings"
	"time"

	// Packages
	tool "github.com/mutablelogic/go-travel-agent/pkg/tool"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const persona = `You are the assistant for a bus travel booking service. You help customers search for trips, book tickets, look up and cancel their bookings, and manage their calendar.`

const decisionProtocol = `Decide how to respond to the customer's message.
- If no tool is needed, reply to the customer in plain text.
- If a tool is needed, reply with ONLY a JSON object of the form {"tool": "<name>", "args": {...}} and nothing else. Use only the tools listed above, and only the parameters each tool describes.
- Never ask the customer for their user identifier. It is known to the system.`

const summaryProtocol = `You have already called a tool on behalf of the customer. Use the tool result to answer the customer's message in plain, friendly language.
- Only state details which appear in the tool result. Never invent trips, bookings, prices or events.
- If the tool result reports a failure, explain it briefly and suggest what the customer can do next.
- Do not output JSON.`

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// DecisionPrompt returns the system instruction for the decision call,
// embedding the tool manifest
func DecisionPrompt(manifest string) string {
	return join(persona, manifest, decisionProtocol)
}

// SummaryPrompt returns the system instruction for the summary call
func SummaryPrompt(now time.Time) string {
	return join(persona, tool.DateHeader(now), summaryProtocol)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func join(parts ...string) string {
	return strings.Join(parts, "\n\n")
}
