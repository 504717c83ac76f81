package mcp

import (
	// Packages
	schema "github.com/mutablelogic/go-travel-agent/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Fallback returns the calendar tools advertised when discovery fails, so
// the model can still make a best-effort call
func Fallback() []schema.ToolDefinition {
	calendarId := schema.Parameter{Name: "calendarId", Type: "string", Description: `Calendar ID, use "primary" for the user's calendar`}
	return []schema.ToolDefinition{
		{
			Name:        "list-events",
			Description: "List events from a calendar within a time range.",
			Parameters: []schema.Parameter{
				{Name: "timeMin", Type: "string", Required: true, Description: "Start of the range, ISO 8601 date and time"},
				{Name: "timeMax", Type: "string", Required: true, Description: "End of the range, ISO 8601 date and time"},
				calendarId,
			},
		},
		{
			Name:        "create-event",
			Description: "Create a calendar event.",
			Parameters: []schema.Parameter{
				{Name: "summary", Type: "string", Required: true, Description: "Title of the event"},
				{Name: "start", Type: "string", Required: true, Description: "Start, ISO 8601 date and time"},
				{Name: "end", Type: "string", Required: true, Description: "End, ISO 8601 date and time"},
				calendarId,
				{Name: "description", Type: "string", Description: "Notes for the event"},
				{Name: "location", Type: "string", Description: "Where the event takes place"},
			},
		},
		{
			Name:        "search-events",
			Description: "Search calendar events by text.",
			Parameters: []schema.Parameter{
				{Name: "query", Type: "string", Required: true, Description: "Text to search for"},
				calendarId,
				{Name: "timeMax", Type: "string", Description: "End of the range, ISO 8601 date and time"},
				{Name: "timeMin", Type: "string", Description: "Start of the range, ISO 8601 date and time"},
			},
		},
	}
}
