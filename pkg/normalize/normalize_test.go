package normalize_test

import (
	"testing"

	// Packages
	normalize "github.com/mutablelogic/go-travel-agent/pkg/normalize"
	assert "github.com/stretchr/testify/assert"
)

func Test_normalize_001(t *testing.T) {
	// Unknown tools pass through unchanged
	assert := assert.New(t)
	n := normalize.Default()
	args := map[string]any{"query": "Goa", "nested": map[string]any{"a": 1}}
	assert.Equal(args, n.Normalize("search_trips", args))
	assert.Equal(map[string]any{}, n.Normalize("search_trips", nil))
}

func Test_normalize_002(t *testing.T) {
	// The input is never modified
	assert := assert.New(t)
	n := normalize.Default()
	args := map[string]any{"event": map[string]any{"summary": "Trip", "start": map[string]any{"dateTime": "2026-10-14T10:00:00"}}}
	result := n.Normalize("create-event", args)
	assert.Equal("2026-10-14T10:00:00", result["start"])
	assert.Contains(args, "event")
	assert.NotContains(args, "summary")
	assert.IsType(map[string]any{}, args["event"].(map[string]any)["start"])
}

func Test_normalize_003(t *testing.T) {
	// A missing or placeholder calendar defaults to primary
	assert := assert.New(t)
	n := normalize.Default()
	for _, value := range []any{nil, "", "calendar_id", "calendarId", "your_calendar_id", "CALENDAR_ID", "<calendarId>", "primary_calendar", "default", 42} {
		args := map[string]any{}
		if value != nil {
			args["calendarId"] = value
		}
		assert.Equal("primary", n.Normalize("list-events", args)["calendarId"], value)
	}
	assert.Equal("work@example.com", n.Normalize("get-event", map[string]any{"calendarId": "work@example.com"})["calendarId"])
}

func Test_normalize_004(t *testing.T) {
	// Nested wrappers collapse and nested values win
	assert := assert.New(t)
	n := normalize.Default()
	result := n.Normalize("create-event", map[string]any{
		"summary":      "Outer",
		"eventDetails": map[string]any{"summary": "Inner", "location": "Pune"},
	})
	assert.Equal(map[string]any{"summary": "Inner", "location": "Pune", "calendarId": "primary"}, result)
}

func Test_normalize_005(t *testing.T) {
	// Structured timestamps become strings, preferring a precise time
	assert := assert.New(t)
	n := normalize.Default()
	result := n.Normalize("update-event", map[string]any{
		"eventId": "abc",
		"start":   map[string]any{"date": "2026-10-14", "dateTime": "2026-10-14T09:00:00"},
		"end":     map[string]any{"date": "2026-10-15", "allDay": true},
	})
	assert.Equal("2026-10-14T09:00:00", result["start"])
	assert.Equal("2026-10-15", result["end"])

	result = n.Normalize("search-events", map[string]any{
		"timeMin": map[string]any{"value": "2026-10-01T00:00:00", "allDay": false},
		"timeMax": "2026-10-31T00:00:00",
	})
	assert.Equal("2026-10-01T00:00:00", result["timeMin"])
	assert.Equal("2026-10-31T00:00:00", result["timeMax"])
}

func Test_normalize_006(t *testing.T) {
	// Unrecognised timestamp objects pass through
	assert := assert.New(t)
	n := normalize.Default()
	start := map[string]any{"hour": 9}
	result := n.Normalize("create-event", map[string]any{"summary": "x", "start": start})
	assert.Equal(start, result["start"])
}

func Test_normalize_007(t *testing.T) {
	// Title is used when summary is missing
	assert := assert.New(t)
	n := normalize.Default()
	result := n.Normalize("create-event", map[string]any{"title": "Bus to Goa"})
	assert.Equal("Bus to Goa", result["summary"])
	assert.NotContains(result, "title")

	result = n.Normalize("create-event", map[string]any{"title": "A", "summary": "B"})
	assert.Equal("B", result["summary"])
	assert.Equal("A", result["title"])
}

func Test_normalize_008(t *testing.T) {
	// Custom rules apply in order and a nil normalizer copies
	assert := assert.New(t)
	n := normalize.New(normalize.WithRules([]normalize.Rule{
		func(args map[string]any) { args["a"] = 1 },
		func(args map[string]any) { args["a"] = args["a"].(int) + 1 },
	}, "x", "y"))
	assert.Equal(map[string]any{"a": 2}, n.Normalize("y", nil))
	assert.Equal([]string{"x", "y"}, n.Tools())

	var empty *normalize.Normalizer
	assert.Equal(map[string]any{"b": true}, empty.Normalize("x", map[string]any{"b": true}))
}
