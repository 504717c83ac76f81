package extract_test

import (
	"encoding/json"
	"testing"

	// Packages
	agent "github.com/mutablelogic/go-travel-agent"
	extract "github.com/mutablelogic/go-travel-agent/pkg/extract"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

// decode returns the JSON object as a map for semantic comparison
func decode(t *testing.T, text string) map[string]any {
	t.Helper()
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &v))
	return v
}

func Test_extract_001(t *testing.T) {
	// A tool call surrounded by prose and fences is recovered unchanged
	want := `{"tool":"search_trips","args":{"query":"Pune to Mumbai"}}`
	inputs := []string{
		want,
		"Sure! Let me look that up.\n" + want,
		want + "\nI hope that helps.",
		"```json\n" + want + "\n```",
		"Here you go:\n```\n" + want + "\n```\nAnything else?",
		"<tool_call>" + want + "</tool_call><|eot_id|>",
		"\x00\x07" + want + "\x1b",
	}
	for _, input := range inputs {
		got, ok := extract.Extract(input)
		if assert.True(t, ok, input) {
			assert.Equal(t, decode(t, want), decode(t, got), input)
		}
	}
}

func Test_extract_002(t *testing.T) {
	// Text without a tool-bearing object yields no tool call
	assert := assert.New(t)
	inputs := []string{
		"",
		"Hello! How can I help you today?",
		`The config looks like {"name": "value"} in most cases.`,
		`{"tool": "", "args": {}}`,
		`{"tool": 42, "args": {}}`,
		`unbalanced {"tool": "search_trips", "args": {"query": "x"}`,
	}
	for _, input := range inputs {
		got, ok := extract.Extract(input)
		assert.False(ok, input)
		assert.Empty(got)
	}
}

func Test_extract_003(t *testing.T) {
	// The outer object wins over a nested example object
	assert := assert.New(t)
	input := `{"tool":"create-event","args":{"summary":"Trip","example":{"tool":"nested","args":{}}}}`
	got, ok := extract.Extract(input)
	assert.True(ok)
	assert.Equal("create-event", decode(t, got)["tool"])
}

func Test_extract_004(t *testing.T) {
	// The rightmost tool call wins over an earlier distractor
	assert := assert.New(t)
	input := `For example {"tool":"search_trips","args":{"query":"example"}} but the real answer is {"tool":"get_booking_details","args":{"bookingId":12}}`
	got, ok := extract.Extract(input)
	assert.True(ok)
	assert.Equal("get_booking_details", decode(t, got)["tool"])
}

func Test_extract_005(t *testing.T) {
	// A trailing non-tool object does not hide an earlier tool call
	assert := assert.New(t)
	input := `{"tool":"search_trips","args":{"query":"Goa"}} Note: results look like {"trip": 1}`
	got, ok := extract.Extract(input)
	assert.True(ok)
	assert.Equal("search_trips", decode(t, got)["tool"])
}

func Test_extract_006(t *testing.T) {
	// Braces inside string values do not break the balance
	assert := assert.New(t)
	input := `Calling now: {"tool":"create-event","args":{"summary":"Meet {Bob}}"}}`
	got, ok := extract.Extract(input)
	assert.True(ok)
	assert.Equal("Meet {Bob}}", decode(t, got)["args"].(map[string]any)["summary"])
}

func Test_extract_007(t *testing.T) {
	// An unpaired quote in surrounding prose does not hide the tool call
	assert := assert.New(t)
	input := `The 6" seat is great {"tool":"search_trips","args":{"query":"Go{a"}}`
	got, ok := extract.Extract(input)
	assert.True(ok)
	assert.Equal("search_trips", decode(t, got)["tool"])
}

func Test_extract_008(t *testing.T) {
	// Malformed JSON is repaired in the lenient pass
	assert := assert.New(t)
	input := `OK: {'tool': 'search_trips', 'args': {'query': 'Goa',}}`
	got, ok := extract.Extract(input)
	assert.True(ok)
	assert.Equal("search_trips", decode(t, got)["tool"])
}

func Test_extract_009(t *testing.T) {
	// Candidates are ordered from the rightmost closing brace
	assert := assert.New(t)
	candidates := extract.Candidates(`{"a":{"b":1}} {"c":2}`)
	assert.Equal([]string{`{"c":2}`, `{"a":{"b":1}}`, `{"b":1}`}, candidates)
}

func Test_extract_010(t *testing.T) {
	// Clean strips fences and control characters
	assert := assert.New(t)
	assert.Equal("hello\nworld", extract.Clean("```json\nhello\x00\nworld\n```"))
	assert.Equal("hi", extract.Clean("<|im_start|>hi<|im_end|>"))
}

func Test_toolcall_001(t *testing.T) {
	// A valid tool call decodes with numbers preserved
	assert := assert.New(t)
	call, err := extract.ParseToolCall(`{"tool":"get_booking_details","args":{"bookingId":12345678901234}}`)
	require.NoError(t, err)
	assert.Equal("get_booking_details", call.Tool)
	assert.Equal(json.Number("12345678901234"), call.Args["bookingId"])
}

func Test_toolcall_002(t *testing.T) {
	// Empty args are valid
	assert := assert.New(t)
	call, err := extract.ParseToolCall(`{"tool":"list-events","args":{}}`)
	require.NoError(t, err)
	assert.Empty(call.Args)
	assert.NotNil(call.Args)
}

func Test_toolcall_003(t *testing.T) {
	// Structural failures are invalid tool calls
	assert := assert.New(t)
	for _, input := range []string{
		`[]`,
		`{"args":{}}`,
		`{"tool":"x"}`,
		`{"tool":"x","args":"bookingId=1"}`,
		`{"tool":"x","args":null}`,
		`{"tool":"x","args":[1,2]}`,
		`{"tool":["x"],"args":{}}`,
		`{"tool":"  ","args":{}}`,
	} {
		_, err := extract.ParseToolCall(input)
		assert.ErrorIs(err, agent.ErrInvalidToolCall, input)
	}
}

func Test_extract_011(t *testing.T) {
	// Braces in values survive a stray quote anywhere in the prose
	assert := assert.New(t)
	for _, input := range []string{
		`It's a 6" seat. {"tool":"search_trips","args":{"query":"Go{a"}}`,
		`{"tool":"search_trips","args":{"query":"Go}a"}} is what I'll call for the 6" seat`,
	} {
		got, ok := extract.Extract(input)
		if assert.True(ok, input) {
			call := decode(t, got)
			assert.Equal("search_trips", call["tool"])
			assert.Contains(call["args"].(map[string]any)["query"], "Go")
		}
	}
}

func Test_extract_012(t *testing.T) {
	// An object whose own quotes do not pair up is still a candidate
	assert := assert.New(t)
	candidates := extract.Candidates(`x {"a":"b} y`)
	assert.Equal([]string{`{"a":"b}`}, candidates)
}
