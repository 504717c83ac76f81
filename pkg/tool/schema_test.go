package tool_test

import (
	"testing"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	tool "github.com/mutablelogic/go-travel-agent/pkg/tool"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

type bookRequest struct {
	TripId uint64  `json:"tripId" jsonschema:"The trip identifier"`
	Amount float64 `json:"amount" jsonschema:"Fare amount"`
	Notes  string  `json:"notes,omitempty" jsonschema:"Optional notes"`
}

func Test_schema_001(t *testing.T) {
	// Definitions are generated from struct types
	assert := assert.New(t)
	def, err := tool.NewDefinition[bookRequest]("book", "Book a ticket")
	require.NoError(t, err)
	assert.Equal("book", def.Name)
	if assert.Len(def.Parameters, 3) {
		assert.Equal("tripId", def.Parameters[0].Name)
		assert.Equal("integer", def.Parameters[0].Type)
		assert.True(def.Parameters[0].Required)
		assert.Equal("The trip identifier", def.Parameters[0].Description)
		assert.Equal("amount", def.Parameters[1].Name)
		assert.Equal("number", def.Parameters[1].Type)
		assert.Equal("notes", def.Parameters[2].Name)
		assert.False(def.Parameters[2].Required)
	}
	assert.Equal([]string{"tripId", "amount"}, def.Required())
}

func Test_schema_002(t *testing.T) {
	// Schemas received as maps are converted
	assert := assert.New(t)
	params, err := tool.ParametersFromJSON(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary":    map[string]any{"type": "string", "description": "Title"},
			"attendees":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"calendarId": map[string]any{"type": "string"},
		},
		"required": []any{"summary"},
	})
	require.NoError(t, err)
	if assert.Len(params, 3) {
		assert.Equal("summary", params[0].Name)
		assert.True(params[0].Required)
		assert.Equal("attendees", params[1].Name)
		assert.Equal("array of string", params[1].Type)
		assert.Equal("calendarId", params[2].Name)
	}
}

func Test_schema_003(t *testing.T) {
	// Empty and nil schemas produce no parameters
	assert := assert.New(t)
	assert.Nil(tool.ParametersFromSchema(nil))
	assert.Nil(tool.ParametersFromSchema(&jsonschema.Schema{Type: "object"}))
	params, err := tool.ParametersFromJSON(nil)
	assert.NoError(err)
	assert.Nil(params)
	_, err = tool.ParametersFromJSON([]byte("not json"))
	assert.Error(err)
}

func Test_schema_004(t *testing.T) {
	// Union types drop null
	assert := assert.New(t)
	params := tool.ParametersFromSchema(&jsonschema.Schema{
		Properties: map[string]*jsonschema.Schema{
			"when": {Types: []string{"string", "null"}},
		},
	})
	if assert.Len(params, 1) {
		assert.Equal("string", params[0].Type)
	}
}
