package tool

import (
	"encoding/json"
	"slices"
	"sort"
	"strings"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	agent "github.com/mutablelogic/go-travel-agent"
	schema "github.com/mutablelogic/go-travel-agent/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// NewDefinition returns a tool definition with parameters read from the
// JSON schema of the type T
func NewDefinition[T any](name, description string) (schema.ToolDefinition, error) {
	s, err := jsonschema.For[T](nil)
	if err != nil {
		return schema.ToolDefinition{}, agent.ErrBadParameter.Withf("schema for %q: %v", name, err)
	}
	return schema.ToolDefinition{
		Name:        name,
		Description: description,
		Parameters:  ParametersFromSchema(s),
	}, nil
}

// ParametersFromSchema converts an object schema into ordered parameters:
// required properties first in declared order, then optional properties
// sorted by name
func ParametersFromSchema(s *jsonschema.Schema) []schema.Parameter {
	if s == nil || len(s.Properties) == 0 {
		return nil
	}

	result := make([]schema.Parameter, 0, len(s.Properties))
	for _, name := range s.Required {
		if prop, exists := s.Properties[name]; exists {
			result = append(result, parameter(name, prop, true))
		}
	}
	optional := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		if !slices.Contains(s.Required, name) {
			optional = append(optional, name)
		}
	}
	sort.Strings(optional)
	for _, name := range optional {
		result = append(result, parameter(name, s.Properties[name], false))
	}
	return result
}

// ParametersFromJSON converts a schema in any JSON-compatible form (as
// received from an external provider) into ordered parameters
func ParametersFromJSON(v any) ([]schema.Parameter, error) {
	if v == nil {
		return nil, nil
	}
	var data []byte
	switch v := v.(type) {
	case json.RawMessage:
		data = v
	case []byte:
		data = v
	default:
		if d, err := json.Marshal(v); err != nil {
			return nil, agent.ErrBadParameter.Withf("input schema: %v", err)
		} else {
			data = d
		}
	}
	var s jsonschema.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, agent.ErrBadParameter.Withf("input schema: %v", err)
	}
	return ParametersFromSchema(&s), nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func parameter(name string, prop *jsonschema.Schema, required bool) schema.Parameter {
	return schema.Parameter{
		Name:        name,
		Type:        typeOf(prop),
		Required:    required,
		Description: strings.TrimSpace(descriptionOf(prop)),
	}
}

func typeOf(prop *jsonschema.Schema) string {
	if prop == nil {
		return ""
	}
	switch {
	case prop.Type == "array" && prop.Items != nil && typeOf(prop.Items) != "":
		return "array of " + typeOf(prop.Items)
	case prop.Type != "":
		return prop.Type
	case len(prop.Types) > 0:
		types := slices.DeleteFunc(slices.Clone(prop.Types), func(t string) bool { return t == "null" })
		return strings.Join(types, " or ")
	case len(prop.AnyOf) > 0:
		var types []string
		for _, alt := range prop.AnyOf {
			if t := typeOf(alt); t != "" && t != "null" && !slices.Contains(types, t) {
				types = append(types, t)
			}
		}
		return strings.Join(types, " or ")
	}
	return ""
}

func descriptionOf(prop *jsonschema.Schema) string {
	if prop == nil {
		return ""
	}
	if prop.Description != "" {
		return prop.Description
	}
	return prop.Title
}
