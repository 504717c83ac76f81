package schema

import (
	"sort"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Endpoint identifies a model endpoint and its priority. Lower priority
// values are tried first.
type Endpoint struct {
	Name     string `json:"name" yaml:"name"`
	Provider string `json:"provider" yaml:"provider"`
	Model    string `json:"model" yaml:"model"`
	Priority int    `json:"priority" yaml:"priority"`
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// SortEndpoints orders endpoints by ascending priority, keeping the
// declared order for equal priorities
func SortEndpoints(endpoints []Endpoint) {
	sort.SliceStable(endpoints, func(i, j int) bool {
		return endpoints[i].Priority < endpoints[j].Priority
	})
}

// Identifier returns the name of the endpoint, or the model when the
// endpoint is unnamed
func (e Endpoint) Identifier() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Model
}
