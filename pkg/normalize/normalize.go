// Package normalize reshapes model-supplied tool arguments into the shape
// a specific executor expects.
//
// The fixups for calendar tools reflect what the calendar provider has been
// observed to reject, not a published contract, so they are isolated here
// and keyed by tool name. Normalization never fails: arguments which are not
// recognised pass through unchanged and any error surfaces at execution.
package normalize

import (
	"maps"
	"slices"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Rule transforms a copy of the arguments in place
type Rule func(args map[string]any)

// Normalizer holds the rules for each tool, applied in order
type Normalizer struct {
	rules map[string][]Rule
}

// Opt configures a Normalizer
type Opt func(*Normalizer)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New returns a normalizer with no rules, which is the identity transform
func New(opts ...Opt) *Normalizer {
	n := &Normalizer{rules: make(map[string][]Rule)}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// WithRules appends rules for one or more tools
func WithRules(rules []Rule, tools ...string) Opt {
	return func(n *Normalizer) {
		for _, tool := range tools {
			n.rules[tool] = append(n.rules[tool], rules...)
		}
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Normalize returns a deep copy of args with the rules for the named tool
// applied. The input is never modified. A nil input returns an empty map.
func (n *Normalizer) Normalize(tool string, args map[string]any) map[string]any {
	result := copyMap(args)
	if n == nil {
		return result
	}
	for _, rule := range n.rules[tool] {
		rule(result)
	}
	return result
}

// Tools returns the names of tools which have rules, sorted
func (n *Normalizer) Tools() []string {
	return slices.Sorted(maps.Keys(n.rules))
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func copyMap(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = copyValue(v)
	}
	return dst
}

func copyValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return copyMap(v)
	case []any:
		dst := make([]any, len(v))
		for i, elem := range v {
			dst[i] = copyValue(elem)
		}
		return dst
	default:
		return v
	}
}
