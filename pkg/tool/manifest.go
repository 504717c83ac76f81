package tool

import (
	"fmt"
	"strings"
	"time"

	// Packages
	schema "github.com/mutablelogic/go-travel-agent/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// Years the model has been observed to use in place of the current year
var staleYears = []int{2023, 2024}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Manifest renders every known tool into the textual block embedded in the
// system instruction, preceded by the current date. The tool block is
// cached once the external tool set is sealed; the date is always current.
func (r *Registry) Manifest(now time.Time) string {
	var b strings.Builder
	b.WriteString(DateHeader(now))
	b.WriteString("\n\n")
	b.WriteString(r.toolBlock())
	return b.String()
}

// DateHeader states the current date, time and year explicitly
func DateHeader(now time.Time) string {
	var b strings.Builder
	year := now.Year()
	fmt.Fprintf(&b, "Current date and time: %s (%s).\n", now.Format("Monday, 2 January 2006 15:04"), now.Format("MST"))
	fmt.Fprintf(&b, "Today is %s. The current year is %d.\n", now.Format("2006-01-02"), year)
	fmt.Fprintf(&b, "Always use the year %d for dates unless the user names a different year.", year)

	// Forbid known stale years
	var forbidden []string
	for _, stale := range staleYears {
		if stale != year {
			forbidden = append(forbidden, fmt.Sprint(stale))
		}
	}
	if len(forbidden) > 0 {
		fmt.Fprintf(&b, " Never write %s as the year; it is %d.", strings.Join(forbidden, " or "), year)
	}
	return b.String()
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// toolBlock returns the rendered tools, caching the text once sealed
func (r *Registry) toolBlock() string {
	r.mu.RLock()
	if r.sealed && r.tools != "" {
		defer r.mu.RUnlock()
		return r.tools
	}
	defs := make([]schema.ToolDefinition, 0, len(r.builtins)+len(r.external))
	defs = append(defs, r.builtins...)
	defs = append(defs, r.external...)
	sealed := r.sealed
	r.mu.RUnlock()

	text := renderTools(defs)
	if sealed {
		r.mu.Lock()
		if r.sealed {
			r.tools = text
		}
		r.mu.Unlock()
	}
	return text
}

func renderTools(defs []schema.ToolDefinition) string {
	var b strings.Builder
	b.WriteString("Available tools:\n")
	if len(defs) == 0 {
		b.WriteString("(none)\n")
	}
	for _, def := range defs {
		b.WriteString("\n")
		b.WriteString(def.Name)
		if desc := strings.TrimSpace(def.Description); desc != "" {
			b.WriteString(": ")
			b.WriteString(desc)
		}
		b.WriteString("\n")
		if len(def.Parameters) == 0 {
			b.WriteString("  (no parameters)\n")
		}
		for _, p := range def.Parameters {
			required := "optional"
			if p.Required {
				required = "required"
			}
			typ := p.Type
			if typ == "" {
				typ = "any"
			}
			fmt.Fprintf(&b, "  - %s (%s, %s)", p.Name, typ, required)
			if desc := strings.TrimSpace(p.Description); desc != "" {
				b.WriteString(": ")
				b.WriteString(desc)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
