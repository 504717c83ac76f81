package normalize

import (
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// The calendar assumed when none is named
	DefaultCalendarId = "primary"
)

var (
	// Objects the model wraps around the event fields
	wrappers = []string{"event", "eventDetails", "event_details", "details", "params", "arguments"}

	// Values copied from documentation examples instead of a real identifier
	placeholders = map[string]bool{
		"":                 true,
		"calendar_id":      true,
		"calendarid":       true,
		"your_calendar_id": true,
		"primary_calendar": true,
		"default":          true,
	}

	// Preference order when a timestamp is given as an object
	timeFields = []string{"dateTime", "date_time", "datetime", "date", "value"}

	// Calendar tools by the shape of their arguments
	eventTools = []string{"create-event", "update-event"}
	rangeTools = []string{"list-events", "search-events", "get-freebusy"}
	idTools    = []string{"delete-event", "get-event"}
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// Default returns a normalizer with the calendar tool rules
func Default() *Normalizer {
	return New(
		WithRules([]Rule{Unwrap(wrappers...), DefaultCalendar(DefaultCalendarId), CoerceTime("start", "end"), SummaryFromTitle}, eventTools...),
		WithRules([]Rule{Unwrap(wrappers...), DefaultCalendar(DefaultCalendarId), CoerceTime("timeMin", "timeMax")}, rangeTools...),
		WithRules([]Rule{Unwrap(wrappers...), DefaultCalendar(DefaultCalendarId)}, idTools...),
	)
}

///////////////////////////////////////////////////////////////////////////////
// RULES

// Unwrap collapses nested objects under any of the keys into the top level.
// Values in the nested object replace top-level values of the same name.
func Unwrap(keys ...string) Rule {
	return func(args map[string]any) {
		for _, key := range keys {
			nested, ok := args[key].(map[string]any)
			if !ok {
				continue
			}
			delete(args, key)
			for k, v := range nested {
				args[k] = v
			}
		}
	}
}

// DefaultCalendar sets calendarId when it is missing, not a string, or a
// placeholder such as "your_calendar_id" or "<calendarId>"
func DefaultCalendar(id string) Rule {
	return func(args map[string]any) {
		if isPlaceholder(args["calendarId"]) {
			args["calendarId"] = id
		}
	}
}

// CoerceTime replaces a timestamp given as an object, such as
// {"dateTime": "...", "timeZone": "..."}, with its string value. A precise
// time is preferred over a date. Objects with no recognised field are left
// unchanged.
func CoerceTime(fields ...string) Rule {
	return func(args map[string]any) {
		for _, field := range fields {
			obj, ok := args[field].(map[string]any)
			if !ok {
				continue
			}
			for _, key := range timeFields {
				if value, ok := obj[key].(string); ok && strings.TrimSpace(value) != "" {
					args[field] = strings.TrimSpace(value)
					break
				}
			}
		}
	}
}

// SummaryFromTitle copies title into summary when summary is missing
func SummaryFromTitle(args map[string]any) {
	if summary, ok := args["summary"].(string); ok && summary != "" {
		return
	}
	if title, ok := args["title"].(string); ok && title != "" {
		args["summary"] = title
		delete(args, "title")
	}
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func isPlaceholder(v any) bool {
	str, ok := v.(string)
	if !ok {
		return true
	}
	str = strings.ToLower(strings.TrimSpace(str))
	str = strings.TrimSuffix(strings.TrimPrefix(str, "<"), ">")
	return placeholders[str]
}
