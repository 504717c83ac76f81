// Package extract recovers a tool call from free-form model output.
//
// Model output may wrap the JSON in formatting fences, include control
// characters, or surround it with prose. Candidates are balanced objects
// ordered from the rightmost closing brace; the first candidate which parses
// and carries a non-empty "tool" field wins.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"

	// Packages
	jsonrepair "github.com/kaptinlin/jsonrepair"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

var (
	// Formatting fences and chat-template markers
	fences = []string{
		"```json", "```JSON", "```javascript", "```",
		"<tool_call>", "</tool_call>",
		"<json>", "</json>",
	}

	// Special tokens such as <|eot_id|> or <|im_end|>
	reSpecialToken = regexp.MustCompile(`<\|[^|>]{1,32}\|>`)
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Clean strips fence markers, special tokens and control characters other
// than newlines and tabs, and trims surrounding whitespace
func Clean(raw string) string {
	text := reSpecialToken.ReplaceAllString(raw, "")
	for _, fence := range fences {
		text = strings.ReplaceAll(text, fence, "")
	}
	text = strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return r
		case unicode.IsControl(r), r == '\u200b', r == '\ufeff':
			return -1
		}
		return r
	}, text)
	return strings.TrimSpace(text)
}

// Extract returns the JSON text of the tool call in raw, or false if the
// text contains no balanced object with a non-empty "tool" field
func Extract(raw string) (string, bool) {
	text := Clean(raw)
	candidates := Candidates(text)

	// Strict pass: candidate parses as it stands
	for _, candidate := range candidates {
		if hasTool([]byte(candidate)) {
			return candidate, true
		}
	}

	// Lenient pass: repair single quotes, trailing commas and similar
	for _, candidate := range candidates {
		if !strings.Contains(candidate, "tool") {
			continue
		}
		repaired, err := jsonrepair.JSONRepair(candidate)
		if err != nil {
			continue
		}
		if hasTool([]byte(repaired)) {
			return repaired, true
		}
	}

	// No tool call
	return "", false
}

// Candidates returns every balanced {...} substring of text, ordered from
// the rightmost closing brace inwards. An opening brace pairs with the
// closing brace found by a forward scan which skips string literals, so
// braces in values such as "{placeholder}" and stray quotes in the prose
// before the object do not affect the balance. A second scan counting every
// brace follows, for objects whose own quotes do not pair up.
func Candidates(text string) []string {
	seen := make(map[string]bool)
	result := scanStrings(text, seen, nil)
	return scan(text, seen, result)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// scanStrings appends candidates whose braces balance outside string literals
func scanStrings(text string, seen map[string]bool, result []string) []string {
	closing := make(map[int][]int)
	for start := len(text) - 1; start >= 0; start-- {
		if text[start] != '{' {
			continue
		}
		if end := closingBrace(text, start); end >= 0 {
			closing[end] = append(closing[end], start)
		}
	}
	for end := len(text) - 1; end >= 0; end-- {
		for _, start := range closing[end] {
			result = appendCandidate(result, seen, text[start:end+1])
		}
	}
	return result
}

// scan appends candidates whose braces balance when every brace is counted
func scan(text string, seen map[string]bool, result []string) []string {
	for end := len(text) - 1; end >= 0; end-- {
		if text[end] != '}' {
			continue
		}
		depth := 0
		for start := end; start >= 0; start-- {
			switch text[start] {
			case '}':
				depth++
			case '{':
				depth--
			}
			if depth == 0 {
				result = appendCandidate(result, seen, text[start:end+1])
				break
			}
		}
	}
	return result
}

// closingBrace returns the index of the brace which closes the object
// opened at start, or -1 if the object is not closed
func closingBrace(text string, start int) int {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case inString:
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
		case c == '"':
			inString = true
		case c == '{':
			depth++
		case c == '}':
			if depth--; depth == 0 {
				return i
			}
		}
	}
	return -1
}

func appendCandidate(result []string, seen map[string]bool, candidate string) []string {
	if seen[candidate] {
		return result
	}
	seen[candidate] = true
	return append(result, candidate)
}

// hasTool returns true if data is a JSON object with a non-empty string
// "tool" field
func hasTool(data []byte) bool {
	var v struct {
		Tool any `json:"tool"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return false
	}
	name, ok := v.Tool.(string)
	return ok && strings.TrimSpace(name) != ""
}
