package mistral

import (
	"strings"

	// Packages
	schema "github.com/mutablelogic/go-travel-agent/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TURN → MISTRAL MESSAGES

// mistralMessagesFromTurn converts a turn to Mistral message format. System
// messages are kept, since Mistral handles them natively in the messages
// array.
func mistralMessagesFromTurn(turn schema.Turn) []mistralMessage {
	messages := make([]mistralMessage, 0, len(turn))
	for _, message := range turn {
		role := message.Role
		if role != schema.RoleSystem && role != schema.RoleAssistant {
			role = schema.RoleUser
		}
		messages = append(messages, mistralMessage{Role: role, Content: message.Content})
	}
	return messages
}

///////////////////////////////////////////////////////////////////////////////
// MISTRAL RESPONSE → TEXT

// textFromContent returns the text of a response message, which is either a
// string or an array of typed parts of which only text parts are kept
func textFromContent(content any) string {
	switch content := content.(type) {
	case string:
		return content
	case []any:
		var sb strings.Builder
		for _, part := range content {
			if part, ok := part.(map[string]any); ok && part["type"] == "text" {
				if text, ok := part["text"].(string); ok {
					sb.WriteString(text)
				}
			}
		}
		return sb.String()
	}
	return ""
}
