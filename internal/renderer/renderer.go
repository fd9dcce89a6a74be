// Package renderer formats composed prompts for their destination:
// plain text for terminals and clipboards, or a chat-message JSON
// payload ready to post to an LLM API.
package renderer

import (
	"encoding/json"
	"fmt"
)

// Message is one entry of a chat-completion payload.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Text returns the prompt unchanged. It exists so callers can switch on
// an output format without special-casing the default.
func Text(prompt string) string {
	return prompt
}

// Messages renders the prompt as a single-user-message JSON array, the
// shape chat-completion APIs accept.
func Messages(prompt string) (string, error) {
	payload := []Message{
		{Role: "user", Content: prompt},
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal messages: %w", err)
	}
	return string(data), nil
}
