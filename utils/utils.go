package utils

import (
	"encoding/json"
	"strings"
)

func AssertInvariant(condition bool, message string) {
	if !condition {
		panic("invariant violated - " + message)
	}
}

// SerializeContext renders a free-form context value as an indented JSON
// block suitable for embedding into a prompt. Returns "" when there is no
// context or it cannot be serialized.
func SerializeContext(context any) string {
	if context == nil {
		return ""
	}

	serialized, err := json.MarshalIndent(context, "", "  ")
	if err != nil {
		return ""
	}
	return string(serialized)
}

// TrimCompletion strips the surrounding whitespace models tend to wrap
// their output in, before any parsing is attempted.
func TrimCompletion(text string) string {
	return strings.TrimSpace(text)
}
