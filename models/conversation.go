package models

// Conversation roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationTurn is one entry in an ordered, append-only conversation.
// Turns are never removed or reordered within a run.
type ConversationTurn struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"` // base64-encoded, attached to user turns
}

// ConversationRequest is the boundary input for one extraction run. The
// message sequence is exclusively owned by that run - it is never shared
// with or mutated by another concurrent run.
type ConversationRequest struct {
	Messages    []ConversationTurn `json:"messages"`
	MaxAttempts int                `json:"max_attempts"`
}
