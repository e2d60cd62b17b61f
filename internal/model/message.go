package model

import "time"

// Message roles. RoleSystem never originates from a transcript; it is
// synthesized by the relay when assembling the completion request.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one transcript entry. Messages are immutable once created and
// the transcript is append-only for the process lifetime; insertion order
// defines the conversation order sent to the completion service.
type Message struct {
	ID      int64
	Role    string
	Content string
	SentAt  time.Time
}

// WireRole maps a transcript role to the role sent to the completion
// service: the assistant's own prior replies go out as "assistant",
// everything else as "user".
func (m Message) WireRole() string {
	if m.Role == RoleAssistant {
		return RoleAssistant
	}
	return RoleUser
}
