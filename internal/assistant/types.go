package assistant

import (
	"github.com/google/uuid"
)

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one entry in the conversation history.
type Turn struct {
	ID   string
	Role Role
	Text string

	// Voice marks a user turn that arrived as a recording.
	Voice bool

	// Synthetic marks a user turn injected by the tool loop rather than
	// typed by the user. The UI renders these dimmed.
	Synthetic bool
}

func newTurn(role Role, text string) Turn {
	return Turn{ID: uuid.NewString(), Role: role, Text: text}
}

// Greeting is the canned model turn every fresh conversation starts with.
const Greeting = "Hi! I'm Dashy. How can I help you today?"
