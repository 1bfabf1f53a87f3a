// Package model wraps the Gemini API behind a small conversational interface
// so the engine and tests never touch the SDK directly.
package model

import (
	"context"
	"errors"
)

// Roles of conversation messages as the Gemini API expects them.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is one turn of conversation history sent to the model.
type Message struct {
	Role string
	Text string
}

// Audio is a recorded voice query attached to the final user message.
type Audio struct {
	MIMEType string
	Data     []byte
}

// Backend produces one model reply for a conversation history.
type Backend interface {
	// Converse sends the history to the named model and returns the raw
	// text of the reply. A non-nil audio payload is attached to the last
	// user message for transcription.
	Converse(ctx context.Context, history []Message, modelName string, audio *Audio) (string, error)

	// GenerateText answers a single standalone prompt with plain text.
	// Custom dashboard widgets use this for their content.
	GenerateText(ctx context.Context, prompt, modelName string) (string, error)
}

// Errors the conversation loop distinguishes from ordinary failures.
var (
	// ErrQuotaExceeded means the API rate limit or quota was hit.
	ErrQuotaExceeded = errors.New("api quota exceeded")

	// ErrModelUnavailable means the selected model does not exist or is
	// not accessible with the current key.
	ErrModelUnavailable = errors.New("model unavailable")
)
