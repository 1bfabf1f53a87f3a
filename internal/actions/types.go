// Package actions implements the assistant's tool surface: the registry of
// named actions the model may call and the handlers that apply them to the
// dashboard state.
package actions

import (
	"context"
	"encoding/json"
	"fmt"

	"dashy/internal/interpret"
)

// Request is one tool invocation as extracted from a model reply.
type Request struct {
	Name string
	Args map[string]any
}

// Outcome is what an action reports back to the conversation loop.
// LogMessage is recorded for debugging; FollowUpPrompt, when non-empty, is
// fed back to the model as a synthetic user turn.
type Outcome struct {
	LogMessage     string
	FollowUpPrompt string
}

// Handler applies one action. Arguments arrive as the raw decoded JSON map;
// each handler decodes them into its own typed struct before doing anything.
type Handler func(ctx context.Context, args map[string]any, lang interpret.Language) (Outcome, error)

// Action is a named operation the model can request.
type Action struct {
	Name        string
	Description string
	Handle      Handler
}

// Validate checks that the action is well formed.
func (a *Action) Validate() error {
	if a.Name == "" {
		return ErrActionNameEmpty
	}
	if a.Handle == nil {
		return fmt.Errorf("%w: %s", ErrActionHandlerNil, a.Name)
	}
	return nil
}

// decodeArgs converts a raw argument map into a typed argument struct by
// round-tripping through JSON. Unknown keys are ignored, which matches how
// the model tends to embellish its tool calls.
func decodeArgs(args map[string]any, v any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	return nil
}
