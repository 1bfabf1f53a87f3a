// Package assistant runs the conversation loop: user turns go to the model,
// tool calls in the reply are dispatched, and follow-up prompts from the
// tools feed back into the model until a turn produces no more work.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"dashy/internal/actions"
	"dashy/internal/interpret"
	"dashy/internal/logging"
	"dashy/internal/model"
	"dashy/internal/speech"
)

// voiceQueryModel handles the audio-carrying call of a voice query
// regardless of the configured model; it is the only one validated for
// audio transcription.
const voiceQueryModel = "gemini-2.5-flash"

// maxFollowUpDepth caps tool-driven recursion within a single user turn.
// Tool follow-ups normally settle after one or two rounds; past this the
// model is stuck in a loop.
const maxFollowUpDepth = 8

// truncationNotice is appended when a turn hits maxFollowUpDepth.
const truncationNotice = "I had to stop there, that request kept chaining into more work. Anything else?"

// genericFailureText mirrors what the user sees when the model call fails
// for a reason other than quota or a missing model.
const genericFailureText = "Sorry, I'm having a little trouble thinking right now."

// User-facing error banners.
const (
	quotaErrorText       = "API Rate Limit Exceeded"
	unavailableErrorText = "The selected AI model is not available. Please choose a different model in Settings."
)

// ErrTurnInFlight is returned by Submit while a previous turn is still
// being processed.
var ErrTurnInFlight = errors.New("a turn is already in flight")

// Engine drives the conversation. All dependencies are injected; the engine
// owns only the history and the error banner.
type Engine struct {
	backend    model.Backend
	interp     *interpret.Interpreter
	dispatcher *actions.Dispatcher
	narrator   speech.Synthesizer

	mu        sync.Mutex
	modelName string
	turns     []Turn
	busy      bool
	apiError  string
}

// NewEngine creates an engine with a greeting already in the history.
func NewEngine(backend model.Backend, dispatcher *actions.Dispatcher, narrator speech.Synthesizer, modelName string) *Engine {
	if narrator == nil {
		narrator = speech.Noop{}
	}
	if modelName == "" {
		modelName = voiceQueryModel
	}
	return &Engine{
		backend:    backend,
		interp:     interpret.NewInterpreter(),
		dispatcher: dispatcher,
		narrator:   narrator,
		modelName:  modelName,
		turns:      []Turn{newTurn(RoleModel, Greeting)},
	}
}

// Submit runs one typed user query through the loop and returns the text of
// the final model turn.
func (e *Engine) Submit(ctx context.Context, text string) (string, error) {
	return e.submit(ctx, newTurn(RoleUser, text), nil)
}

// SubmitVoice runs a recorded query. The transcript placeholder becomes the
// visible user turn and the terminal reply is narrated.
func (e *Engine) SubmitVoice(ctx context.Context, audio *model.Audio) (string, error) {
	turn := newTurn(RoleUser, "(Voice message)")
	turn.Voice = true
	return e.submit(ctx, turn, audio)
}

func (e *Engine) submit(ctx context.Context, userTurn Turn, audio *model.Audio) (string, error) {
	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return "", ErrTurnInFlight
	}
	e.busy = true
	e.apiError = ""
	e.turns = append(e.turns, userTurn)
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.busy = false
		e.mu.Unlock()
	}()

	return e.loop(ctx, userTurn.Voice, audio)
}

// loop is the recursive heart of the engine, written iteratively: each
// round sends the history, applies tool calls, and goes again while the
// tools produced follow-up prompts.
func (e *Engine) loop(ctx context.Context, voice bool, audio *model.Audio) (string, error) {
	timer := logging.StartTimer(logging.CategoryEngine, "turn")
	defer timer.Stop()

	for depth := 0; ; depth++ {
		// Only the call that carries the audio goes to the voice model;
		// follow-up rounds use the configured model.
		modelName := e.ModelName()
		if audio != nil {
			modelName = voiceQueryModel
		}

		raw, err := e.backend.Converse(ctx, e.modelHistory(), modelName, audio)
		audio = nil
		if err != nil {
			return e.handleModelError(ctx, voice, err)
		}

		reply := e.interp.Interpret(raw)
		logging.Engine("Model reply: method=%s lang=%s calls=%d", reply.ParseMethod, reply.Language, len(reply.ToolCalls))
		e.appendTurn(newTurn(RoleModel, reply.DisplayText))

		followUps := e.runToolCalls(ctx, reply)

		if len(followUps) == 0 {
			e.narrate(ctx, voice, reply.DisplayText, reply.Language)
			return reply.DisplayText, nil
		}

		if depth+1 >= maxFollowUpDepth {
			logging.EngineWarn("Follow-up depth %d reached, truncating turn", maxFollowUpDepth)
			e.appendTurn(newTurn(RoleModel, truncationNotice))
			e.narrate(ctx, voice, truncationNotice, reply.Language)
			return truncationNotice, nil
		}

		for _, prompt := range followUps {
			t := newTurn(RoleUser, prompt)
			t.Synthetic = true
			e.appendTurn(t)
		}
	}
}

// runToolCalls dispatches the reply's tool calls in order and collects their
// follow-up prompts. A failing action is logged and skipped; the rest of the
// calls still run.
func (e *Engine) runToolCalls(ctx context.Context, reply interpret.Reply) []string {
	var followUps []string
	for _, call := range reply.ToolCalls {
		out, err := e.dispatcher.Dispatch(ctx, actions.Request{Name: call.Name, Args: call.Args}, reply.Language)
		if err != nil {
			logging.EngineError("Action %s failed: %v", call.Name, err)
			continue
		}
		logging.Engine("Action result: %s", out.LogMessage)
		if out.FollowUpPrompt != "" {
			followUps = append(followUps, out.FollowUpPrompt)
		}
	}
	return followUps
}

// handleModelError maps backend failures to the original UX: quota and
// missing-model failures raise a dismissable error banner with no model
// turn; anything else becomes an apologetic reply and the turn ends.
func (e *Engine) handleModelError(ctx context.Context, voice bool, err error) (string, error) {
	switch {
	case errors.Is(err, model.ErrQuotaExceeded):
		e.setAPIError(quotaErrorText)
		return "", err
	case errors.Is(err, model.ErrModelUnavailable):
		e.setAPIError(unavailableErrorText)
		return "", err
	default:
		logging.EngineError("Model call failed: %v", err)
		e.appendTurn(newTurn(RoleModel, genericFailureText))
		e.narrate(ctx, voice, genericFailureText, interpret.LangEnglish)
		return genericFailureText, nil
	}
}

func (e *Engine) narrate(ctx context.Context, voice bool, text string, lang interpret.Language) {
	if !voice {
		return
	}
	if err := e.narrator.Speak(ctx, text, lang); err != nil {
		logging.EngineWarn("Narration failed: %v", err)
	}
}

// History returns a copy of the conversation so far.
func (e *Engine) History() []Turn {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Turn, len(e.turns))
	copy(out, e.turns)
	return out
}

// Busy reports whether a turn is currently being processed.
func (e *Engine) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busy
}

// APIError returns the current error banner, or "" when there is none.
func (e *Engine) APIError() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.apiError
}

func (e *Engine) setAPIError(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.apiError = text
}

// DismissError clears the error banner.
func (e *Engine) DismissError() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.apiError = ""
}

// ModelName returns the model used for typed queries.
func (e *Engine) ModelName() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.modelName
}

// SetModel changes the model used for typed queries. Safe to call while a
// turn is in flight; the change applies from the next model call.
func (e *Engine) SetModel(name string) {
	if name == "" {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.modelName = name
	logging.Engine("Model switched to %s", name)
}

// Reset drops the history back to the initial greeting.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.busy {
		return fmt.Errorf("cannot reset: %w", ErrTurnInFlight)
	}
	e.turns = []Turn{newTurn(RoleModel, Greeting)}
	e.apiError = ""
	return nil
}

func (e *Engine) appendTurn(t Turn) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.turns = append(e.turns, t)
}

// modelHistory converts the history to the wire shape.
func (e *Engine) modelHistory() []model.Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Message, 0, len(e.turns))
	for _, t := range e.turns {
		role := model.RoleUser
		if t.Role == RoleModel {
			role = model.RoleModel
		}
		out = append(out, model.Message{Role: role, Text: t.Text})
	}
	return out
}
