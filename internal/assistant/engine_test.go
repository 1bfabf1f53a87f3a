package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"go.uber.org/goleak"

	"dashy/internal/actions"
	"dashy/internal/interpret"
	"dashy/internal/model"
	"dashy/internal/store"
)

func TestMain(m *testing.M) {
	// opencensus (pulled in by the genai SDK) starts a worker goroutine in
	// an init that never stops.
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

// convCall records one Converse invocation.
type convCall struct {
	history   []model.Message
	modelName string
	hasAudio  bool
}

// scriptedBackend replays canned replies in order. When the script runs out
// it answers with plain text, which terminates the loop.
type scriptedBackend struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   []convCall
	block   chan struct{}
	started sync.Once
	inCall  chan struct{}
}

func (b *scriptedBackend) Converse(ctx context.Context, history []model.Message, modelName string, audio *model.Audio) (string, error) {
	if b.block != nil {
		b.started.Do(func() {
			if b.inCall != nil {
				close(b.inCall)
			}
		})
		<-b.block
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	h := make([]model.Message, len(history))
	copy(h, history)
	b.calls = append(b.calls, convCall{history: h, modelName: modelName, hasAudio: audio != nil})

	if b.err != nil {
		return "", b.err
	}
	if len(b.replies) == 0 {
		return "Okay!", nil
	}
	reply := b.replies[0]
	b.replies = b.replies[1:]
	return reply, nil
}

func (b *scriptedBackend) GenerateText(ctx context.Context, prompt, modelName string) (string, error) {
	return "", nil
}

func (b *scriptedBackend) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

func (b *scriptedBackend) call(i int) convCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[i]
}

// recordingNarrator captures Speak invocations.
type recordingNarrator struct {
	mu    sync.Mutex
	texts []string
}

func (n *recordingNarrator) Speak(ctx context.Context, text string, lang interpret.Language) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.texts = append(n.texts, text)
	return nil
}

func newTestEngine(backend model.Backend) (*Engine, *store.Memory, *recordingNarrator) {
	m := store.NewMemory()
	d := actions.NewDispatcher(actions.Backends{Todos: m, Mail: m, Widgets: m, Devices: m})
	n := &recordingNarrator{}
	return NewEngine(backend, d, n, "gemini-2.5-pro"), m, n
}

func TestEngineStartsWithGreeting(t *testing.T) {
	e, _, _ := newTestEngine(&scriptedBackend{})

	h := e.History()
	if len(h) != 1 || h[0].Role != RoleModel || h[0].Text != Greeting {
		t.Fatalf("unexpected initial history: %+v", h)
	}
}

func TestSubmitPlainReply(t *testing.T) {
	b := &scriptedBackend{replies: []string{"Hello there!"}}
	e, _, n := newTestEngine(b)

	got, err := e.Submit(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if got != "Hello there!" {
		t.Errorf("final text = %q", got)
	}

	h := e.History()
	if len(h) != 3 {
		t.Fatalf("expected 3 turns, got %d: %+v", len(h), h)
	}
	if h[1].Role != RoleUser || h[1].Text != "hi" {
		t.Errorf("user turn = %+v", h[1])
	}
	if h[2].Role != RoleModel || h[2].Text != "Hello there!" {
		t.Errorf("model turn = %+v", h[2])
	}
	if len(n.texts) != 0 {
		t.Errorf("typed queries should not be narrated, got %v", n.texts)
	}
	if e.Busy() {
		t.Error("engine should be idle after the turn")
	}
}

func TestSubmitAppliesToolCalls(t *testing.T) {
	b := &scriptedBackend{replies: []string{
		`{"displayText": "Adding it!", "language": "en-US", "toolCalls": [{"name": "add_todo", "args": {"tasks": ["Buy milk"]}}]}`,
	}}
	e, m, _ := newTestEngine(b)

	if _, err := e.Submit(context.Background(), "add buy milk to my list"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	todos := m.Todos()
	if len(todos) != 1 || todos[0].Content != "Buy milk" {
		t.Fatalf("todo not applied: %+v", todos)
	}
	// add_todo has no follow-up prompt, so one model call suffices.
	if b.callCount() != 1 {
		t.Errorf("expected 1 model call, got %d", b.callCount())
	}
}

func TestSubmitContinuesAfterFailingAction(t *testing.T) {
	// The first call is missing its required tasks array. The turn keeps
	// going and the second call still applies.
	b := &scriptedBackend{replies: []string{
		`{"displayText": "On it.", "language": "en-US", "toolCalls": [{"name": "add_todo", "args": {}}, {"name": "add_todo", "args": {"tasks": ["Call mom"]}}]}`,
	}}
	e, m, _ := newTestEngine(b)

	got, err := e.Submit(context.Background(), "add call mom to my list")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if got != "On it." {
		t.Errorf("final text = %q", got)
	}

	todos := m.Todos()
	if len(todos) != 1 || todos[0].Content != "Call mom" {
		t.Fatalf("second action should still apply: %+v", todos)
	}
}

func TestSubmitFollowUpRecursion(t *testing.T) {
	b := &scriptedBackend{replies: []string{
		`{"displayText": "Let me check.", "language": "en-US", "toolCalls": [{"name": "read_todos", "args": {}}]}`,
		"You have one task: water the plants.",
	}}
	e, m, _ := newTestEngine(b)
	m.AddTodo("Water the plants")

	got, err := e.Submit(context.Background(), "what's on my list?")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if got != "You have one task: water the plants." {
		t.Errorf("final text = %q", got)
	}
	if b.callCount() != 2 {
		t.Fatalf("expected 2 model calls, got %d", b.callCount())
	}

	// The second call must end with the synthetic follow-up user turn.
	second := b.call(1)
	last := second.history[len(second.history)-1]
	if last.Role != model.RoleUser || !strings.Contains(last.Text, `"Water the plants"`) {
		t.Errorf("follow-up turn not sent to model: %+v", last)
	}

	h := e.History()
	var synthetic int
	for _, turn := range h {
		if turn.Synthetic {
			synthetic++
		}
	}
	if synthetic != 1 {
		t.Errorf("expected 1 synthetic turn, got %d: %+v", synthetic, h)
	}
}

func TestSubmitDepthCap(t *testing.T) {
	// Every reply asks to read an empty todo list, which always produces a
	// follow-up prompt. The loop must cut this off.
	loop := `{"displayText": "Checking...", "language": "en-US", "toolCalls": [{"name": "read_todos", "args": {}}]}`
	var replies []string
	for i := 0; i < maxFollowUpDepth*2; i++ {
		replies = append(replies, loop)
	}
	b := &scriptedBackend{replies: replies}
	e, _, _ := newTestEngine(b)

	got, err := e.Submit(context.Background(), "read my todos")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if got != truncationNotice {
		t.Errorf("final text = %q, want truncation notice", got)
	}
	if b.callCount() != maxFollowUpDepth {
		t.Errorf("expected %d model calls, got %d", maxFollowUpDepth, b.callCount())
	}
}

func TestSubmitQuotaError(t *testing.T) {
	b := &scriptedBackend{err: fmt.Errorf("%w: 429", model.ErrQuotaExceeded)}
	e, _, _ := newTestEngine(b)

	_, err := e.Submit(context.Background(), "hi")
	if !errors.Is(err, model.ErrQuotaExceeded) {
		t.Fatalf("expected quota error, got %v", err)
	}
	if e.APIError() != quotaErrorText {
		t.Errorf("APIError = %q", e.APIError())
	}
	// No model turn gets appended on a quota failure.
	if h := e.History(); len(h) != 2 {
		t.Errorf("expected greeting + user turn only, got %+v", h)
	}

	e.DismissError()
	if e.APIError() != "" {
		t.Error("DismissError should clear the banner")
	}
}

func TestSubmitModelUnavailable(t *testing.T) {
	b := &scriptedBackend{err: fmt.Errorf("%w: 404", model.ErrModelUnavailable)}
	e, _, _ := newTestEngine(b)

	_, err := e.Submit(context.Background(), "hi")
	if !errors.Is(err, model.ErrModelUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
	if e.APIError() != unavailableErrorText {
		t.Errorf("APIError = %q", e.APIError())
	}
}

func TestSubmitGenericFailure(t *testing.T) {
	b := &scriptedBackend{err: errors.New("connection reset")}
	e, _, _ := newTestEngine(b)

	got, err := e.Submit(context.Background(), "hi")
	if err != nil {
		t.Fatalf("generic failures should end the turn gracefully, got %v", err)
	}
	if got != genericFailureText {
		t.Errorf("final text = %q", got)
	}
	if e.APIError() != "" {
		t.Errorf("generic failures should not raise the banner, got %q", e.APIError())
	}
}

func TestSubmitSingleFlight(t *testing.T) {
	b := &scriptedBackend{block: make(chan struct{}), inCall: make(chan struct{})}
	e, _, _ := newTestEngine(b)

	done := make(chan struct{})
	go func() {
		defer close(done)
		e.Submit(context.Background(), "first") //nolint:errcheck
	}()

	// Wait for the first turn to reach the backend.
	<-b.inCall

	_, err := e.Submit(context.Background(), "second")
	if !errors.Is(err, ErrTurnInFlight) {
		t.Fatalf("expected ErrTurnInFlight, got %v", err)
	}

	close(b.block)
	<-done
}

func TestVoiceQueryUsesVoiceModelAndNarrates(t *testing.T) {
	b := &scriptedBackend{replies: []string{
		`{"displayText": "Checking the list.", "language": "en-US", "toolCalls": [{"name": "read_todos", "args": {}}]}`,
		"Your list is empty.",
	}}
	e, _, n := newTestEngine(b)
	e.SetModel("gemini-2.5-pro")

	got, err := e.SubmitVoice(context.Background(), &model.Audio{MIMEType: "audio/webm", Data: []byte{1}})
	if err != nil {
		t.Fatalf("SubmitVoice failed: %v", err)
	}

	first := b.call(0)
	if first.modelName != voiceQueryModel {
		t.Errorf("voice query used model %q, want %q", first.modelName, voiceQueryModel)
	}
	if !first.hasAudio {
		t.Error("audio should ride on the first model call")
	}
	second := b.call(1)
	if second.hasAudio {
		t.Error("audio must not repeat on follow-up calls")
	}
	if second.modelName != "gemini-2.5-pro" {
		t.Errorf("follow-up call used model %q, want the configured model", second.modelName)
	}

	// Only the terminal reply is spoken.
	if len(n.texts) != 1 || n.texts[0] != got {
		t.Errorf("narrated %v, want only %q", n.texts, got)
	}
}

func TestSetModelAppliesToTypedQueries(t *testing.T) {
	b := &scriptedBackend{replies: []string{"ok"}}
	e, _, _ := newTestEngine(b)
	e.SetModel("gemini-2.5-flash-lite")

	if _, err := e.Submit(context.Background(), "hi"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if got := b.call(0).modelName; got != "gemini-2.5-flash-lite" {
		t.Errorf("model = %q", got)
	}
}

func TestReset(t *testing.T) {
	b := &scriptedBackend{replies: []string{"Hello!"}}
	e, _, _ := newTestEngine(b)

	if _, err := e.Submit(context.Background(), "hi"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if err := e.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	h := e.History()
	if len(h) != 1 || h[0].Text != Greeting {
		t.Errorf("history after reset: %+v", h)
	}
}
