// Package store holds the shared application state the assistant's actions
// read and mutate: the todo list, the mailbox, the dashboard widget layout,
// and the smart-home device flags.
//
// Two implementations are provided:
//   - Memory*: process-local state, used by tests and ephemeral sessions
//   - LocalStore: SQLite-backed persistence for todos and emails
//
// Stores are handed to the action dispatcher at startup; handlers never reach
// for package-level state. Mutations are synchronous: when a method returns,
// the change is visible to the next caller. No cross-call transactional
// isolation is provided - dispatch is sequential within a conversation turn,
// and turns do not overlap.
package store

import "time"

// Todo is a single to-do list entry.
type Todo struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Content   string    `json:"content"`
	Done      bool      `json:"done"`
}

// Email is a single mailbox entry.
type Email struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Sender    string    `json:"sender"`
	Subject   string    `json:"subject"`
	Snippet   string    `json:"snippet"`
	Read      bool      `json:"read"`
}

// Widget identifies one of the four built-in dashboard widgets.
type Widget string

const (
	WidgetClock   Widget = "clock"
	WidgetWeather Widget = "weather"
	WidgetMail    Widget = "mail"
	WidgetTodo    Widget = "todo"
)

// KnownWidget reports whether name is one of the built-in widgets.
func KnownWidget(name string) bool {
	switch Widget(name) {
	case WidgetClock, WidgetWeather, WidgetMail, WidgetTodo:
		return true
	}
	return false
}

// Slot identifies a position in the dashboard grid.
type Slot string

const (
	SlotA1 Slot = "a1"
	SlotA2 Slot = "a2"
	SlotA3 Slot = "a3"
	SlotB1 Slot = "b1"
)

// CustomWidgetType distinguishes the two user-creatable widget kinds.
type CustomWidgetType string

const (
	CustomWidgetGemini    CustomWidgetType = "gemini"
	CustomWidgetSmartHome CustomWidgetType = "smarthome"
)

// CustomWidget is a user-created dashboard widget.
type CustomWidget struct {
	Type  CustomWidgetType `json:"type"`
	Title string           `json:"title"`
	// Prompt is set for gemini-type widgets.
	Prompt string `json:"prompt,omitempty"`
	// Device is set for smarthome-type widgets ("light" or "speaker").
	Device string `json:"device,omitempty"`
}

// TodoBackend provides todo list state.
type TodoBackend interface {
	// Todos returns all entries in creation order.
	Todos() []Todo
	// AddTodo appends a new incomplete entry and returns it.
	AddTodo(content string) Todo
	// SetTodoDone updates the done flag; returns false if the id is unknown.
	SetTodoDone(id int64, done bool) bool
	// RemoveTodo deletes an entry; returns false if the id is unknown.
	RemoveTodo(id int64) bool
}

// MailBackend provides mailbox state.
type MailBackend interface {
	// Emails returns all entries in creation order.
	Emails() []Email
	// MarkEmailRead sets the read flag; returns false if the id is unknown.
	MarkEmailRead(id int64) bool
	// RemoveEmail deletes an entry; returns false if the id is unknown.
	RemoveEmail(id int64) bool
}

// WidgetBackend provides dashboard layout and styling state.
type WidgetBackend interface {
	// Grid returns the current slot assignment.
	Grid() map[Slot]Widget
	// SwapWidgets exchanges the slots holding a and b.
	// Returns false if either widget is not currently placed.
	SwapWidgets(a, b Widget) bool
	// Styles returns the style overrides for a widget (may be empty).
	Styles(w Widget) map[string]string
	// ApplyStyles merges the given CSS properties into a widget's overrides.
	ApplyStyles(w Widget, props map[string]string)
	// ResetStyles clears all style overrides.
	ResetStyles()
	// CustomWidgets returns the user-created widgets in creation order.
	CustomWidgets() []CustomWidget
	// AddCustomWidget appends a custom widget config.
	AddCustomWidget(cw CustomWidget)
	// RemoveCustomWidget deletes by exact title; returns false if absent.
	RemoveCustomWidget(title string) bool
}

// DeviceBackend provides the two smart-home device flags.
type DeviceBackend interface {
	// LightOn reports the overhead light state.
	LightOn() bool
	// SetLight switches the overhead light.
	SetLight(on bool)
	// SpeakerPlaying reports the kitchen speaker state.
	SpeakerPlaying() bool
	// SetSpeaker switches the kitchen speaker.
	SetSpeaker(playing bool)
}
