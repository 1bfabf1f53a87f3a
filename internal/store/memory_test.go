package store

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMemoryTodoLifecycle(t *testing.T) {
	m := NewMemory()

	a := m.AddTodo("Water the plants")
	b := m.AddTodo("Buy milk")

	if a.ID == b.ID {
		t.Fatalf("expected distinct ids, got %d and %d", a.ID, b.ID)
	}
	if got := len(m.Todos()); got != 2 {
		t.Fatalf("expected 2 todos, got %d", got)
	}

	if !m.SetTodoDone(a.ID, true) {
		t.Fatal("SetTodoDone returned false for existing todo")
	}
	todos := m.Todos()
	if !todos[0].Done {
		t.Error("first todo should be marked done")
	}
	if todos[1].Done {
		t.Error("second todo should not be marked done")
	}

	if !m.RemoveTodo(b.ID) {
		t.Fatal("RemoveTodo returned false for existing todo")
	}
	if got := len(m.Todos()); got != 1 {
		t.Fatalf("expected 1 todo after removal, got %d", got)
	}
	if m.RemoveTodo(999) {
		t.Error("RemoveTodo should return false for unknown id")
	}
	if m.SetTodoDone(999, true) {
		t.Error("SetTodoDone should return false for unknown id")
	}
}

func TestMemoryMailLifecycle(t *testing.T) {
	m := NewMemory()

	e1 := m.AddEmail("alice@example.com", "Hello", "Hi there")
	e2 := m.AddEmail("bob@example.com", "Report", "Attached")

	emails := m.Emails()
	if len(emails) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(emails))
	}
	if emails[0].Read || emails[1].Read {
		t.Error("new emails should be unread")
	}

	if !m.MarkEmailRead(e1.ID) {
		t.Fatal("MarkEmailRead returned false for existing email")
	}
	if !m.Emails()[0].Read {
		t.Error("email should be marked read")
	}

	if !m.RemoveEmail(e2.ID) {
		t.Fatal("RemoveEmail returned false for existing email")
	}
	if got := len(m.Emails()); got != 1 {
		t.Fatalf("expected 1 email after removal, got %d", got)
	}
	if m.MarkEmailRead(999) {
		t.Error("MarkEmailRead should return false for unknown id")
	}
}

func TestMemoryDefaultGrid(t *testing.T) {
	m := NewMemory()

	want := map[Slot]Widget{
		SlotA1: WidgetClock,
		SlotA2: WidgetWeather,
		SlotA3: WidgetMail,
		SlotB1: WidgetTodo,
	}
	if diff := cmp.Diff(want, m.Grid()); diff != "" {
		t.Errorf("default grid mismatch (-want +got):\n%s", diff)
	}
}

func TestMemorySwapWidgets(t *testing.T) {
	m := NewMemory()

	if !m.SwapWidgets(WidgetClock, WidgetTodo) {
		t.Fatal("SwapWidgets returned false for two placed widgets")
	}
	grid := m.Grid()
	if grid[SlotA1] != WidgetTodo || grid[SlotB1] != WidgetClock {
		t.Errorf("swap not applied: a1=%s b1=%s", grid[SlotA1], grid[SlotB1])
	}

	if m.SwapWidgets(WidgetClock, Widget("calendar")) {
		t.Error("SwapWidgets should return false when a widget is not placed")
	}
}

func TestMemoryStyles(t *testing.T) {
	m := NewMemory()

	m.ApplyStyles(WidgetClock, map[string]string{"color": "red"})
	m.ApplyStyles(WidgetClock, map[string]string{"fontSize": "2rem"})

	got := m.Styles(WidgetClock)
	want := map[string]string{"color": "red", "fontSize": "2rem"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("styles mismatch (-want +got):\n%s", diff)
	}

	// Returned map is a copy; mutating it must not affect the store.
	got["color"] = "blue"
	if m.Styles(WidgetClock)["color"] != "red" {
		t.Error("Styles should return a copy")
	}

	m.ResetStyles()
	if len(m.Styles(WidgetClock)) != 0 {
		t.Error("ResetStyles should clear all widget styles")
	}
}

func TestMemoryCustomWidgets(t *testing.T) {
	m := NewMemory()

	m.AddCustomWidget(CustomWidget{Type: CustomWidgetGemini, Title: "Haiku", Prompt: "Write a haiku"})
	m.AddCustomWidget(CustomWidget{Type: CustomWidgetSmartHome, Title: "Lamp", Device: "light"})

	if got := len(m.CustomWidgets()); got != 2 {
		t.Fatalf("expected 2 custom widgets, got %d", got)
	}
	if !m.RemoveCustomWidget("Haiku") {
		t.Fatal("RemoveCustomWidget returned false for existing widget")
	}
	if m.RemoveCustomWidget("Haiku") {
		t.Error("RemoveCustomWidget should return false once removed")
	}
	if got := len(m.CustomWidgets()); got != 1 {
		t.Fatalf("expected 1 custom widget, got %d", got)
	}
}

func TestMemoryDeviceDefaults(t *testing.T) {
	m := NewMemory()

	if !m.LightOn() {
		t.Error("light should default to on")
	}
	if !m.SpeakerPlaying() {
		t.Error("speaker should default to playing")
	}

	m.SetLight(false)
	m.SetSpeaker(false)
	if m.LightOn() || m.SpeakerPlaying() {
		t.Error("device state should reflect last set value")
	}
}

func TestSeedDemoIdempotent(t *testing.T) {
	m := NewMemory()

	SeedDemo(m)
	emails, todos := len(m.Emails()), len(m.Todos())
	if emails == 0 || todos == 0 {
		t.Fatal("SeedDemo should populate both mailbox and todos")
	}

	SeedDemo(m)
	if len(m.Emails()) != emails || len(m.Todos()) != todos {
		t.Error("SeedDemo should not re-seed a populated store")
	}
}
