package store

import (
	"sync"
	"time"

	"dashy/internal/logging"
)

// Memory is the in-process implementation of all four backends.
// Safe for concurrent use; every method takes the store lock.
type Memory struct {
	mu sync.RWMutex

	todos      []Todo
	nextTodoID int64

	emails      []Email
	nextEmailID int64

	grid    map[Slot]Widget
	styles  map[Widget]map[string]string
	customs []CustomWidget

	lightOn        bool
	speakerPlaying bool
}

// NewMemory returns an empty in-memory store with the default dashboard
// layout and both devices switched on.
func NewMemory() *Memory {
	return &Memory{
		nextTodoID:  1,
		nextEmailID: 1,
		grid: map[Slot]Widget{
			SlotA1: WidgetClock,
			SlotA2: WidgetWeather,
			SlotA3: WidgetMail,
			SlotB1: WidgetTodo,
		},
		styles:         make(map[Widget]map[string]string),
		lightOn:        true,
		speakerPlaying: true,
	}
}

// --- TodoBackend --------------------------------------------------------

func (m *Memory) Todos() []Todo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Todo, len(m.todos))
	copy(out, m.todos)
	return out
}

func (m *Memory) AddTodo(content string) Todo {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := Todo{
		ID:        m.nextTodoID,
		CreatedAt: time.Now(),
		Content:   content,
	}
	m.nextTodoID++
	m.todos = append(m.todos, t)
	logging.StoreDebug("todo added id=%d content=%q", t.ID, t.Content)
	return t
}

func (m *Memory) SetTodoDone(id int64, done bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.todos {
		if m.todos[i].ID == id {
			m.todos[i].Done = done
			logging.StoreDebug("todo id=%d done=%v", id, done)
			return true
		}
	}
	return false
}

func (m *Memory) RemoveTodo(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.todos {
		if m.todos[i].ID == id {
			m.todos = append(m.todos[:i], m.todos[i+1:]...)
			logging.StoreDebug("todo removed id=%d", id)
			return true
		}
	}
	return false
}

// --- MailBackend --------------------------------------------------------

func (m *Memory) Emails() []Email {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Email, len(m.emails))
	copy(out, m.emails)
	return out
}

// AddEmail appends a mailbox entry. Used by seeding and tests.
func (m *Memory) AddEmail(sender, subject, snippet string) Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := Email{
		ID:        m.nextEmailID,
		CreatedAt: time.Now(),
		Sender:    sender,
		Subject:   subject,
		Snippet:   snippet,
	}
	m.nextEmailID++
	m.emails = append(m.emails, e)
	return e
}

func (m *Memory) MarkEmailRead(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.emails {
		if m.emails[i].ID == id {
			m.emails[i].Read = true
			logging.StoreDebug("email marked read id=%d", id)
			return true
		}
	}
	return false
}

func (m *Memory) RemoveEmail(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.emails {
		if m.emails[i].ID == id {
			m.emails = append(m.emails[:i], m.emails[i+1:]...)
			logging.StoreDebug("email removed id=%d", id)
			return true
		}
	}
	return false
}

// --- WidgetBackend ------------------------------------------------------

func (m *Memory) Grid() map[Slot]Widget {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[Slot]Widget, len(m.grid))
	for k, v := range m.grid {
		out[k] = v
	}
	return out
}

func (m *Memory) SwapWidgets(a, b Widget) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	var slotA, slotB Slot
	for slot, w := range m.grid {
		if w == a {
			slotA = slot
		}
		if w == b {
			slotB = slot
		}
	}
	if slotA == "" || slotB == "" {
		return false
	}
	m.grid[slotA], m.grid[slotB] = m.grid[slotB], m.grid[slotA]
	logging.StoreDebug("widgets swapped %s<->%s", a, b)
	return true
}

func (m *Memory) Styles(w Widget) map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.styles[w]))
	for k, v := range m.styles[w] {
		out[k] = v
	}
	return out
}

func (m *Memory) ApplyStyles(w Widget, props map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.styles[w] == nil {
		m.styles[w] = make(map[string]string, len(props))
	}
	for k, v := range props {
		m.styles[w][k] = v
	}
	logging.StoreDebug("styles applied widget=%s props=%d", w, len(props))
}

func (m *Memory) ResetStyles() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.styles = make(map[Widget]map[string]string)
	logging.StoreDebug("styles reset")
}

func (m *Memory) CustomWidgets() []CustomWidget {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]CustomWidget, len(m.customs))
	copy(out, m.customs)
	return out
}

func (m *Memory) AddCustomWidget(cw CustomWidget) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customs = append(m.customs, cw)
	logging.StoreDebug("custom widget added title=%q type=%s", cw.Title, cw.Type)
}

func (m *Memory) RemoveCustomWidget(title string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.customs {
		if m.customs[i].Title == title {
			m.customs = append(m.customs[:i], m.customs[i+1:]...)
			logging.StoreDebug("custom widget removed title=%q", title)
			return true
		}
	}
	return false
}

// --- DeviceBackend ------------------------------------------------------

func (m *Memory) LightOn() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lightOn
}

func (m *Memory) SetLight(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lightOn = on
	logging.StoreDebug("light on=%v", on)
}

func (m *Memory) SpeakerPlaying() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.speakerPlaying
}

func (m *Memory) SetSpeaker(playing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.speakerPlaying = playing
	logging.StoreDebug("speaker playing=%v", playing)
}
