// Package chat provides the interactive TUI for talking to Dashy.
// The chat functionality is split across three files:
//   - model.go: Types, Init, Update loop (this file)
//   - commands.go: /command handling
//   - view.go: Rendering functions
package chat

import (
	"context"
	"strings"

	"dashy/cmd/dashy/ui"
	"dashy/internal/assistant"
	"dashy/internal/store"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// Deps carries the wired application pieces the TUI talks to.
type Deps struct {
	Engine    *assistant.Engine
	Dashboard store.WidgetBackend
	Workspace string
}

// replyMsg is delivered when a submitted turn finishes.
type replyMsg struct {
	reply string
	err   error
}

// noticeMsg shows a transient line in the history without a model turn.
type noticeMsg string

// Model is the main model for the interactive chat interface
type Model struct {
	textinput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	styles    ui.Styles
	renderer  *glamour.TermRenderer

	deps    Deps
	notices []string
	pending string

	width     int
	height    int
	ready     bool
	isLoading bool
	errText   string
}

// New builds the chat model around an already-wired engine.
func New(deps Deps) Model {
	styles := ui.DefaultStyles()

	ti := textinput.New()
	ti.Placeholder = "Ask me anything... (Enter to send, Ctrl+C to exit)"
	ti.Focus()
	ti.Prompt = "│ "
	ti.CharLimit = 4096
	ti.Width = 80
	ti.PromptStyle = styles.Prompt
	ti.TextStyle = styles.UserInput

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	vp := viewport.New(80, 20)
	vp.SetContent("")

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(78),
	)

	return Model{
		textinput: ti,
		viewport:  vp,
		spinner:   sp,
		styles:    styles,
		renderer:  renderer,
		deps:      deps,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit

		case tea.KeyEsc:
			if m.errText != "" {
				m.errText = ""
				m.deps.Engine.DismissError()
				m.refreshHistory()
			}
			return m, nil

		case tea.KeyEnter:
			return m.handleSubmit()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.refreshHistory()
		return m, nil

	case spinner.TickMsg:
		m.spinner, spCmd = m.spinner.Update(msg)
		return m, spCmd

	case replyMsg:
		m.isLoading = false
		m.pending = ""
		if msg.err != nil {
			m.errText = msg.err.Error()
		}
		if banner := m.deps.Engine.APIError(); banner != "" {
			m.errText = banner
		}
		m.refreshHistory()
		return m, nil

	case noticeMsg:
		m.notices = append(m.notices, string(msg))
		m.refreshHistory()
		return m, nil
	}

	m.textinput, tiCmd = m.textinput.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

// handleSubmit reads the input line and either runs a /command or starts
// a conversation turn.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textinput.Value())
	if input == "" {
		return m, nil
	}
	m.textinput.Reset()

	if strings.HasPrefix(input, "/") {
		return m.handleCommand(input)
	}
	if m.isLoading {
		return m, func() tea.Msg {
			return noticeMsg("Still working on the previous request.")
		}
	}

	m.isLoading = true
	m.errText = ""
	m.pending = input
	engine := m.deps.Engine
	cmd := func() tea.Msg {
		reply, err := engine.Submit(context.Background(), input)
		return replyMsg{reply: reply, err: err}
	}

	// The engine only records the turn once Submit runs, so the pending
	// input is rendered locally until then.
	m.refreshHistory()
	return m, tea.Batch(cmd, m.spinner.Tick)
}

// resize recomputes component dimensions after a window change.
func (m *Model) resize() {
	chatWidth := m.width
	if chatWidth > 100 {
		chatWidth = 100
	}
	vpHeight := m.height - 7
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.Width = chatWidth
	m.viewport.Height = vpHeight
	m.textinput.Width = chatWidth - 4

	m.renderer, _ = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(chatWidth-4),
	)
}

// refreshHistory re-renders the transcript into the viewport.
func (m *Model) refreshHistory() {
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}
