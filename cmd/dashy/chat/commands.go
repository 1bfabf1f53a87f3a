// This file contains /command handling for the TUI.
package chat

import (
	"fmt"
	"sort"
	"strings"

	"dashy/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

const helpText = `Commands:
  /model [name]   show or switch the Gemini model
  /dashboard      show the widget grid and device states
  /reset          clear the conversation
  /help           show this help
  /quit           exit

Anything else is sent to Dashy. English and Russian both work.`

// handleCommand runs a /command locally without a model round trip.
func (m Model) handleCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(input)
	name := strings.ToLower(fields[0])
	args := fields[1:]

	switch name {
	case "/help":
		return m.notify(helpText)

	case "/quit", "/exit":
		return m, tea.Quit

	case "/model":
		if len(args) == 0 {
			return m.notify(fmt.Sprintf("Current model: %s", m.deps.Engine.ModelName()))
		}
		m.deps.Engine.SetModel(args[0])
		return m.notify(fmt.Sprintf("Switched to %s.", args[0]))

	case "/reset", "/clear":
		if err := m.deps.Engine.Reset(); err != nil {
			return m.notify(err.Error())
		}
		m.notices = nil
		m.refreshHistory()
		return m, nil

	case "/dashboard":
		return m.notify(m.renderDashboard())

	default:
		return m.notify(fmt.Sprintf("Unknown command %s. Try /help.", name))
	}
}

// notify appends a dimmed line to the transcript.
func (m Model) notify(text string) (tea.Model, tea.Cmd) {
	m.notices = append(m.notices, text)
	m.refreshHistory()
	return m, nil
}

// renderDashboard prints the grid snapshot the widget actions operate on.
func (m Model) renderDashboard() string {
	if m.deps.Dashboard == nil {
		return "No dashboard attached."
	}

	grid := m.deps.Dashboard.Grid()
	slots := make([]string, 0, len(grid))
	for s := range grid {
		slots = append(slots, string(s))
	}
	sort.Strings(slots)

	var sb strings.Builder
	sb.WriteString("Dashboard:\n")
	for _, s := range slots {
		w := grid[store.Slot(s)]
		sb.WriteString(fmt.Sprintf("  %s: %s", s, w))
		if styles := m.deps.Dashboard.Styles(w); len(styles) > 0 {
			keys := make([]string, 0, len(styles))
			for k := range styles {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			pairs := make([]string, len(keys))
			for i, k := range keys {
				pairs[i] = k + "=" + styles[k]
			}
			sb.WriteString("  [" + strings.Join(pairs, " ") + "]")
		}
		sb.WriteString("\n")
	}
	for _, cw := range m.deps.Dashboard.CustomWidgets() {
		sb.WriteString(fmt.Sprintf("  custom: %s (%s)\n", cw.Title, cw.Type))
	}
	return strings.TrimRight(sb.String(), "\n")
}
