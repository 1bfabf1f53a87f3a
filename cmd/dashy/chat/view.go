// This file contains view rendering functions for the TUI.
package chat

import (
	"fmt"
	"strings"
	"time"

	"dashy/internal/assistant"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.renderHeader()
	chatView := m.styles.Content.Render(m.viewport.View())

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.styles.Theme.Accent).
		Padding(0, 1)
	inputArea := inputStyle.Render(m.textinput.View())

	footer := m.renderFooter()

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		chatView,
		inputArea,
		footer,
	)
}

func (m Model) renderHeader() string {
	title := m.styles.Header.Render(" Dashy ")
	modelBadge := m.styles.Badge.Render(m.deps.Engine.ModelName())
	workspace := m.styles.Muted.Render(fmt.Sprintf(" %s", m.deps.Workspace))

	var status string
	if m.isLoading {
		status = lipgloss.JoinHorizontal(lipgloss.Center, m.spinner.View(), " ", m.styles.Muted.Render("Thinking..."))
	} else if m.errText != "" {
		status = m.styles.Error.Render(m.errText) + m.styles.Muted.Render("  (Esc to dismiss)")
	} else {
		status = m.styles.Success.Render("Ready")
	}

	headerLine := lipgloss.JoinHorizontal(
		lipgloss.Center,
		title,
		" ",
		modelBadge,
		"  ",
		status,
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		headerLine,
		workspace,
		m.styles.RenderDivider(m.width),
	)
}

func (m Model) renderFooter() string {
	timestamp := time.Now().Format("15:04")
	help := m.styles.Muted.Render(fmt.Sprintf("%s | /model | /dashboard | /reset | /help | Ctrl+C: quit", timestamp))
	return lipgloss.NewStyle().
		MarginTop(1).
		Render(help)
}

func (m Model) renderHistory() string {
	var sb strings.Builder

	for _, turn := range m.deps.Engine.History() {
		switch {
		case turn.Role == assistant.RoleUser && turn.Synthetic:
			// Tool results fed back into the conversation; shown dimmed so
			// the user can follow what the assistant is reacting to.
			sb.WriteString(m.styles.Muted.Render("  ↳ "+firstLine(turn.Text)) + "\n")

		case turn.Role == assistant.RoleUser:
			userStyle := m.styles.Bold.
				Foreground(m.styles.Theme.Primary).
				MarginTop(1)
			sb.WriteString(userStyle.Render("You") + "\n")
			sb.WriteString(m.styles.UserInput.Render(turn.Text))
			sb.WriteString("\n\n")

		default:
			assistantStyle := m.styles.Bold.
				Foreground(m.styles.Theme.Accent).
				MarginTop(1)
			sb.WriteString(assistantStyle.Render("Dashy") + "\n")
			sb.WriteString(m.safeRenderMarkdown(turn.Text))
			sb.WriteString("\n")
		}
	}

	if m.pending != "" {
		userStyle := m.styles.Bold.
			Foreground(m.styles.Theme.Primary).
			MarginTop(1)
		sb.WriteString(userStyle.Render("You") + "\n")
		sb.WriteString(m.styles.UserInput.Render(m.pending))
		sb.WriteString("\n\n")
	}

	for _, n := range m.notices {
		sb.WriteString(m.styles.Muted.Render("• "+n) + "\n")
	}

	return sb.String()
}

// safeRenderMarkdown renders markdown with panic recovery
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			// If glamour panics, return plain text
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return rendered
		}
	}
	return content
}

// firstLine truncates multi-line text to its first line for dimmed display.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
