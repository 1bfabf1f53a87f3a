package main

import (
	"context"

	"dashy/cmd/dashy/chat"

	tea "github.com/charmbracelet/bubbletea"
)

// runInteractiveChat starts the interactive chat interface
func runInteractiveChat() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := buildApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	p := tea.NewProgram(
		chat.New(chat.Deps{
			Engine:    a.engine,
			Dashboard: a.memory,
			Workspace: resolveWorkspace(),
		}),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()
	return err
}
