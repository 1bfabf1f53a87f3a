// Package main implements the dashy CLI commands.
// This file contains direct action commands that mirror the model's tools.
package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"dashy/internal/actions"
	"dashy/internal/interpret"
	"dashy/internal/model"
	"dashy/internal/store"

	"github.com/spf13/cobra"
)

// =============================================================================
// DIRECT ACTION COMMANDS - Mirror the model's tool calls for CLI testing
// =============================================================================

const actionTimeout = 30 * time.Second

// todos returns whichever todo backend buildApp wired.
func (a *app) todos() store.TodoBackend {
	if a.local != nil {
		return a.local
	}
	return a.memory
}

// mail returns whichever mail backend buildApp wired.
func (a *app) mail() store.MailBackend {
	if a.local != nil {
		return a.local
	}
	return a.memory
}

// dispatchAction runs one action through the dispatcher and prints its log line.
func dispatchAction(name string, args map[string]any) error {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	a, err := buildApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	outcome, err := a.dispatcher.Dispatch(ctx, actions.Request{Name: name, Args: args}, interpret.LangEnglish)
	if err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	if outcome.LogMessage != "" {
		fmt.Println(outcome.LogMessage)
	}
	return nil
}

// ---------------------------------------------------------------------------
// todo
// ---------------------------------------------------------------------------

var todoStatus string

var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "Manage the to-do list",
	Long: `Inspect and edit the to-do list directly, without going through the model.

Example:
  dashy todo list
  dashy todo add "buy milk"
  dashy todo done "milk"
  dashy todo rm "milk"`,
}

var todoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List to-do items",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		a, err := buildApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.close()

		shown := 0
		for _, t := range a.todos().Todos() {
			if todoStatus == "complete" && !t.Done {
				continue
			}
			if todoStatus == "incomplete" && t.Done {
				continue
			}
			mark := "⬜"
			if t.Done {
				mark = "✅"
			}
			fmt.Printf("%s %s\n", mark, t.Content)
			shown++
		}
		if shown == 0 {
			fmt.Println("No todos found.")
		}
		return nil
	},
}

var todoAddCmd = &cobra.Command{
	Use:   "add <task> [task...]",
	Short: "Add one or more tasks",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks := make([]any, len(args))
		for i, t := range args {
			tasks[i] = t
		}
		return dispatchAction("add_todo", map[string]any{"tasks": tasks})
	},
}

var todoDoneCmd = &cobra.Command{
	Use:   "done <text>",
	Short: "Mark matching tasks complete",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatchAction("todo_control", map[string]any{
			"action": "complete",
			"tasks":  []any{strings.Join(args, " ")},
		})
	},
}

var todoRmCmd = &cobra.Command{
	Use:   "rm <text>",
	Short: "Delete matching tasks",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatchAction("todo_control", map[string]any{
			"action": "delete",
			"tasks":  []any{strings.Join(args, " ")},
		})
	},
}

// ---------------------------------------------------------------------------
// mail
// ---------------------------------------------------------------------------

var (
	mailStatus  string
	mailSubject string
)

var mailCmd = &cobra.Command{
	Use:   "mail",
	Short: "Manage the inbox",
	Long: `Inspect and edit the inbox directly, without going through the model.

Example:
  dashy mail list
  dashy mail read "Sarah" --subject "planning"
  dashy mail read-all
  dashy mail rm "Acme"`,
}

var mailListCmd = &cobra.Command{
	Use:   "list",
	Short: "List emails",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		a, err := buildApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.close()

		shown := 0
		for _, e := range a.mail().Emails() {
			if mailStatus == "unread" && e.Read {
				continue
			}
			if mailStatus == "read" && !e.Read {
				continue
			}
			mark := "📩"
			if e.Read {
				mark = "📖"
			}
			fmt.Printf("%s %s: %s\n", mark, e.Sender, e.Subject)
			shown++
		}
		if shown == 0 {
			fmt.Println("No emails found.")
		}
		return nil
	},
}

var mailReadCmd = &cobra.Command{
	Use:   "read <sender>",
	Short: "Mark matching emails as read",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		criterion := map[string]any{"sender": strings.Join(args, " ")}
		if mailSubject != "" {
			criterion["subject"] = mailSubject
		}
		return dispatchAction("mail_control", map[string]any{
			"action": "read",
			"emails": []any{criterion},
		})
	},
}

var mailReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every unread email as read",
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatchAction("mail_control", map[string]any{"action": "read_all"})
	},
}

var mailRmCmd = &cobra.Command{
	Use:   "rm <sender>",
	Short: "Delete matching emails",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		criterion := map[string]any{"sender": strings.Join(args, " ")}
		if mailSubject != "" {
			criterion["subject"] = mailSubject
		}
		return dispatchAction("mail_control", map[string]any{
			"action": "delete",
			"emails": []any{criterion},
		})
	},
}

// ---------------------------------------------------------------------------
// devices
// ---------------------------------------------------------------------------

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Control smart home devices",
	Long: `Inspect and switch the smart home devices.

Example:
  dashy devices status
  dashy devices light off
  dashy devices speaker on`,
}

var devicesStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show device states",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		a, err := buildApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.close()

		light := "Off"
		if a.memory.LightOn() {
			light = "On"
		}
		speaker := "Paused"
		if a.memory.SpeakerPlaying() {
			speaker = "Playing"
		}
		fmt.Printf("💡 Overhead light:  %s\n", light)
		fmt.Printf("🔊 Kitchen speaker: %s\n", speaker)
		return nil
	},
}

func deviceSwitchCmd(device string) *cobra.Command {
	return &cobra.Command{
		Use:   device + " <on|off>",
		Short: "Switch the " + device,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatchAction("device_control", map[string]any{
				"device_name": device,
				"state":       args[0],
			})
		},
	}
}

// ---------------------------------------------------------------------------
// dashboard
// ---------------------------------------------------------------------------

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the dashboard layout",
	Long: `Prints the widget grid, any style overrides, and custom widgets.

Example:
  dashy dashboard
  dashy dashboard swap clock weather`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		a, err := buildApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.close()

		grid := a.memory.Grid()
		slots := make([]string, 0, len(grid))
		for s := range grid {
			slots = append(slots, string(s))
		}
		sort.Strings(slots)

		fmt.Println("📐 Grid:")
		for _, s := range slots {
			w := grid[store.Slot(s)]
			line := fmt.Sprintf("   %s: %s", s, w)
			if styles := a.memory.Styles(w); len(styles) > 0 {
				keys := make([]string, 0, len(styles))
				for k := range styles {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				pairs := make([]string, len(keys))
				for i, k := range keys {
					pairs[i] = k + "=" + styles[k]
				}
				line += "  [" + strings.Join(pairs, " ") + "]"
			}
			fmt.Println(line)
		}

		if custom := a.memory.CustomWidgets(); len(custom) > 0 {
			fmt.Println("🧩 Custom widgets:")
			for _, cw := range custom {
				fmt.Printf("   %s (%s)\n", cw.Title, cw.Type)
			}
		}
		return nil
	},
}

var dashboardSwapCmd = &cobra.Command{
	Use:   "swap <widget> <widget>",
	Short: "Swap two widgets on the grid",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatchAction("dashboard_control", map[string]any{
			"action":   "swap",
			"widget_a": args[0],
			"widget_b": args[1],
		})
	},
}

// ---------------------------------------------------------------------------
// widget
// ---------------------------------------------------------------------------

var (
	widgetTitle  string
	widgetPrompt string
	widgetDevice string
)

var widgetCmd = &cobra.Command{
	Use:   "widget",
	Short: "Manage custom widgets",
	Long: `Add, remove, and render custom widgets. The type is either "gemini"
(content generated from a prompt) or "smarthome" (bound to a device).

Example:
  dashy widget add gemini --title "Word of the day" --prompt "Give me an interesting English word and a one-line definition."
  dashy widget render "Word of the day"
  dashy widget rm "Word of the day"`,
}

var widgetAddCmd = &cobra.Command{
	Use:   "add <gemini|smarthome>",
	Short: "Add a custom widget",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config := map[string]any{}
		if widgetPrompt != "" {
			config["prompt"] = widgetPrompt
		}
		if widgetDevice != "" {
			config["device"] = widgetDevice
		}
		return dispatchAction("add_widget", map[string]any{
			"type":   args[0],
			"title":  widgetTitle,
			"config": config,
		})
	},
}

var widgetRmCmd = &cobra.Command{
	Use:   "rm <title>",
	Short: "Remove a custom widget",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatchAction("remove_widget", map[string]any{
			"title": strings.Join(args, " "),
		})
	},
}

// widgetRenderCmd generates the content of a gemini-type widget once.
var widgetRenderCmd = &cobra.Command{
	Use:   "render <title>",
	Short: "Generate a gemini widget's content",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		a, err := buildApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.close()

		title := strings.Join(args, " ")
		var widget *store.CustomWidget
		for _, cw := range a.memory.CustomWidgets() {
			if strings.EqualFold(cw.Title, title) {
				w := cw
				widget = &w
				break
			}
		}
		if widget == nil {
			return fmt.Errorf("no custom widget named %q", title)
		}
		if widget.Type != store.CustomWidgetGemini {
			return fmt.Errorf("widget %q is not a gemini widget", title)
		}

		backend, err := model.NewGeminiBackend(ctx, a.cfg.Model.APIKey)
		if err != nil {
			return fmt.Errorf("model backend unavailable (set GEMINI_API_KEY): %w", err)
		}

		fmt.Printf("🧩 %s\n", widget.Title)
		fmt.Println(strings.Repeat("─", 50))
		text, err := backend.GenerateText(ctx, widget.Prompt, a.cfg.Model.Name)
		if err != nil {
			return fmt.Errorf("generation failed: %w", err)
		}
		fmt.Println(text)
		return nil
	},
}

func init() {
	todoListCmd.Flags().StringVar(&todoStatus, "status", "all", "filter: all, incomplete or complete")
	todoCmd.AddCommand(todoListCmd, todoAddCmd, todoDoneCmd, todoRmCmd)

	mailListCmd.Flags().StringVar(&mailStatus, "status", "all", "filter: all, unread or read")
	mailReadCmd.Flags().StringVar(&mailSubject, "subject", "", "also match on subject")
	mailRmCmd.Flags().StringVar(&mailSubject, "subject", "", "also match on subject")
	mailCmd.AddCommand(mailListCmd, mailReadCmd, mailReadAllCmd, mailRmCmd)

	devicesCmd.AddCommand(devicesStatusCmd, deviceSwitchCmd("light"), deviceSwitchCmd("speaker"))

	dashboardCmd.AddCommand(dashboardSwapCmd)

	widgetAddCmd.Flags().StringVar(&widgetTitle, "title", "", "widget title")
	widgetAddCmd.Flags().StringVar(&widgetPrompt, "prompt", "", "prompt for gemini widgets")
	widgetAddCmd.Flags().StringVar(&widgetDevice, "device", "", "device for smart-home widgets")
	_ = widgetAddCmd.MarkFlagRequired("title")
	widgetCmd.AddCommand(widgetAddCmd, widgetRmCmd, widgetRenderCmd)
}
