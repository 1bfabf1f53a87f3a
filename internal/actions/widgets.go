package actions

import (
	"context"
	"fmt"

	"dashy/internal/interpret"
	"dashy/internal/store"
)

// DashboardControlArgs are the arguments for the dashboard_control action.
type DashboardControlArgs struct {
	Action  string `json:"action"`
	WidgetA string `json:"widget_a"`
	WidgetB string `json:"widget_b"`
}

// WidgetRefineArgs are the arguments for the widget_refine action. CSS
// values arrive untyped because the model emits numbers for some properties.
type WidgetRefineArgs struct {
	WidgetName string         `json:"widget_name"`
	CSSProps   map[string]any `json:"css_props"`
}

// WidgetConfig carries the type-specific settings of a custom widget.
type WidgetConfig struct {
	Prompt string `json:"prompt"`
	Device string `json:"device"`
}

// AddWidgetArgs are the arguments for the add_widget action.
type AddWidgetArgs struct {
	Type   string       `json:"type"`
	Title  string       `json:"title"`
	Config WidgetConfig `json:"config"`
}

// RemoveWidgetArgs are the arguments for the remove_widget action.
type RemoveWidgetArgs struct {
	Title string `json:"title"`
}

func registerWidgetActions(r *Registry, widgets store.WidgetBackend) {
	r.MustRegister(&Action{
		Name:        "dashboard_control",
		Description: "Rearranges the dashboard grid",
		Handle: func(ctx context.Context, raw map[string]any, lang interpret.Language) (Outcome, error) {
			var args DashboardControlArgs
			if err := decodeArgs(raw, &args); err != nil {
				return Outcome{}, err
			}
			if args.Action != "swap" || args.WidgetA == "" || args.WidgetB == "" {
				return Outcome{}, fmt.Errorf("%w: dashboard_control needs action=swap with widget_a and widget_b", ErrInvalidArgs)
			}
			widgets.SwapWidgets(store.Widget(args.WidgetA), store.Widget(args.WidgetB))
			return Outcome{LogMessage: fmt.Sprintf("Successfully swapped %s and %s.", args.WidgetA, args.WidgetB)}, nil
		},
	})

	r.MustRegister(&Action{
		Name:        "widget_refine",
		Description: "Applies CSS overrides to one widget",
		Handle: func(ctx context.Context, raw map[string]any, lang interpret.Language) (Outcome, error) {
			var args WidgetRefineArgs
			if err := decodeArgs(raw, &args); err != nil {
				return Outcome{}, err
			}
			if args.WidgetName == "" || len(args.CSSProps) == 0 {
				return Outcome{}, fmt.Errorf("%w: widget_refine needs widget_name and css_props", ErrInvalidArgs)
			}
			props := make(map[string]string, len(args.CSSProps))
			for k, v := range args.CSSProps {
				props[k] = fmt.Sprint(v)
			}
			widgets.ApplyStyles(store.Widget(args.WidgetName), props)
			return Outcome{LogMessage: fmt.Sprintf("Successfully refined %s.", args.WidgetName)}, nil
		},
	})

	r.MustRegister(&Action{
		Name:        "reset_widget_styles",
		Description: "Clears all widget style overrides",
		Handle: func(ctx context.Context, raw map[string]any, lang interpret.Language) (Outcome, error) {
			widgets.ResetStyles()
			return Outcome{LogMessage: "Successfully reset all widget styles."}, nil
		},
	})

	r.MustRegister(&Action{
		Name:        "add_widget",
		Description: "Adds a custom widget to the dashboard",
		Handle: func(ctx context.Context, raw map[string]any, lang interpret.Language) (Outcome, error) {
			var args AddWidgetArgs
			if err := decodeArgs(raw, &args); err != nil {
				return Outcome{}, err
			}
			if args.Type == "" || args.Title == "" {
				return Outcome{}, fmt.Errorf("%w: add_widget needs type, title and config", ErrInvalidArgs)
			}
			if args.Config.Prompt == "" && args.Config.Device == "" {
				return Outcome{}, fmt.Errorf("%w: add_widget needs a config with a prompt or a device", ErrInvalidArgs)
			}
			widgets.AddCustomWidget(store.CustomWidget{
				Type:   store.CustomWidgetType(args.Type),
				Title:  args.Title,
				Prompt: args.Config.Prompt,
				Device: args.Config.Device,
			})
			return Outcome{LogMessage: fmt.Sprintf("Successfully added widget %q.", args.Title)}, nil
		},
	})

	r.MustRegister(&Action{
		Name:        "remove_widget",
		Description: "Removes a custom widget by title",
		Handle: func(ctx context.Context, raw map[string]any, lang interpret.Language) (Outcome, error) {
			var args RemoveWidgetArgs
			if err := decodeArgs(raw, &args); err != nil {
				return Outcome{}, err
			}
			if args.Title == "" {
				return Outcome{}, fmt.Errorf("%w: missing title for remove_widget", ErrInvalidArgs)
			}
			widgets.RemoveCustomWidget(args.Title)
			return Outcome{LogMessage: fmt.Sprintf("Successfully removed widget %q.", args.Title)}, nil
		},
	})
}
