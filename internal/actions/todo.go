package actions

import (
	"context"
	"fmt"
	"strings"

	"dashy/internal/interpret"
	"dashy/internal/store"
)

// AddTodoArgs are the arguments for the add_todo action.
type AddTodoArgs struct {
	Tasks []string `json:"tasks"`
}

// TodoControlArgs are the arguments for the todo_control action.
type TodoControlArgs struct {
	Action string   `json:"action"`
	Tasks  []string `json:"tasks"`
}

// ReadTodosArgs are the arguments for the read_todos action.
type ReadTodosArgs struct {
	Status string `json:"status"`
}

func registerTodoActions(r *Registry, todos store.TodoBackend) {
	r.MustRegister(&Action{
		Name:        "add_todo",
		Description: "Adds one or more tasks to the to-do list",
		Handle: func(ctx context.Context, raw map[string]any, lang interpret.Language) (Outcome, error) {
			var args AddTodoArgs
			if err := decodeArgs(raw, &args); err != nil {
				return Outcome{}, err
			}
			if len(args.Tasks) == 0 {
				return Outcome{}, fmt.Errorf("%w: missing tasks array for add_todo", ErrInvalidArgs)
			}
			for _, task := range args.Tasks {
				todos.AddTodo(task)
			}
			return Outcome{LogMessage: fmt.Sprintf("Successfully added %d task(s).", len(args.Tasks))}, nil
		},
	})

	r.MustRegister(&Action{
		Name:        "todo_control",
		Description: "Completes or deletes tasks matched by content",
		Handle: func(ctx context.Context, raw map[string]any, lang interpret.Language) (Outcome, error) {
			var args TodoControlArgs
			if err := decodeArgs(raw, &args); err != nil {
				return Outcome{}, err
			}
			if args.Action != "complete" && args.Action != "delete" {
				return Outcome{}, fmt.Errorf("%w: todo_control action must be complete or delete", ErrInvalidArgs)
			}
			if len(args.Tasks) == 0 {
				return Outcome{}, fmt.Errorf("%w: missing tasks array for todo_control", ErrInvalidArgs)
			}

			needles := make([]string, 0, len(args.Tasks))
			for _, task := range args.Tasks {
				needles = append(needles, strings.ToLower(strings.TrimSpace(task)))
			}
			// Every stored todo whose content contains any requested task is
			// acted on, so "delete the milk one" works without an exact match.
			for _, todo := range todos.Todos() {
				content := strings.ToLower(todo.Content)
				for _, n := range needles {
					if strings.Contains(content, n) {
						switch args.Action {
						case "complete":
							todos.SetTodoDone(todo.ID, true)
						case "delete":
							todos.RemoveTodo(todo.ID)
						}
						break
					}
				}
			}
			return Outcome{LogMessage: fmt.Sprintf("Successfully performed %q on %d task(s).", args.Action, len(args.Tasks))}, nil
		},
	})

	r.MustRegister(&Action{
		Name:        "read_todos",
		Description: "Loads tasks and asks the model to read them back",
		Handle: func(ctx context.Context, raw map[string]any, lang interpret.Language) (Outcome, error) {
			var args ReadTodosArgs
			if err := decodeArgs(raw, &args); err != nil {
				return Outcome{}, err
			}
			status := args.Status
			if status == "" {
				status = "incomplete"
			}

			var filtered []store.Todo
			for _, t := range todos.Todos() {
				switch status {
				case "all":
					filtered = append(filtered, t)
				case "completed":
					if t.Done {
						filtered = append(filtered, t)
					}
				case "incomplete":
					if !t.Done {
						filtered = append(filtered, t)
					}
				}
			}

			if len(filtered) == 0 {
				var prompt string
				if lang == interpret.LangRussian {
					kind := "активных"
					if status == "completed" {
						kind = "выполненных"
					}
					prompt = fmt.Sprintf("Скажи пользователю, что у него нет %s задач.", kind)
				} else {
					prompt = fmt.Sprintf("Tell the user they have no %s to-do items.", status)
				}
				return Outcome{LogMessage: "No todos to read.", FollowUpPrompt: prompt}, nil
			}

			var lines []string
			for _, t := range filtered {
				lines = append(lines, fmt.Sprintf("- %q", t.Content))
			}
			prompt := fmt.Sprintf(
				"Read the following to-do items to the user in a friendly, conversational way, in language %s:\n%s",
				lang, strings.Join(lines, "\n"))
			return Outcome{
				LogMessage:     fmt.Sprintf("Found %d todos to read.", len(filtered)),
				FollowUpPrompt: prompt,
			}, nil
		},
	})
}
