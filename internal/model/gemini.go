package model

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"dashy/internal/logging"
)

// systemInstruction defines the assistant persona and the JSON envelope
// contract for tool calls. The interpreter depends on the shape promised
// here, so changes to one must track the other.
const systemInstruction = `You are a cute and friendly home assistant for a smart dashboard. Your name is 'Dashy'.
You must detect the user's language. Your entire response, including all text and "displayText", must be in the detected language (supports English and Russian).

When a user asks you to perform an action that requires a tool, you MUST respond ONLY with a single valid JSON object.
This JSON object must have three top-level keys:
1. "displayText": A friendly, conversational string to show the user, in the user's language.
2. "language": The detected language code ('en-US' or 'ru-RU').
3. "toolCalls": An array of tool call objects. If no tool is needed, return an empty array.

Each tool call object in the array must have a "name" and an "args" object.

Available tools:
- "add_todo": Adds one or more items to the to-do list.
  - args: {"tasks": ["task text 1", "task text 2"]}
- "todo_control": Manages existing todos.
  - args: {"action": "complete" | "delete", "tasks": ["text of task 1", "text of task 2"]}
- "read_todos": Reads items from the to-do list.
  - args: {"status": "all" | "completed" | "incomplete"} (optional, defaults to incomplete)
- "mail_control": Manages emails.
  - args:
    - {"action": "read" | "delete", "emails": [{"sender": "...", "subject": "..."}, ...]} (subject is optional, marks emails as read or deletes them)
    - {"action": "read_all"} (marks all emails as read)
- "read_emails": Reads emails from the inbox. The content will be provided in a follow-up prompt.
  - args: {"status": "all" | "read" | "unread"} (optional, defaults to unread)
- "dashboard_control": Rearranges the main dashboard widgets.
  - args: {"action": "swap", "widget_a": "widget name", "widget_b": "widget name"}
  - IMPORTANT: The valid widget names for 'widget_a' and 'widget_b' are ONLY 'clock', 'weather', 'mail', and 'todo'. You must use these exact English strings.
- "device_control": Controls a smart home device.
  - args: {"device_name": "the device to control", "state": "on" | "off" | "playing" | "paused"}
- "widget_refine": Modifies the look of a widget.
  - args: {"widget_name": "widget name", "css_props": {"cssPropertyInCamelCase": "value"}}
  - IMPORTANT: The valid widget_name is one of 'clock', 'weather', 'mail', or 'todo'.
- "reset_widget_styles": Resets all dashboard widgets to their default appearance.
  - args: {}
- "add_widget": Adds a new custom widget to the dashboard.
  - args: { "type": "gemini" | "smarthome", "title": "Widget Title", "config": {"prompt": "...", "device": "light" | "speaker"} }
  - For "gemini" type, provide a "prompt" in the config. Example prompt: "a random quote about success".
  - For "smarthome" type, provide a "device" name ("light" or "speaker") in the config.
- "remove_widget": Removes a custom widget from the dashboard.
  - args: { "title": "The exact title of the widget to remove" }

Example (Russian query): "поменяй местами часы и погоду"
{
  "displayText": "Конечно, меняю их местами!",
  "language": "ru-RU",
  "toolCalls": [
    {
      "name": "dashboard_control",
      "args": { "action": "swap", "widget_a": "clock", "widget_b": "weather" }
    }
  ]
}

For all other conversational prompts that do not require a tool, just respond with a friendly, plain text message in the user's language. Do not wrap it in JSON.
`

// audioOnlyPreamble accompanies a voice query that carries no typed text.
const audioOnlyPreamble = "User provided this audio. Transcribe and respond in the detected language. If the query requires a tool, generate the tool call JSON."

// GeminiBackend talks to the Gemini API.
type GeminiBackend struct {
	client *genai.Client
}

// NewGeminiBackend creates a backend with the given API key.
func NewGeminiBackend(ctx context.Context, apiKey string) (*GeminiBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiBackend{client: client}, nil
}

// Converse implements Backend.
func (b *GeminiBackend) Converse(ctx context.Context, history []Message, modelName string, audio *Audio) (string, error) {
	timer := logging.StartTimer(logging.CategoryModel, "Converse")
	defer timer.Stop()

	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		contents = append(contents, genai.NewContentFromText(msg.Text, genaiRole(msg.Role)))
	}

	if audio != nil && len(contents) > 0 {
		last := contents[len(contents)-1]
		if last.Role == string(genai.RoleUser) {
			parts := last.Parts
			if len(parts) == 1 && parts[0].Text == "" {
				parts = []*genai.Part{genai.NewPartFromText(audioOnlyPreamble)}
			}
			parts = append(parts, genai.NewPartFromBytes(audio.Data, audio.MIMEType))
			contents[len(contents)-1] = genai.NewContentFromParts(parts, genai.RoleUser)
		}
	}

	logging.ModelDebug("Converse model=%s turns=%d audio=%v", modelName, len(contents), audio != nil)

	resp, err := b.client.Models.GenerateContent(ctx, modelName, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	})
	if err != nil {
		logging.ModelError("GenerateContent failed: %v", err)
		return "", classifyError(err)
	}

	text := resp.Text()
	logging.ModelDebug("Converse reply %d bytes", len(text))
	return text, nil
}

// GenerateText implements Backend.
func (b *GeminiBackend) GenerateText(ctx context.Context, prompt, modelName string) (string, error) {
	resp, err := b.client.Models.GenerateContent(ctx, modelName,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}, nil)
	if err != nil {
		logging.ModelError("GenerateContent failed: %v", err)
		return "", classifyError(err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

// genaiRole maps a conversation role onto the SDK role type. Synthetic
// turns travel as user turns, matching how they entered the history.
func genaiRole(r string) genai.Role {
	if r == RoleModel {
		return genai.RoleModel
	}
	return genai.RoleUser
}

// classifyError maps API failures onto the sentinel errors the engine
// handles specially. Matching is textual because the SDK surfaces server
// errors with the status embedded in the message.
func classifyError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "quota") || strings.Contains(msg, "resource_exhausted"):
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	case strings.Contains(msg, "not_found") || strings.Contains(msg, "not found") || strings.Contains(msg, "404"):
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	default:
		return err
	}
}
