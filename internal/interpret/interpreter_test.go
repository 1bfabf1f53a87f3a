package interpret

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestInterpretEnvelope(t *testing.T) {
	in := NewInterpreter()

	raw := `{"displayText": "Sure, adding that now!", "language": "en-US", "toolCalls": [{"name": "add_todo", "args": {"tasks": ["Buy milk"]}}]}`
	got := in.Interpret(raw)

	want := Reply{
		DisplayText: "Sure, adding that now!",
		Language:    LangEnglish,
		ToolCalls: []ToolCall{
			{Name: "add_todo", Args: map[string]any{"tasks": []any{"Buy milk"}}},
		},
		ParseMethod: "json",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("reply mismatch (-want +got):\n%s", diff)
	}
}

func TestInterpretMarkdownWrapped(t *testing.T) {
	in := NewInterpreter()

	raw := "```json\n{\"displayText\": \"Done!\", \"language\": \"ru-RU\", \"toolCalls\": []}\n```"
	got := in.Interpret(raw)

	if got.DisplayText != "Done!" {
		t.Errorf("DisplayText = %q", got.DisplayText)
	}
	if got.Language != LangRussian {
		t.Errorf("Language = %q, want ru-RU", got.Language)
	}
	if len(got.ToolCalls) != 0 {
		t.Errorf("expected no tool calls, got %d", len(got.ToolCalls))
	}
}

func TestInterpretPlainText(t *testing.T) {
	in := NewInterpreter()

	tests := []struct {
		name string
		raw  string
		lang Language
	}{
		{"english", "Hello! How can I help you today?", LangEnglish},
		{"russian", "Привет! Чем могу помочь?", LangRussian},
		{"empty", "", LangEnglish},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := in.Interpret(tt.raw)
			if got.DisplayText != tt.raw {
				t.Errorf("DisplayText = %q, want verbatim input", got.DisplayText)
			}
			if got.Language != tt.lang {
				t.Errorf("Language = %q, want %q", got.Language, tt.lang)
			}
			if got.ParseMethod != "plain" {
				t.Errorf("ParseMethod = %q, want plain", got.ParseMethod)
			}
			if got.ToolCalls != nil {
				t.Errorf("plain reply should carry no tool calls")
			}
		})
	}
}

func TestInterpretMissingFieldsFallsBack(t *testing.T) {
	in := NewInterpreter()

	tests := []struct {
		name string
		raw  string
	}{
		{"no_toolCalls", `{"displayText": "hi"}`},
		{"no_displayText", `{"toolCalls": []}`},
		{"empty_displayText", `{"displayText": "", "toolCalls": []}`},
		{"toolCalls_not_array", `{"displayText": "hi", "toolCalls": "nope"}`},
		{"toolCalls_null", `{"displayText": "hi", "toolCalls": null}`},
		{"toolCalls_object", `{"displayText": "hi", "toolCalls": {"name": "read_todos"}}`},
		{"not_json", `{broken`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := in.Interpret(tt.raw)
			if got.ParseMethod != "plain" {
				t.Errorf("ParseMethod = %q, want plain", got.ParseMethod)
			}
			if got.DisplayText != tt.raw {
				t.Errorf("DisplayText = %q, want verbatim input", got.DisplayText)
			}
		})
	}
}

func TestInterpretCallDefaults(t *testing.T) {
	in := NewInterpreter()

	raw := `{"displayText": "ok", "toolCalls": [{"args": {"x": 1}}, {"name": "read_todos"}]}`
	got := in.Interpret(raw)

	if len(got.ToolCalls) != 2 {
		t.Fatalf("expected 2 tool calls, got %d", len(got.ToolCalls))
	}
	if got.ToolCalls[0].Name != "unknown" {
		t.Errorf("missing name should become %q, got %q", "unknown", got.ToolCalls[0].Name)
	}
	if got.ToolCalls[1].Args == nil || len(got.ToolCalls[1].Args) != 0 {
		t.Errorf("missing args should become an empty map, got %v", got.ToolCalls[1].Args)
	}
}

func TestInterpretUnknownLanguageDefaultsToEnglish(t *testing.T) {
	in := NewInterpreter()

	raw := `{"displayText": "hallo", "language": "de-DE", "toolCalls": []}`
	if got := in.Interpret(raw); got.Language != LangEnglish {
		t.Errorf("Language = %q, want en-US", got.Language)
	}
}

func TestInterpretScanRecovery(t *testing.T) {
	in := NewInterpreter()

	// The wide first-to-last brace span is invalid because of the trailing
	// stray object, so the balanced-object scan has to find the envelope.
	raw := `{"displayText": "ok", "toolCalls": []} and also {"stray": 1}`
	got := in.Interpret(raw)

	if got.ParseMethod != "json_scan" {
		t.Fatalf("ParseMethod = %q, want json_scan", got.ParseMethod)
	}
	if got.DisplayText != "ok" {
		t.Errorf("DisplayText = %q", got.DisplayText)
	}
}

func TestInterpretStats(t *testing.T) {
	in := NewInterpreter()

	in.Interpret(`{"displayText": "a", "toolCalls": []}`)
	in.Interpret("just chatting")

	s := in.Stats()
	if s.TotalProcessed != 2 || s.EnvelopeParses != 1 || s.PlainTextReplies != 1 {
		t.Errorf("unexpected stats: %+v", s)
	}
}

func TestFindJSONCandidates(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "simple",
			input: `prefix {"key": "value"} suffix`,
			want:  []string{`{"key": "value"}`},
		},
		{
			name:  "nested",
			input: `start {"a": {"b": "c"}} end`,
			want:  []string{`{"a": {"b": "c"}}`},
		},
		{
			name:  "multiple",
			input: `obj1 {"id": 1} obj2 {"id": 2}`,
			want:  []string{`{"id": 1}`, `{"id": 2}`},
		},
		{
			name:  "string_with_braces",
			input: `{"key": "value with } inside"}`,
			want:  []string{`{"key": "value with } inside"}`},
		},
		{
			name:  "escaped_quote",
			input: `{"key": "value with \" inside"}`,
			want:  []string{`{"key": "value with \" inside"}`},
		},
		{
			name:  "incomplete",
			input: `prefix { incomplete`,
			want:  nil,
		},
		{
			name:  "malformed_braces",
			input: `} { valid } {`,
			want:  []string{`{ valid }`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := findJSONCandidates(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d candidates, want %d: %v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("candidate %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFindJSONCandidatesLargeInput(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 1000; i++ {
		sb.WriteString("filler text without braces ")
	}
	sb.WriteString(`{"displayText": "found", "toolCalls": []}`)

	got := findJSONCandidates(sb.String())
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate in large input, got %d", len(got))
	}
}
