// Package interpret turns raw model output into a structured assistant reply.
// The model is asked to answer with a JSON envelope when tools are needed and
// plain text otherwise, so parsing has to tolerate both, plus markdown fences
// and chatter around the JSON.
package interpret

import (
	"encoding/json"
	"strings"
	"unicode"

	"dashy/internal/logging"
)

// Language is the BCP 47 tag the assistant detected for the current exchange.
type Language string

const (
	LangEnglish Language = "en-US"
	LangRussian Language = "ru-RU"
)

// ToolCall is a single action request extracted from a model reply.
type ToolCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// Reply is the structured form of one model turn.
type Reply struct {
	DisplayText string
	Language    Language
	ToolCalls   []ToolCall

	// ParseMethod records how the reply was recovered: "json", "json_scan",
	// or "plain".
	ParseMethod string
}

// envelope mirrors the JSON shape the model is instructed to emit.
type envelope struct {
	DisplayText string `json:"displayText"`
	Language    string `json:"language"`
	ToolCalls   []struct {
		Name string         `json:"name"`
		Args map[string]any `json:"args"`
	} `json:"toolCalls"`
}

// Stats tracks parsing outcomes for monitoring.
type Stats struct {
	TotalProcessed   int
	EnvelopeParses   int
	ScanParses       int
	PlainTextReplies int
}

// Interpreter extracts structured replies from raw model text.
type Interpreter struct {
	stats Stats
}

func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

// Interpret parses one raw model response. It never fails: input that does
// not contain a usable envelope comes back verbatim as a plain-text reply
// with the language guessed from the text.
func (in *Interpreter) Interpret(raw string) Reply {
	in.stats.TotalProcessed++

	// 1. Widest brace span. The model usually emits exactly one object,
	// possibly wrapped in a markdown fence or prose.
	first := strings.IndexByte(raw, '{')
	last := strings.LastIndexByte(raw, '}')
	if first != -1 && last > first {
		if reply, ok := parseEnvelope(raw[first : last+1]); ok {
			in.stats.EnvelopeParses++
			reply.ParseMethod = "json"
			logging.InterpretDebug("envelope parsed, %d tool call(s), language=%s", len(reply.ToolCalls), reply.Language)
			return reply
		}
	}

	// 2. The wide span can glue unrelated braces together. Scan for
	// balanced top-level objects and try each.
	for _, candidate := range findJSONCandidates(raw) {
		if reply, ok := parseEnvelope(candidate); ok {
			in.stats.ScanParses++
			reply.ParseMethod = "json_scan"
			logging.InterpretDebug("envelope recovered by scan, %d tool call(s)", len(reply.ToolCalls))
			return reply
		}
	}

	// 3. Plain conversational text.
	in.stats.PlainTextReplies++
	logging.InterpretDebug("no envelope found, treating reply as plain text")
	return Reply{
		DisplayText: raw,
		Language:    DetectLanguage(raw),
		ParseMethod: "plain",
	}
}

// Stats returns a copy of the current parsing counters.
func (in *Interpreter) Stats() Stats {
	return in.stats
}

// parseEnvelope decodes a candidate object and checks it is actually an
// assistant envelope. Both displayText and toolCalls must be present;
// anything else is chatter that happens to contain braces.
func parseEnvelope(s string) (Reply, bool) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &probe); err != nil {
		return Reply{}, false
	}
	rawText, haveText := probe["displayText"]
	rawCalls, haveCalls := probe["toolCalls"]
	if !haveText || !haveCalls {
		return Reply{}, false
	}
	var text string
	if err := json.Unmarshal(rawText, &text); err != nil || text == "" {
		return Reply{}, false
	}
	// toolCalls must be an actual array. A literal null decodes into a nil
	// slice without error, so check the raw token before unmarshaling.
	trimmed := strings.TrimSpace(string(rawCalls))
	if !strings.HasPrefix(trimmed, "[") {
		return Reply{}, false
	}
	var calls []struct {
		Name string         `json:"name"`
		Args map[string]any `json:"args"`
	}
	if err := json.Unmarshal(rawCalls, &calls); err != nil {
		return Reply{}, false
	}

	var env envelope
	if err := json.Unmarshal([]byte(s), &env); err != nil {
		return Reply{}, false
	}

	reply := Reply{
		DisplayText: env.DisplayText,
		Language:    normalizeLanguage(env.Language),
	}
	for _, c := range env.ToolCalls {
		name := c.Name
		if name == "" {
			name = "unknown"
		}
		args := c.Args
		if args == nil {
			args = map[string]any{}
		}
		reply.ToolCalls = append(reply.ToolCalls, ToolCall{Name: name, Args: args})
	}
	return reply, true
}

// normalizeLanguage maps anything that is not Russian to English.
func normalizeLanguage(s string) Language {
	if Language(s) == LangRussian {
		return LangRussian
	}
	return LangEnglish
}

// DetectLanguage guesses the language of free text. Any Cyrillic rune means
// Russian; everything else defaults to English.
func DetectLanguage(s string) Language {
	for _, r := range s {
		if unicode.Is(unicode.Cyrillic, r) {
			return LangRussian
		}
	}
	return LangEnglish
}
