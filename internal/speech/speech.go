// Package speech narrates assistant replies for voice-originated queries.
package speech

import (
	"context"
	"fmt"
	"os/exec"

	"dashy/internal/interpret"
	"dashy/internal/logging"
)

// Synthesizer speaks a reply out loud.
type Synthesizer interface {
	Speak(ctx context.Context, text string, lang interpret.Language) error
}

// Noop discards narration requests. Used when no speech engine is available
// or narration is disabled.
type Noop struct{}

func (Noop) Speak(ctx context.Context, text string, lang interpret.Language) error {
	return nil
}

// Command shells out to a local text-to-speech binary. It tries a fixed set
// of engines in order and remembers which one worked.
type Command struct {
	binary string
}

// NewCommand locates a usable text-to-speech binary. When none is found the
// caller should fall back to Noop.
func NewCommand() (*Command, error) {
	for _, candidate := range []string{"say", "espeak-ng", "espeak"} {
		if path, err := exec.LookPath(candidate); err == nil {
			logging.Speech("Using speech engine: %s", path)
			return &Command{binary: candidate}, nil
		}
	}
	return nil, fmt.Errorf("no text-to-speech engine found")
}

// Speak runs the engine synchronously. Narration failures are logged by the
// caller and never abort the conversation.
func (c *Command) Speak(ctx context.Context, text string, lang interpret.Language) error {
	if text == "" {
		return nil
	}

	args := c.argsFor(text, lang)
	logging.SpeechDebug("Narrating %d chars via %s", len(text), c.binary)

	cmd := exec.CommandContext(ctx, c.binary, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("speech engine %s failed: %w", c.binary, err)
	}
	return nil
}

func (c *Command) argsFor(text string, lang interpret.Language) []string {
	switch c.binary {
	case "espeak", "espeak-ng":
		voice := "en-us"
		if lang == interpret.LangRussian {
			voice = "ru"
		}
		return []string{"-v", voice, text}
	default:
		return []string{text}
	}
}
