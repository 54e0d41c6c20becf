// Package prompt assembles the text handed to the agent from the command
// argument, piped stdin and, failing both, an editor session.
package prompt

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNoInput = errors.New("No input provided")

// Source is where prompt text can come from besides the argument.
type Source interface {
	// Interactive reports whether stdin is attached to a terminal.
	Interactive() bool
	// ReadAll drains stdin.
	ReadAll() (string, error)
	// Edit opens an editor seeded with initial and returns the saved text.
	Edit(initial string) (string, error)
}

// Resolve picks the prompt text. Piped stdin is read only when stdin is not a
// terminal; argument and piped text are joined with a single space. The editor
// is used only when both are empty.
func Resolve(arg string, src Source) (string, error) {
	var piped string
	if !src.Interactive() {
		raw, err := src.ReadAll()
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		piped = strings.TrimSpace(raw)
	}

	var text string
	switch {
	case arg != "" && piped != "":
		text = arg + " " + piped
	case arg != "":
		text = arg
	case piped != "":
		text = piped
	default:
		edited, err := src.Edit("")
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(edited)
	}

	if text == "" {
		return "", ErrNoInput
	}
	return text, nil
}
