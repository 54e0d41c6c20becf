package prompt

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Editor is the part of *editor.Editor the terminal source needs.
type Editor interface {
	Edit(initial string) (string, error)
}

// Terminal is the Source backed by the process's real stdin and an external
// editor.
type Terminal struct {
	Stdin  *os.File
	Editor Editor
}

func (t *Terminal) Interactive() bool {
	return term.IsTerminal(int(t.Stdin.Fd()))
}

func (t *Terminal) ReadAll() (string, error) {
	data, err := io.ReadAll(t.Stdin)
	return string(data), err
}

func (t *Terminal) Edit(initial string) (string, error) {
	return t.Editor.Edit(initial)
}

// Canned is a Source that replays fixed input. EditCalls counts editor
// sessions so callers can check the editor was skipped.
type Canned struct {
	Terminal bool
	Stdin    string
	Edited   string
	StdinErr error
	EditErr  error

	EditCalls int
}

func (c *Canned) Interactive() bool { return c.Terminal }

func (c *Canned) ReadAll() (string, error) {
	return c.Stdin, c.StdinErr
}

func (c *Canned) Edit(initial string) (string, error) {
	c.EditCalls++
	if c.EditErr != nil {
		return "", c.EditErr
	}
	return initial + c.Edited, nil
}
