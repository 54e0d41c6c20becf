// Package editor runs the user's text editor against a scratch file and
// returns what they wrote.
package editor

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"
)

const (
	VisualEnv      = "VISUAL"
	EditorEnv      = "EDITOR"
	WindowsDefault = "notepad"
	UnixFallback   = "vi"
)

// Candidates are probed on PATH, in order, when no editor is configured.
var Candidates = []string{"nano", "vim", "vi", "emacs"}

type Editor struct {
	Getenv   func(string) string
	LookPath func(string) (string, error)
	GOOS     string

	// Preferred comes from settings.yaml and ranks below $VISUAL and $EDITOR.
	Preferred string
	TempDir   string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func New(preferred string) *Editor {
	return &Editor{
		Getenv:    os.Getenv,
		LookPath:  exec.LookPath,
		GOOS:      runtime.GOOS,
		Preferred: preferred,
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}

// Command returns the editor argv, without the file argument.
func (e *Editor) Command() []string {
	for _, candidate := range []string{e.Getenv(VisualEnv), e.Getenv(EditorEnv), e.Preferred} {
		if fields := strings.Fields(candidate); len(fields) > 0 {
			return fields
		}
	}

	if e.GOOS == "windows" {
		return []string{WindowsDefault}
	}
	for _, name := range Candidates {
		if _, err := e.LookPath(name); err == nil {
			return []string{name}
		}
	}
	return []string{UnixFallback}
}

// Edit writes initial to a temporary file, blocks until the editor exits and
// returns the file's final contents. The file is removed on every path.
func (e *Editor) Edit(initial string) (string, error) {
	argv := e.Command()

	dir := e.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "cla-"+uuid.NewString()+".txt")

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(path)

	if _, err := f.WriteString(initial); err != nil {
		f.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	cmd := exec.Command(argv[0], append(argv[1:], path)...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor %q: %w", strings.Join(argv, " "), err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read edited file: %w", err)
	}
	return string(data), nil
}
