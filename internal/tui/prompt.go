package tui

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// MockPrompts replaces the interactive prompts in tests.
type MockPrompts struct {
	HiddenInputFunc func(title string) (string, error)
}

var mock *MockPrompts

func SetMock(m *MockPrompts) { mock = m }

func ClearMock() { mock = nil }

// HiddenInput asks for a value without echoing it.
func HiddenInput(title string) (string, error) {
	if mock != nil && mock.HiddenInputFunc != nil {
		return mock.HiddenInputFunc(title)
	}

	var result string
	err := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&result).
		Run()
	if err != nil {
		return "", fmt.Errorf("prompt: %w", err)
	}
	return result, nil
}
