package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	UserPathEnv   = "CLA_USER_PATH"
	AppDataEnv    = "APPDATA"
	XDGConfigEnv  = "XDG_CONFIG_HOME"
	ConfigSubdir  = "cl-agent"
	macOSMarkPath = "/Applications"
)

// Resolver computes the per-user directory cla keeps its files in. Every
// probe of the host is a field so callers can pin the answer in tests.
type Resolver struct {
	Getenv      func(string) string
	UserHomeDir func() (string, error)
	Exists      func(string) bool
	GOOS        string
}

func NewResolver() *Resolver {
	return &Resolver{
		Getenv:      os.Getenv,
		UserHomeDir: os.UserHomeDir,
		Exists:      pathExists,
		GOOS:        runtime.GOOS,
	}
}

// Path returns the configuration directory without touching the filesystem.
func (r *Resolver) Path() string {
	if d := r.Getenv(UserPathEnv); d != "" {
		return d
	}

	if r.GOOS == "windows" {
		if appData := r.Getenv(AppDataEnv); appData != "" {
			return filepath.Join(appData, ConfigSubdir)
		}
		return r.underHome("AppData", "Roaming")
	}

	if xdg := r.Getenv(XDGConfigEnv); xdg != "" {
		return filepath.Join(xdg, ConfigSubdir)
	}

	if r.Exists(macOSMarkPath) {
		return r.underHome("Library", "Application Support")
	}
	return r.underHome(".config")
}

// Resolve returns the configuration directory, creating it and any missing
// parents.
func (r *Resolver) Resolve() (string, error) {
	dir := r.Path()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	return dir, nil
}

func (r *Resolver) underHome(elem ...string) string {
	home, _ := r.UserHomeDir()
	if home == "" {
		return filepath.Join(".", ConfigSubdir)
	}
	parts := append([]string{home}, elem...)
	return filepath.Join(append(parts, ConfigSubdir)...)
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
