package config

import (
	"path/filepath"

	"github.com/xmazu/cl-agent/internal/storage"
)

const SettingsFileName = "settings.yaml"

// Settings holds optional user preferences read from settings.yaml.
type Settings struct {
	Editor string `yaml:"editor"`
}

func SettingsPath(dir string) string {
	return filepath.Join(dir, SettingsFileName)
}

// LoadSettings reads settings.yaml from dir. A missing file yields zero
// Settings. A malformed file yields zero Settings and a *storage.ParseError.
func LoadSettings(dir string) (Settings, error) {
	var s Settings
	if _, err := storage.NewYAMLFile(SettingsPath(dir)).Load(&s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// SaveSettings writes s to settings.yaml in dir, readable by the owner only.
func SaveSettings(dir string, s Settings) error {
	return storage.NewYAMLFile(SettingsPath(dir)).Save(s)
}
