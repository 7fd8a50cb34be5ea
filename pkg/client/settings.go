package client

import (
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings stores user preferences persisted as YAML next to the binary.
type Settings struct {
	ServerURL string `yaml:"server_url"`
}

// DefaultSettings returns default settings.
func DefaultSettings() *Settings {
	return &Settings{
		ServerURL: "http://localhost:8100",
	}
}

func settingsPath() string {
	exe, err := os.Executable()
	if err != nil {
		return "settings.yaml"
	}
	return filepath.Join(filepath.Dir(exe), "settings.yaml")
}

// LoadSettings loads settings from YAML or returns defaults.
func LoadSettings() *Settings {
	s := DefaultSettings()
	data, err := os.ReadFile(settingsPath())
	if err != nil {
		return s
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		slog.Error("parse settings", "err", err)
		return DefaultSettings()
	}
	if s.ServerURL == "" {
		s.ServerURL = DefaultSettings().ServerURL
	}
	return s
}

// Save writes settings to YAML.
func (s *Settings) Save() error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(settingsPath(), data, 0600)
}
