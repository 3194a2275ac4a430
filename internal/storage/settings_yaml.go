package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"pomify/internal/core/model"
)

const (
	settingsFileName = "settings.yaml"
	databaseFileName = "pomify.db"
)

type yamlSettings struct {
	WorkMinutes      int   `yaml:"work_minutes"`
	BreakMinutes     int   `yaml:"break_minutes"`
	SoundEnabled     *bool `yaml:"sound_enabled"`
	PauseWhenIdle    bool  `yaml:"pause_when_idle"`
	IdleAfterMinutes int   `yaml:"idle_after_minutes"`
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (model.Preferences, error) {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return model.DefaultPreferences(), err
	}
	return LoadSettingsFrom(configPath)
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(appName string, settings model.Preferences) error {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return err
	}
	return SaveSettingsTo(configPath, settings)
}

// LoadSettingsFrom reads preferences from an explicit path. Fields that are
// missing or out of range keep their default value.
func LoadSettingsFrom(configPath string) (model.Preferences, error) {
	settings := model.DefaultPreferences()

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettingsTo writes preferences to an explicit path, creating parent
// directories as needed.
func SaveSettingsTo(configPath string, settings model.Preferences) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	soundEnabled := settings.Timer.SoundEnabled
	fileData := yamlSettings{
		WorkMinutes:      settings.Timer.WorkDuration,
		BreakMinutes:     settings.Timer.BreakDuration,
		SoundEnabled:     &soundEnabled,
		PauseWhenIdle:    settings.PauseWhenIdle,
		IdleAfterMinutes: int(settings.IdleAfter / time.Minute),
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// SettingsPath returns <UserConfigDir>/<appName>/settings.yaml.
func SettingsPath(appName string) (string, error) {
	return appFile(appName, settingsFileName)
}

// DatabasePath returns the local session history database path next to the
// settings file.
func DatabasePath(appName string) (string, error) {
	return appFile(appName, databaseFileName)
}

func appFile(appName, name string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, name), nil
}

func applyYamlSettings(settings *model.Preferences, fileData yamlSettings) {
	if fileData.WorkMinutes > 0 {
		settings.Timer.WorkDuration = fileData.WorkMinutes
	}
	if fileData.BreakMinutes > 0 {
		settings.Timer.BreakDuration = fileData.BreakMinutes
	}
	if fileData.SoundEnabled != nil {
		settings.Timer.SoundEnabled = *fileData.SoundEnabled
	}
	if fileData.IdleAfterMinutes > 0 {
		settings.IdleAfter = time.Duration(fileData.IdleAfterMinutes) * time.Minute
	}

	settings.PauseWhenIdle = fileData.PauseWhenIdle
}
