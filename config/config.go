package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Settings is the on-disk TOML shape of the dashboard configuration.
type Settings struct {
	API      APISettings      `toml:"api"`
	Refresh  RefreshSettings  `toml:"refresh"`
	Defaults DefaultsSettings `toml:"defaults"`
}

type APISettings struct {
	BaseURL string `toml:"base_url"`
}

type RefreshSettings struct {
	FastSeconds int `toml:"fast_seconds"`
	SlowSeconds int `toml:"slow_seconds"`
}

type DefaultsSettings struct {
	Metric string `toml:"metric"`
}

// Config is the resolved runtime configuration.
type Config struct {
	APIBaseURL    string
	FastRefresh   time.Duration
	SlowRefresh   time.Duration
	DefaultMetric string
	DataDirectory string
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("PMDASH_API_URL"); url != "" {
		c.APIBaseURL = url
	}
	if dataDir := os.Getenv("PMDASH_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
}

func CheckDebug() bool {
	debug := os.Getenv("PMDASH_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (PMDASH_DEBUG=%s) ===", os.Getenv("PMDASH_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

// LoadSettings reads settings.toml, creating it with defaults on first run.
func LoadSettings() (*Settings, error) {
	settings := DefaultSettings()
	settingsPath := GetSettingsFilePath()

	if !FileExists(settingsPath) {
		if err := CreateDefaultSettings(); err != nil {
			return nil, fmt.Errorf("failed to create settings file: %w", err)
		}
		return settings, nil
	}

	if _, err := toml.DecodeFile(settingsPath, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}

	return settings, nil
}

// Load resolves the runtime configuration: settings file, defaults for
// anything unset, then environment overrides.
func Load() (*Config, error) {
	settings, err := LoadSettings()
	if err != nil {
		return nil, err
	}

	cfg := Resolve(settings)
	cfg.applyEnvOverrides()

	if err := EnsureDir(cfg.DataDir()); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// Resolve turns file settings into a runtime Config, filling defaults for
// anything unset.
func Resolve(settings *Settings) *Config {
	defaults := DefaultSettings()

	cfg := &Config{
		APIBaseURL:    settings.API.BaseURL,
		DefaultMetric: settings.Defaults.Metric,
		DataDirectory: GetDefaultDataDir(),
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaults.API.BaseURL
	}
	if cfg.DefaultMetric == "" {
		cfg.DefaultMetric = defaults.Defaults.Metric
	}

	fast := settings.Refresh.FastSeconds
	if fast <= 0 {
		fast = defaults.Refresh.FastSeconds
	}
	slow := settings.Refresh.SlowSeconds
	if slow <= 0 {
		slow = defaults.Refresh.SlowSeconds
	}
	cfg.FastRefresh = time.Duration(fast) * time.Second
	cfg.SlowRefresh = time.Duration(slow) * time.Second

	return cfg
}

// CreateDefaultSettings writes the commented default settings.toml.
func CreateDefaultSettings() error {
	configDir := GetConfigDir()
	if err := EnsureDir(configDir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	settingsPath := GetSettingsFilePath()
	return os.WriteFile(settingsPath, []byte(GenerateSettingsTemplate()), 0600)
}
