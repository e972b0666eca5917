package config

import (
	"testing"
	"time"

	"github.com/BurntSushi/toml"
)

func TestResolveDefaults(t *testing.T) {
	cfg := Resolve(&Settings{})

	if cfg.APIBaseURL != "http://localhost:8000/api" {
		t.Errorf("base url = %q, want the local backend default", cfg.APIBaseURL)
	}
	if cfg.FastRefresh != 30*time.Second {
		t.Errorf("fast refresh = %v, want 30s", cfg.FastRefresh)
	}
	if cfg.SlowRefresh != 120*time.Second {
		t.Errorf("slow refresh = %v, want 120s", cfg.SlowRefresh)
	}
	if cfg.DefaultMetric != "z_rms" {
		t.Errorf("default metric = %q, want z_rms", cfg.DefaultMetric)
	}
	if cfg.DataDirectory == "" {
		t.Error("data directory should default to a real path")
	}
}

func TestResolveFromSettings(t *testing.T) {
	var settings Settings
	doc := `
[api]
base_url = "https://plant-7.example.com/api"

[refresh]
fast_seconds = 15
slow_seconds = 300

[defaults]
metric = "x_rms"
`
	if _, err := toml.Decode(doc, &settings); err != nil {
		t.Fatalf("decode settings: %v", err)
	}

	cfg := Resolve(&settings)
	if cfg.APIBaseURL != "https://plant-7.example.com/api" {
		t.Errorf("base url = %q", cfg.APIBaseURL)
	}
	if cfg.FastRefresh != 15*time.Second || cfg.SlowRefresh != 300*time.Second {
		t.Errorf("refresh = %v/%v, want 15s/5m", cfg.FastRefresh, cfg.SlowRefresh)
	}
	if cfg.DefaultMetric != "x_rms" {
		t.Errorf("default metric = %q, want x_rms", cfg.DefaultMetric)
	}
}

func TestResolveRejectsNonPositiveIntervals(t *testing.T) {
	cfg := Resolve(&Settings{Refresh: RefreshSettings{FastSeconds: -5, SlowSeconds: 0}})
	if cfg.FastRefresh != 30*time.Second || cfg.SlowRefresh != 120*time.Second {
		t.Errorf("non-positive intervals should fall back to defaults, got %v/%v",
			cfg.FastRefresh, cfg.SlowRefresh)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PMDASH_API_URL", "http://10.0.0.5:9000/api")
	t.Setenv("PMDASH_DATA_DIR", "/tmp/pmdash-test")

	cfg := Resolve(&Settings{})
	cfg.applyEnvOverrides()

	if cfg.APIBaseURL != "http://10.0.0.5:9000/api" {
		t.Errorf("env override for api url not applied: %q", cfg.APIBaseURL)
	}
	if cfg.DataDirectory != "/tmp/pmdash-test" {
		t.Errorf("env override for data dir not applied: %q", cfg.DataDirectory)
	}
}

func TestCheckDebug(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"false", false},
		{"", false},
		{"yes", false},
	}
	for _, tt := range tests {
		t.Setenv("PMDASH_DEBUG", tt.value)
		if got := CheckDebug(); got != tt.want {
			t.Errorf("CheckDebug with PMDASH_DEBUG=%q = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestGenerateSettingsTemplateParses(t *testing.T) {
	var settings Settings
	if _, err := toml.Decode(GenerateSettingsTemplate(), &settings); err != nil {
		t.Fatalf("generated template is not valid TOML: %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home := GetHomeDir()
	tests := []struct {
		in   string
		want string
	}{
		{"~/photos/pump.jpg", home + "/photos/pump.jpg"},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
