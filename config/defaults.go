package config

func DefaultSettings() *Settings {
	return &Settings{
		API: APISettings{
			BaseURL: "http://localhost:8000/api",
		},
		Refresh: RefreshSettings{
			FastSeconds: 30,
			SlowSeconds: 120,
		},
		Defaults: DefaultsSettings{
			Metric: "z_rms",
		},
	}
}

func GenerateSettingsTemplate() string {
	return `# pmdash Configuration
# Location: ~/.config/pmdash/settings.toml
# This file uses TOML format: https://toml.io

[api]
# Base URL of the predictive maintenance backend, including any path prefix
base_url = "http://localhost:8000/api"

[refresh]
# Fast cadence: summary, forecast, anomalies, feature importance
fast_seconds = 30

# Slow cadence: work-order history
slow_seconds = 120

[defaults]
# Metric selected when the dashboard starts
metric = "z_rms"
`
}
