package config

import "fmt"

const (
	DefaultGatewayPort = 8081
	DefaultReportPort  = 4310

	// Report sessions idle out after this many minutes.
	DefaultSessionTTLMinutes = 120

	// Expired sessions are swept on this cron schedule.
	DefaultCleanupSchedule = "*/10 * * * *"

	DefaultFontDir = "./fonts"
)

// IntOption reads an int from a service config map. YAML numbers arrive as
// int, int64 or float64 depending on the decoder path, strings come from env
// substitution.
func IntOption(cfg map[string]interface{}, key string, fallback int) int {
	if cfg == nil {
		return fallback
	}
	v, ok := cfg[key]
	if !ok || v == nil {
		return fallback
	}
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		var parsed int
		if _, err := fmt.Sscanf(t, "%d", &parsed); err == nil {
			return parsed
		}
	}
	return fallback
}

// StringOption reads a string from a service config map.
func StringOption(cfg map[string]interface{}, key, fallback string) string {
	if cfg == nil {
		return fallback
	}
	if v, ok := cfg[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
