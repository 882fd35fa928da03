package app

import (
	"testing"
)

// TestDetermineLogLevel tests the log level precedence logic.
func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{name: "default", config: &Config{}, expected: "info"},
		{name: "verbose", config: &Config{Verbose: true}, expected: "debug"},
		{name: "quiet", config: &Config{Quiet: true}, expected: "warn"},
		{name: "verbose and quiet prefers quiet", config: &Config{Verbose: true, Quiet: true}, expected: "warn"},
		{name: "explicit level beats verbose", config: &Config{LogLevel: "error", Verbose: true}, expected: "error"},
		{name: "explicit level beats quiet", config: &Config{LogLevel: "trace", Quiet: true}, expected: "trace"},
		{name: "invalid level falls back to info", config: &Config{LogLevel: "loud"}, expected: "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := determineLogLevel(tt.config); got != tt.expected {
				t.Errorf("determineLogLevel() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

// TestValidateLogLevel tests log level validation.
func TestValidateLogLevel(t *testing.T) {
	for _, level := range []string{"trace", "debug", "info", "warn", "error"} {
		if got := validateLogLevel(level); got != level {
			t.Errorf("validateLogLevel(%q) = %q", level, got)
		}
	}
	for _, level := range []string{"", "WARN", "fatal", "verbose"} {
		if got := validateLogLevel(level); got != "info" {
			t.Errorf("validateLogLevel(%q) = %q, expected info", level, got)
		}
	}
}

// TestNewLogger verifies the logger honors the configured level.
func TestNewLogger(t *testing.T) {
	logger := NewLogger(&Config{Quiet: true, LogFormat: "json", LogOutput: "discard"})
	if logger.GetLevel().String() != "warn" {
		t.Errorf("logger level = %s, want warn", logger.GetLevel())
	}
}
