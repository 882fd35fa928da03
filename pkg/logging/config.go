package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/modelmerge/pkg/constants"
)

// Config holds logger configuration options.
type Config struct {
	Level      string // trace, debug, info, warn, error, disabled
	Format     string // json, console, auto
	Output     string // stderr, stdout, discard, or a file path
	TimeFormat string // kitchen, rfc3339, unix, or a Go layout
	NoColor    bool   // console mode only
	AddCaller  bool   // include file:line
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		Format:     "auto",
		Output:     "stderr",
		TimeFormat: "kitchen",
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
}

// EnvConfig returns DefaultConfig adjusted by LOG_LEVEL, LOG_FORMAT and
// DEBUG. It configures the default logger before any flags are parsed.
func EnvConfig() *Config {
	cfg := DefaultConfig()
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Level = level
	} else if os.Getenv("DEBUG") != "" {
		cfg.Level = "debug"
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		cfg.Format = format
	}
	return cfg
}

// NewLoggerFromConfig creates a logger and sets the zerolog global level to
// match. Debug and trace levels always include the caller.
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	logCtx := zerolog.New(writerFor(cfg)).Level(level).With().Timestamp()
	if cfg.AddCaller || level <= zerolog.DebugLevel {
		logCtx = logCtx.Caller()
	}
	return logCtx.Logger()
}

// Configure replaces the default logger.
func Configure(cfg *Config) {
	SetDefault(NewLoggerFromConfig(cfg))
}

// writerFor opens the configured output and wraps it in a console writer
// when the format asks for one, or when auto meets a terminal.
func writerFor(cfg *Config) io.Writer {
	out := openOutput(cfg.Output)

	console := false
	switch strings.ToLower(cfg.Format) {
	case "console", "pretty":
		console = true
	case "", "auto":
		f, ok := out.(*os.File)
		console = ok && isTerminal(f)
	}
	if !console {
		return out
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: parseTimeFormat(cfg.TimeFormat),
		NoColor:    cfg.NoColor,
	}
}

// openOutput resolves an output name. A file that cannot be opened falls
// back to stderr.
func openOutput(name string) io.Writer {
	switch strings.ToLower(name) {
	case "", "stderr":
		return os.Stderr
	case "stdout":
		return os.Stdout
	case "discard", "none":
		return io.Discard
	}
	f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions) //nolint:gosec
	if err != nil {
		return os.Stderr
	}
	return f
}

// parseLevel accepts zerolog level names plus a few aliases. Unknown or
// empty names mean info.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "":
		return zerolog.InfoLevel
	case "warning":
		return zerolog.WarnLevel
	case "none", "off":
		return zerolog.Disabled
	}
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}

// parseTimeFormat maps a time format name to a layout. Unix timestamps use
// the empty layout.
func parseTimeFormat(format string) string {
	switch strings.ToLower(format) {
	case "", "kitchen":
		return time.Kitchen
	case "rfc3339":
		return time.RFC3339
	case "unix", "epoch":
		return ""
	}
	if strings.Contains(format, "2006") || strings.Contains(format, "15:04") {
		return format
	}
	return time.Kitchen
}
