// Package logging provides structured logging for modelmerge using zerolog.
// It offers human-readable console output when attached to a terminal and
// structured JSON output when piped, so merge runs can be inspected by
// operators and ingested by log collectors alike.
//
// Example usage:
//
//	log := logging.Default()
//	log.Info().Int("records", 812).Msg("Loaded catalog")
//
//	ctx := logging.WithLogger(context.Background(), log)
//	ctx = logging.WithRunID(ctx, runID)
//	logging.FromContext(ctx).Debug().Str("base_id", "veo-3-fast").Msg("Merged pair")
package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger is used when no logger travels in the context.
var defaultLogger zerolog.Logger

func init() {
	defaultLogger = NewLoggerFromConfig(EnvConfig())
}

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault sets the default global logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
