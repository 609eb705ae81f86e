// Package manicotti is a navigation engine for hierarchical menus that may
// live in different loadable scenes of a larger application.
//
// Given a request to show a menu, the Navigator decides whether a scene
// swap is required, orchestrates the ordered hide/load/show sequence
// behind an optional loading screen, and leaves the application with a
// single well-defined active menu — while rejecting overlapping
// transitions and supporting back-navigation through a stack.
//
// The engine owns lifecycle and ordering only. Rendering of panels and
// loading screens, asset instantiation, and input handling are
// collaborators behind the ViewFactory, Screen, FocusOwner and
// scene.Platform boundaries; SDL-backed implementations of the first
// three live under platform/.
package manicotti

import (
	"log/slog"
	"os"

	"github.com/BrandonKowalski/manicotti/pkg/manicotti/constants"
	"github.com/BrandonKowalski/manicotti/pkg/manicotti/internal"
)

// Options configures engine-wide infrastructure.
type Options struct {
	LogPath  string // Full path for the log file including filename (creates parent directories)
	LogLevel string // Minimum log level: "debug", "info", "warn", "error"
}

// Init configures logging for the engine. Optional; everything works with
// the defaults (stdout, info level). Environment variables
// MANICOTTI_LOG_PATH and MANICOTTI_LOG_LEVEL override the options.
func Init(options Options) {
	logPath := options.LogPath
	if v := os.Getenv(constants.LogPathEnvVar); v != "" {
		logPath = v
	}
	if logPath != "" {
		internal.SetLogPath(logPath)
	}

	level := options.LogLevel
	if v := os.Getenv(constants.LogLevelEnvVar); v != "" {
		level = v
	}
	if level != "" {
		internal.SetRawLogLevel(level)
	}

	if constants.IsDevMode() {
		internal.SetInternalLogLevel(slog.LevelDebug)
	} else {
		internal.SetInternalLogLevel(slog.LevelError)
	}
}

// Close releases logging resources. Call before program exit.
func Close() {
	internal.CloseLogger()
}

// GetLogger returns the engine's logger for structured logging.
func GetLogger() *slog.Logger {
	return internal.GetLogger()
}

// SetLogPath sets the full path for the log file, including filename.
// Call before Init() or the first log line to take effect.
func SetLogPath(path string) {
	internal.SetLogPath(path)
}

// SetRawLogLevel parses and sets the log level from a string
// (e.g., "debug", "info", "error").
func SetRawLogLevel(level string) {
	internal.SetRawLogLevel(level)
}
