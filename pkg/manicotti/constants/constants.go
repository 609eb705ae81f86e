// Package constants defines shared constants and configuration values
// used throughout the manicotti navigation engine.
package constants

import (
	"os"
	"time"
)

// Development is the environment variable value for development mode.
const Development = "DEV"

// LogPathEnvVar is the environment variable name for a custom log file path.
const LogPathEnvVar = "MANICOTTI_LOG_PATH"

// LogLevelEnvVar is the environment variable name for the initial log level.
const LogLevelEnvVar = "MANICOTTI_LOG_LEVEL"

// IsDevMode returns true if running in development mode (ENVIRONMENT=DEV).
func IsDevMode() bool {
	return os.Getenv("ENVIRONMENT") == Development
}

// ActivationHoldProgress is the progress mark where a scene load operation
// created with deferred activation stalls until activation is allowed.
const ActivationHoldProgress = 0.9

// Default timing constants.
const (
	DefaultFadeDuration = 250 * time.Millisecond // Loading screen fade in/out duration
	DefaultLoadStep     = 10 * time.Millisecond  // Progress tick interval for the in-memory platform
)
