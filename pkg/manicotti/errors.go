package manicotti

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrTransitionInFlight indicates a navigation request arrived while
	// another transition was still running. Requests are rejected, never
	// queued; this is normal flow control under bursty input, not a failure.
	ErrTransitionInFlight = errors.New("transition already in flight")

	// ErrNilDefinition indicates OpenMenu was called without a menu.
	ErrNilDefinition = errors.New("no menu definition given")

	// ErrMenuNotFound indicates a menu name could not be resolved.
	ErrMenuNotFound = errors.New("menu not found")

	// ErrSelfReference indicates an attempt to make a menu its own child.
	ErrSelfReference = errors.New("menu cannot be its own child")

	// ErrCycle indicates a child link that would make a menu its own ancestor.
	ErrCycle = errors.New("child link would create a cycle")

	// ErrDuplicateName indicates two definitions were registered under the
	// same name. Names are the lookup identity and must be unique.
	ErrDuplicateName = errors.New("duplicate menu name")

	// ErrNoViewFactory indicates a panel had to be created but no view
	// factory was configured and the definition has no pre-placed panel.
	ErrNoViewFactory = errors.New("no view factory configured")

	// ErrActivationDeclined indicates a loading screen that took control of
	// scene activation reported it was not ready; the transition is abandoned.
	ErrActivationDeclined = errors.New("loading screen declined scene activation")
)

// ConfigError represents a configuration-level problem: a broken hierarchy
// file, an unresolvable parent, a missing scene reference. The triggering
// operation is aborted with no state change; the navigator keeps running.
type ConfigError struct {
	Op   string // Operation that failed (e.g., "load_hierarchy", "add_child")
	Menu string // Menu name involved, if any
	Err  error  // Underlying error
}

func (e *ConfigError) Error() string {
	if e.Menu != "" {
		return fmt.Sprintf("manicotti: %s: menu %q: %v", e.Op, e.Menu, e.Err)
	}
	return fmt.Sprintf("manicotti: %s: %v", e.Op, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new configuration error.
func NewConfigError(op, menu string, err error) *ConfigError {
	return &ConfigError{Op: op, Menu: menu, Err: err}
}

// IsConfigError checks if an error is a configuration error.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// LoadError represents a scene load that failed after a transition was
// already underway. The in-flight transition is abandoned; callers must
// treat the menu state as possibly inconsistent (the active-menu pointer
// has already moved to the transition's target).
type LoadError struct {
	Scene string // Target scene of the failed load
	Err   error  // Underlying error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("manicotti: loading scene %q: %v", e.Scene, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new load error.
func NewLoadError(scene string, err error) *LoadError {
	return &LoadError{Scene: scene, Err: err}
}

// IsLoadError checks if an error is a scene load error.
func IsLoadError(err error) bool {
	var loadErr *LoadError
	return errors.As(err, &loadErr)
}
