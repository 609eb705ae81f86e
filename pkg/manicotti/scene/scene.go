// Package scene defines the boundary to whatever owns real scene
// lifecycles: a game engine, a window manager, or the in-memory platform
// shipped with this package.
//
// The navigation engine never loads scenes itself. It asks a Platform to
// start a load, observes the returned Operation (progress, deferred
// activation, one-shot completion), and reacts to "scene finished loading"
// notifications that may arrive independently of any load it initiated
// (for example the very first scene at application startup).
package scene

// Mode selects how a scene load interacts with scenes that are already loaded.
type Mode int

const (
	// ModeReplace unloads all currently loaded scenes before activating
	// the new one. Objects living in the old scenes are destroyed.
	ModeReplace Mode = iota

	// ModeAdditive loads the scene alongside the ones already present.
	ModeAdditive
)

// String returns the string representation of the load mode.
func (m Mode) String() string {
	switch m {
	case ModeReplace:
		return "Replace"
	case ModeAdditive:
		return "Additive"
	default:
		return "Unknown"
	}
}

// LoadedFunc observes scenes finishing their load, regardless of who
// initiated it.
type LoadedFunc func(name string, mode Mode)

// Platform is the contract a scene host must satisfy.
//
// Implementations must deliver SceneLoaded notifications for every load
// that completes, including loads the navigation engine did not initiate.
type Platform interface {
	// LoadScene begins loading the named scene and returns the operation
	// tracking it. When allowActivation is false the operation stalls at
	// the activation hold mark until Operation.AllowActivation is called.
	//
	// Load failures (unknown scene, I/O errors) surface through the
	// returned operation, not through the error result; the error result
	// reports request-level problems such as an empty scene name.
	LoadScene(name string, mode Mode, allowActivation bool) (*Operation, error)

	// ActiveScene returns the name of the currently active scene.
	ActiveScene() string

	// SceneLoaded registers fn to be invoked whenever a scene finishes
	// loading. Registration is not removable; register once at startup.
	SceneLoaded(fn LoadedFunc)
}
