package manicotti

// TransitionEvent describes one completed navigation attempt. It is
// delivered exactly once per attempt that acquired the transition guard,
// whether the attempt succeeded or failed; requests rejected by the guard
// produce no event.
type TransitionEvent struct {
	// From is the menu that was active before the attempt, or nil.
	From *Definition

	// To is the menu the attempt targeted.
	To *Definition

	// SceneChanged reports whether the attempt involved a scene swap.
	SceneChanged bool

	// Err is nil on success. A non-nil Err means the transition was
	// abandoned partway: the active-menu pointer has already moved to To
	// and callers must treat the menu state as possibly inconsistent.
	Err error
}

// TransitionFunc observes completed navigation attempts.
type TransitionFunc func(ev TransitionEvent)
