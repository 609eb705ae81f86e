package scene

import (
	"context"
	"sync"

	"go.uber.org/atomic"

	"github.com/BrandonKowalski/manicotti/pkg/manicotti/constants"
)

// Operation tracks a single scene load from request to settlement.
//
// An operation is created by a Platform, driven by the platform through
// SetProgress and Complete, and observed by consumers through Progress,
// Ready, Done and the Wait helpers. Completion settles exactly once;
// later Complete calls are ignored.
//
// When the operation was created with deferred activation, progress is
// clamped at the activation hold mark and the platform must not complete
// the load until AllowActivation is called.
type Operation struct {
	target string
	mode   Mode

	deferred bool // created with allowActivation=false

	progress atomic.Float64

	readyOnce sync.Once
	ready     chan struct{} // closed at the activation hold mark (or on completion)

	activateOnce sync.Once
	activate     chan struct{} // closed when activation is allowed

	doneOnce sync.Once
	done     chan struct{}
	err      error // write-once before done closes

	completeFns []func(error) // platform-side settlement hooks
}

// NewOperation creates an operation for the named scene. Platform
// implementations call this from LoadScene; consumers never construct
// operations directly.
func NewOperation(target string, mode Mode, allowActivation bool) *Operation {
	op := &Operation{
		target:   target,
		mode:     mode,
		deferred: !allowActivation,
		ready:    make(chan struct{}),
		activate: make(chan struct{}),
		done:     make(chan struct{}),
	}

	if allowActivation {
		op.activateOnce.Do(func() { close(op.activate) })
	}

	return op
}

// Target returns the name of the scene being loaded.
func (op *Operation) Target() string {
	return op.target
}

// Mode returns the load mode of the operation.
func (op *Operation) Mode() Mode {
	return op.mode
}

// Progress returns the current fractional progress in [0, 1].
func (op *Operation) Progress() float64 {
	return op.progress.Load()
}

// IsDone reports whether the operation has settled. Once true it stays true.
func (op *Operation) IsDone() bool {
	select {
	case <-op.done:
		return true
	default:
		return false
	}
}

// Err returns the settlement error, or nil. Only meaningful after IsDone.
func (op *Operation) Err() error {
	select {
	case <-op.done:
		return op.err
	default:
		return nil
	}
}

// Ready returns a channel closed when progress reaches the activation hold
// mark (or when the operation settles, whichever comes first).
func (op *Operation) Ready() <-chan struct{} {
	return op.ready
}

// Done returns a channel closed when the operation settles.
func (op *Operation) Done() <-chan struct{} {
	return op.done
}

// ActivationAllowed reports whether the load may activate the scene.
func (op *Operation) ActivationAllowed() bool {
	select {
	case <-op.activate:
		return true
	default:
		return false
	}
}

// AllowActivation releases a deferred operation so the platform may
// activate the scene and finish the load. Safe to call more than once.
func (op *Operation) AllowActivation() {
	op.activateOnce.Do(func() { close(op.activate) })
}

// Activation returns a channel closed once activation is allowed.
// Platform implementations wait on this for deferred loads.
func (op *Operation) Activation() <-chan struct{} {
	return op.activate
}

// WaitReady suspends the caller until the operation reaches the activation
// hold mark or settles, honoring ctx cancellation.
func (op *Operation) WaitReady(ctx context.Context) error {
	select {
	case <-op.ready:
		return nil
	case <-op.done:
		return op.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait suspends the caller until the operation settles, honoring ctx
// cancellation, and returns the settlement error.
func (op *Operation) Wait(ctx context.Context) error {
	select {
	case <-op.done:
		return op.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OnComplete registers fn to run exactly once when the operation settles.
// Must be called before the platform starts driving the operation;
// registration after settlement is not delivered.
func (op *Operation) OnComplete(fn func(error)) {
	op.completeFns = append(op.completeFns, fn)
}

// SetProgress records load progress. Platform implementations call this;
// a deferred operation clamps at the activation hold mark until
// activation is allowed.
func (op *Operation) SetProgress(p float64) {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}

	if op.deferred && !op.ActivationAllowed() && p > constants.ActivationHoldProgress {
		p = constants.ActivationHoldProgress
	}

	op.progress.Store(p)

	if p >= constants.ActivationHoldProgress {
		op.readyOnce.Do(func() { close(op.ready) })
	}
}

// Complete settles the operation. A nil err marks success and snaps
// progress to 1. Only the first call has any effect.
//
// Settlement hooks run before the done channel closes, so platform state
// (active scene, loaded set) is already committed when Wait returns.
func (op *Operation) Complete(err error) {
	op.doneOnce.Do(func() {
		op.err = err
		if err == nil {
			op.progress.Store(1)
		}
		op.readyOnce.Do(func() { close(op.ready) })

		for _, fn := range op.completeFns {
			fn(err)
		}

		close(op.done)
	})
}
