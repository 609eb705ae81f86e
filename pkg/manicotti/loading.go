package manicotti

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/atomic"

	"github.com/BrandonKowalski/manicotti/pkg/manicotti/internal"
	"github.com/BrandonKowalski/manicotti/pkg/manicotti/scene"
)

// Screen is the pluggable loading-screen contract. A screen owns the
// visuals shown while a scene swap runs and may take control of when the
// new scene activates.
//
// All methods suspend the transition flow until they return; they must
// honor ctx cancellation. A screen that takes activation control via
// OnBeforeSceneLoad is asked through OnAfterSceneLoad whether the scene
// may activate; returning false abandons the transition with
// ErrActivationDeclined rather than holding the load forever.
type Screen interface {
	// ShowAsync plays the screen's entrance and returns when it is fully
	// visible.
	ShowAsync(ctx context.Context) error

	// HideAsync plays the screen's exit and returns when it is fully
	// hidden.
	HideAsync(ctx context.Context) error

	// OnBeforeSceneLoad runs after the screen is visible and before the
	// load starts. Returning controlsActivation=true defers scene
	// activation to the screen: the load will stall at the activation
	// hold mark until the screen reports ready through OnAfterSceneLoad.
	OnBeforeSceneLoad(ctx context.Context, current, target string, mode scene.Mode) (controlsActivation bool, err error)

	// OnAfterSceneLoad runs once a deferred load reaches the activation
	// hold mark. Return true when the screen is ready for the scene to
	// activate. Only called on screens that took activation control.
	OnAfterSceneLoad(ctx context.Context, loaded string) (readyToActivate bool, err error)
}

// nullScreen is the no-screen fallback: every hook is an immediate no-op
// and activation control is never requested, so a coordinator using it
// degenerates to a bare scene load.
type nullScreen struct{}

func (nullScreen) ShowAsync(context.Context) error { return nil }
func (nullScreen) HideAsync(context.Context) error { return nil }
func (nullScreen) OnBeforeSceneLoad(context.Context, string, string, scene.Mode) (bool, error) {
	return false, nil
}
func (nullScreen) OnAfterSceneLoad(context.Context, string) (bool, error) { return true, nil }

// FocusOwner relocates input-event routing to a holder that survives a
// scene replacement, and restores it afterwards. A scene swap can destroy
// whatever object currently owns event routing; the coordinator parks
// ownership before the swap and restores it in a guaranteed cleanup step.
type FocusOwner interface {
	Relocate() error
	Restore() error
}

// nullFocus is the no-op focus owner used when none is configured.
type nullFocus struct{}

func (nullFocus) Relocate() error { return nil }
func (nullFocus) Restore() error  { return nil }

// LoadingCoordinator sequences a scene swap behind a loading screen:
// show screen, load scene (optionally deferring activation), let the
// screen react, activate, hide screen. With no screen configured it runs
// a bare load.
//
// At most one screen is owned at a time. Whatever happens inside a step —
// load failure, hook error, panic in a hook — focus ownership is restored
// and the active flag is cleared before Load returns.
type LoadingCoordinator struct {
	platform scene.Platform
	screen   Screen
	focus    FocusOwner
	active   atomic.Bool
	log      *slog.Logger
}

// NewLoadingCoordinator creates a coordinator with no screen configured;
// loads run bare until UseScreen installs one.
func NewLoadingCoordinator(platform scene.Platform) *LoadingCoordinator {
	return &LoadingCoordinator{
		platform: platform,
		screen:   nullScreen{},
		focus:    nullFocus{},
		log:      internal.GetLogger(),
	}
}

// UseScreen installs a loading screen. The candidate is validated at
// configuration time: anything that does not satisfy the Screen contract
// is logged and discarded, leaving the bare-load fallback in place.
func (c *LoadingCoordinator) UseScreen(candidate any) {
	if candidate == nil {
		c.screen = nullScreen{}
		return
	}
	s, ok := candidate.(Screen)
	if !ok {
		c.log.Error("loading screen rejected: required hooks missing",
			"type", fmt.Sprintf("%T", candidate))
		return
	}
	c.screen = s
}

// UseFocusOwner installs the focus relocation collaborator.
func (c *LoadingCoordinator) UseFocusOwner(f FocusOwner) {
	if f == nil {
		c.focus = nullFocus{}
		return
	}
	c.focus = f
}

// IsLoadingScreenActive reports whether a coordinated load is currently
// in flight. Guaranteed false again once Load returns, on every path.
func (c *LoadingCoordinator) IsLoadingScreenActive() bool {
	return c.active.Load()
}

// Load performs one coordinated scene swap. It suspends the caller until
// the swap finishes or fails; the navigator's guard ensures only one
// transition flow reaches here at a time.
func (c *LoadingCoordinator) Load(ctx context.Context, target string, mode scene.Mode) (err error) {
	c.active.Store(true)

	if ferr := c.focus.Relocate(); ferr != nil {
		c.log.Warn("focus relocation failed; continuing", "error", ferr)
	}

	scr := c.screen
	shown := false

	// Restore must run even when a hook panics or a step fails: leaving
	// focus parked would break input routing permanently. A screen left
	// visible by a failed step gets a best-effort hide.
	defer func() {
		if err != nil && shown {
			if herr := scr.HideAsync(context.WithoutCancel(ctx)); herr != nil {
				c.log.Warn("loading screen hide failed after error", "error", herr)
			}
		}
		if ferr := c.focus.Restore(); ferr != nil {
			c.log.Warn("focus restore failed", "error", ferr)
		}
		c.active.Store(false)
	}()

	c.log.Debug("loading: screen showing", "target", target)
	if err = scr.ShowAsync(ctx); err != nil {
		return err
	}
	shown = true

	controls, err := scr.OnBeforeSceneLoad(ctx, c.platform.ActiveScene(), target, mode)
	if err != nil {
		return err
	}

	c.log.Debug("loading: scene loading", "target", target, "mode", mode.String(), "deferred", controls)
	op, err := c.platform.LoadScene(target, mode, !controls)
	if err != nil {
		return NewLoadError(target, err)
	}

	if controls {
		// A deferred load abandoned without settlement would hold the
		// platform's driver at the activation gate forever.
		defer func() {
			if err != nil {
				op.Complete(err)
			}
		}()
	}

	if err = op.WaitReady(ctx); err != nil {
		return NewLoadError(target, err)
	}

	if controls {
		c.log.Debug("loading: screen reacting", "target", target)
		ready, herr := scr.OnAfterSceneLoad(ctx, target)
		if herr != nil {
			return herr
		}
		if !ready {
			return ErrActivationDeclined
		}
		op.AllowActivation()
	}

	c.log.Debug("loading: activating", "target", target)
	if err = op.Wait(ctx); err != nil {
		return NewLoadError(target, err)
	}

	// Even when ctx is already cancelled the screen gets a chance to
	// leave cleanly. The cleanup hide is for earlier failures only; once
	// this hide runs the screen is spent either way.
	c.log.Debug("loading: screen hiding", "target", target)
	shown = false
	return scr.HideAsync(context.WithoutCancel(ctx))
}
