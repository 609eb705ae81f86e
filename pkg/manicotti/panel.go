package manicotti

import (
	"context"

	"go.uber.org/atomic"
)

// Panel is the runtime view contract. One panel exists per
// currently-instantiated menu view; the concrete type is produced by a
// ViewFactory (or supplied pre-placed on the Definition).
//
// Implementations must register themselves on their definition through
// BindPanel when they bind and ReleasePanel when they are destroyed.
// BasePanel does this and implements the propagation protocol; custom
// panels usually embed it.
type Panel interface {
	// Show makes the panel visible, showing its parent chain first.
	// A Show arriving while another Show or Exit is already running on
	// the same panel is a silent no-op.
	Show(ctx context.Context) error

	// Exit runs the hide protocol: the parent chain exits first, then the
	// panel fires its own hide notification and becomes invisible.
	// Reentrant calls are silent no-ops, like Show.
	Exit(ctx context.Context) error

	// SetVisible snaps the display state immediately: no propagation, no
	// notifications, no reentrancy latch. Used by the navigator to force a
	// panel invisible right before its scene is torn down.
	SetVisible(visible bool)

	// Visible reports the current display state.
	Visible() bool

	// Definition returns the definition the panel is bound to.
	Definition() *Definition

	// Rebind moves the panel to another definition, unregistering from the
	// old one (only if this panel is still the one registered there).
	Rebind(def *Definition)
}

// ViewFactory produces concrete panels for definitions. The navigator
// calls it when a menu must be shown and no live or pre-placed panel
// exists.
type ViewFactory interface {
	CreatePanel(def *Definition) (Panel, error)
}

// ViewFactoryFunc adapts a function to the ViewFactory interface.
type ViewFactoryFunc func(def *Definition) (Panel, error)

// CreatePanel calls f.
func (f ViewFactoryFunc) CreatePanel(def *Definition) (Panel, error) {
	return f(def)
}

// BasePanel implements the Panel protocol: visibility state, the
// per-panel reentrancy latch, and parent-chain propagation on show and
// exit. Concrete views embed it and hook OnShow/OnHide for their visual
// work (fades, focus grabs, layout).
type BasePanel struct {
	def           *Definition
	visible       atomic.Bool
	transitioning atomic.Bool

	// OnShow fires after the panel becomes visible during Show.
	OnShow func(ctx context.Context) error

	// OnHide fires during Exit, after the parent chain has exited and
	// before the panel becomes invisible.
	OnHide func(ctx context.Context) error
}

// NewBasePanel creates a panel bound to def and registers it as the
// definition's live instance.
func NewBasePanel(def *Definition) *BasePanel {
	p := &BasePanel{def: def}
	if def != nil {
		def.BindPanel(p)
	}
	return p
}

// Definition returns the definition the panel is bound to.
func (p *BasePanel) Definition() *Definition {
	return p.def
}

// Visible reports the current display state.
func (p *BasePanel) Visible() bool {
	return p.visible.Load()
}

// SetVisible snaps the display state with no propagation and no latch.
func (p *BasePanel) SetVisible(visible bool) {
	p.visible.Store(visible)
}

// Show makes the panel visible. If the panel's definition has a parent
// with a live panel, the parent is shown to completion first: parents are
// visible before children. A second Show arriving while the latch is held
// returns immediately with no error and no propagation.
func (p *BasePanel) Show(ctx context.Context) error {
	if !p.transitioning.CompareAndSwap(false, true) {
		return nil
	}
	defer p.transitioning.Store(false)

	if err := ctx.Err(); err != nil {
		return err
	}

	if parent := p.parentPanel(); parent != nil {
		if err := parent.Show(ctx); err != nil {
			return err
		}
	}

	p.visible.Store(true)

	if p.OnShow != nil {
		return p.OnShow(ctx)
	}
	return nil
}

// Exit runs the hide protocol in the same order as Show: parents first,
// then self. The exiting panel fires OnHide and then becomes invisible.
// Parents hide themselves the same way as their own Exit recursion
// unwinds. Reentrant calls are silent no-ops.
func (p *BasePanel) Exit(ctx context.Context) error {
	if !p.transitioning.CompareAndSwap(false, true) {
		return nil
	}
	defer p.transitioning.Store(false)

	if err := ctx.Err(); err != nil {
		return err
	}

	if parent := p.parentPanel(); parent != nil {
		if err := parent.Exit(ctx); err != nil {
			return err
		}
	}

	if p.OnHide != nil {
		if err := p.OnHide(ctx); err != nil {
			return err
		}
	}

	p.visible.Store(false)
	return nil
}

// Rebind moves the panel to def. The old definition's back-reference is
// cleared only if this panel is still the registered instance.
func (p *BasePanel) Rebind(def *Definition) {
	if p.def != nil {
		p.def.ReleasePanel(p)
	}
	p.def = def
	if def != nil {
		def.BindPanel(p)
	}
}

// Destroy unregisters the panel from its definition. Callers destroying a
// concrete view call this last.
func (p *BasePanel) Destroy() {
	if p.def != nil {
		p.def.ReleasePanel(p)
	}
}

func (p *BasePanel) parentPanel() Panel {
	if p.def == nil {
		return nil
	}
	parent := p.def.Parent()
	if parent == nil {
		return nil
	}
	return parent.LivePanel()
}
