package manicotti

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.uber.org/atomic"

	"github.com/BrandonKowalski/manicotti/pkg/manicotti/internal"
	"github.com/BrandonKowalski/manicotti/pkg/manicotti/scene"
)

// NavigatorOptions configures a Navigator. Registry and Platform are
// required; everything else is optional.
type NavigatorOptions struct {
	Registry    *Registry           // Menu hierarchy (required)
	Platform    scene.Platform      // Scene host (required)
	Coordinator *LoadingCoordinator // Defaults to a bare-load coordinator on Platform
	Factory     ViewFactory         // Produces panels for definitions without one
	InitialMenu string              // Menu to open when its scene loads at cold start
	Session     *SessionStore       // Optional cross-run resume of the last menu
}

// Navigator owns the single "currently active menu" pointer and the
// back-stack, and orchestrates transitions between menus. It decides
// whether a request needs a scene swap, runs the exit/show propagation
// protocol on panels, and guarantees that only one transition flow runs
// at a time: a request arriving mid-transition is rejected, not queued.
type Navigator struct {
	registry    *Registry
	platform    scene.Platform
	coordinator *LoadingCoordinator
	factory     ViewFactory
	initialMenu string
	session     *SessionStore

	stack    *Stack
	active   atomic.Pointer[Definition] // read from the platform's callback goroutine
	inFlight atomic.Bool

	mu        sync.Mutex // guards listeners registration
	listeners []TransitionFunc

	log *slog.Logger
}

// NewNavigator creates a navigator and subscribes it to the platform's
// scene-loaded notifications so externally triggered loads (including the
// very first scene at startup) re-attach menu state.
func NewNavigator(opts NavigatorOptions) (*Navigator, error) {
	if opts.Registry == nil {
		return nil, NewConfigError("new_navigator", "", fmt.Errorf("registry is required"))
	}
	if opts.Platform == nil {
		return nil, NewConfigError("new_navigator", "", fmt.Errorf("scene platform is required"))
	}

	coordinator := opts.Coordinator
	if coordinator == nil {
		coordinator = NewLoadingCoordinator(opts.Platform)
	}

	n := &Navigator{
		registry:    opts.Registry,
		platform:    opts.Platform,
		coordinator: coordinator,
		factory:     opts.Factory,
		initialMenu: opts.InitialMenu,
		session:     opts.Session,
		stack:       NewStack(),
		log:         internal.GetLogger(),
	}

	n.platform.SceneLoaded(n.onSceneLoaded)

	return n, nil
}

// OnTransition subscribes fn to transition-complete notifications.
func (n *Navigator) OnTransition(fn TransitionFunc) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, fn)
}

// ActiveMenu returns the currently active menu definition, or nil.
func (n *Navigator) ActiveMenu() *Definition {
	return n.active.Load()
}

// StackDepth returns the number of menus on the back-stack.
func (n *Navigator) StackDepth() int {
	return n.stack.Len()
}

// IsTransitioning reports whether a transition is currently in flight.
func (n *Navigator) IsTransitioning() bool {
	return n.inFlight.Load()
}

// IsLoadingScreenActive reports whether a coordinated scene load is
// currently showing a loading screen.
func (n *Navigator) IsLoadingScreenActive() bool {
	return n.coordinator.IsLoadingScreenActive()
}

// OpenMenu transitions to def. Requests arriving while a transition is in
// flight, or with a nil definition, are rejected without touching any
// state and without firing a transition event.
//
// Once the transition starts, a completion event fires exactly once —
// success or failure — and the in-flight guard is released with it.
func (n *Navigator) OpenMenu(ctx context.Context, def *Definition, addToStack bool) error {
	if def == nil {
		n.log.Debug("open menu rejected: nil definition")
		return ErrNilDefinition
	}
	if !n.inFlight.CompareAndSwap(false, true) {
		n.log.Debug("open menu rejected: transition in flight", "menu", def.Name)
		return ErrTransitionInFlight
	}

	prev := n.active.Load()
	currentScene := n.platform.ActiveScene()
	needsSceneChange := def.OwningScene != "" && def.OwningScene != currentScene

	var err error
	defer func() {
		n.emit(TransitionEvent{From: prev, To: def, SceneChanged: needsSceneChange, Err: err})
		n.inFlight.Store(false)
	}()

	n.log.Info("opening menu", "menu", def.Name,
		"scene", def.OwningScene, "scene_change", needsSceneChange)

	if prev != nil {
		if p := prev.LivePanel(); p != nil {
			if err = p.Exit(ctx); err != nil {
				return err
			}
			if needsSceneChange {
				// The panel's object is about to be destroyed with its
				// scene; snap it invisible rather than animating.
				p.SetVisible(false)
			}
		}
	}

	if addToStack && prev != nil {
		n.stack.Push(prev)
	}

	// The active pointer moves before the scene operation starts so a
	// reentrant scene-loaded callback observes consistent state.
	n.active.Store(def)

	if needsSceneChange {
		if err = n.coordinator.Load(ctx, def.OwningScene, scene.ModeReplace); err != nil {
			return err
		}
	}

	var panel Panel
	if panel, err = n.resolvePanel(def); err != nil {
		return err
	}
	if err = panel.Show(ctx); err != nil {
		return err
	}

	if n.session != nil {
		if serr := n.session.SetLastMenu(def.Name); serr != nil {
			n.log.Warn("failed to persist last menu", "menu", def.Name, "error", serr)
		}
	}

	return nil
}

// GoBack pops the back-stack and opens the popped menu without re-pushing
// it. A no-op on an empty stack or while a transition is in flight.
func (n *Navigator) GoBack(ctx context.Context) error {
	if n.inFlight.Load() {
		return ErrTransitionInFlight
	}
	def := n.stack.Pop()
	if def == nil {
		return nil
	}
	return n.OpenMenu(ctx, def, false)
}

// TransitionTo resolves a menu by name — first among the menus of the
// current scene, then globally — and opens it. An unresolvable name is a
// reported, non-fatal error; no transition occurs.
func (n *Navigator) TransitionTo(ctx context.Context, name string) error {
	def, ok := n.resolveName(name)
	if !ok {
		n.log.Error("menu not found", "menu", name)
		return NewConfigError("transition_to", name, ErrMenuNotFound)
	}
	return n.OpenMenu(ctx, def, true)
}

func (n *Navigator) resolveName(name string) (*Definition, bool) {
	for _, def := range n.registry.MenusInScene(n.platform.ActiveScene()) {
		if def.Name == name {
			return def, true
		}
	}
	def, ok := n.registry.Lookup(name)
	return def, ok
}

// onSceneLoaded re-attaches menu state after a scene finishes loading
// independently of a navigator-initiated transition: the cold-start scene,
// or a load triggered by the host. Loads belonging to an in-flight
// transition are ignored; OpenMenu finishes those itself.
func (n *Navigator) onSceneLoaded(name string, mode scene.Mode) {
	if n.inFlight.Load() {
		return
	}

	ctx := context.Background()

	// An active menu owned by the newly loaded scene is re-shown.
	if active := n.active.Load(); active != nil && active.OwningScene == name {
		panel, err := n.resolvePanel(active)
		if err != nil {
			n.log.Error("failed to re-attach active menu", "menu", active.Name, "error", err)
			return
		}
		if err := panel.Show(ctx); err != nil {
			n.log.Error("failed to re-show active menu", "menu", active.Name, "error", err)
		}
		return
	}

	// Cold start: prefer the session's last menu, fall back to the
	// configured initial menu. Either must belong to this scene (or no
	// scene at all) to come up here.
	for _, candidate := range n.startupCandidates() {
		def, ok := n.registry.Lookup(candidate)
		if !ok {
			continue
		}
		if def.OwningScene != "" && def.OwningScene != name {
			continue
		}
		if err := n.OpenMenu(ctx, def, false); err != nil {
			n.log.Error("startup menu transition failed", "menu", candidate, "error", err)
		}
		return
	}
}

func (n *Navigator) startupCandidates() []string {
	var out []string
	if n.session != nil {
		if last, ok := n.session.LastMenu(); ok {
			out = append(out, last)
		}
	}
	if n.initialMenu != "" {
		out = append(out, n.initialMenu)
	}
	return out
}

// resolvePanel reuses the definition's live panel when one exists, binds
// the pre-placed panel when one is supplied, and otherwise instantiates a
// fresh panel through the view factory.
func (n *Navigator) resolvePanel(def *Definition) (Panel, error) {
	if p := def.LivePanel(); p != nil {
		return p, nil
	}
	if def.Preplaced != nil {
		def.Preplaced.Rebind(def)
		return def.Preplaced, nil
	}
	if n.factory == nil {
		return nil, NewConfigError("resolve_panel", def.Name, ErrNoViewFactory)
	}
	p, err := n.factory.CreatePanel(def)
	if err != nil {
		return nil, NewConfigError("resolve_panel", def.Name, err)
	}
	return p, nil
}

func (n *Navigator) emit(ev TransitionEvent) {
	n.mu.Lock()
	listeners := make([]TransitionFunc, len(n.listeners))
	copy(listeners, n.listeners)
	n.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
}
