package manicotti

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonKowalski/manicotti/pkg/manicotti/scene"
)

// basePanelFactory creates plain BasePanels for every definition.
func basePanelFactory() ViewFactory {
	return ViewFactoryFunc(func(def *Definition) (Panel, error) {
		return NewBasePanel(def), nil
	})
}

// eventRecorder collects transition events thread-safely.
type eventRecorder struct {
	mu     sync.Mutex
	events []TransitionEvent
}

func (r *eventRecorder) record(ev TransitionEvent) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *eventRecorder) Events() []TransitionEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TransitionEvent, len(r.events))
	copy(out, r.events)
	return out
}

func navContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func newTestNavigator(t *testing.T, registry *Registry, platform scene.Platform) *Navigator {
	t.Helper()
	nav, err := NewNavigator(NavigatorOptions{
		Registry: registry,
		Platform: platform,
		Factory:  basePanelFactory(),
	})
	require.NoError(t, err)
	return nav
}

func TestOpenMenuSameScene(t *testing.T) {
	registry := NewRegistry()
	main := &Definition{Name: "Main"}
	require.NoError(t, registry.Add(main))

	platform := fastPlatform("Menu")
	nav := newTestNavigator(t, registry, platform)

	rec := &eventRecorder{}
	nav.OnTransition(rec.record)

	require.NoError(t, nav.OpenMenu(navContext(t), main, true))

	assert.Same(t, main, nav.ActiveMenu())
	assert.True(t, main.LivePanel().Visible())
	assert.Zero(t, nav.StackDepth(), "no previous menu to push")

	events := rec.Events()
	require.Len(t, events, 1)
	assert.Nil(t, events[0].From)
	assert.Same(t, main, events[0].To)
	assert.False(t, events[0].SceneChanged)
	assert.NoError(t, events[0].Err)
}

func TestOpenMenuNilDefinition(t *testing.T) {
	registry := NewRegistry()
	platform := fastPlatform("Menu")
	nav := newTestNavigator(t, registry, platform)

	rec := &eventRecorder{}
	nav.OnTransition(rec.record)

	assert.ErrorIs(t, nav.OpenMenu(navContext(t), nil, true), ErrNilDefinition)
	assert.Nil(t, nav.ActiveMenu())
	assert.Empty(t, rec.Events(), "rejected requests fire no event")
}

func TestOpenMenuRejectedWhileInFlight(t *testing.T) {
	registry := NewRegistry()
	first := &Definition{Name: "First"}
	second := &Definition{Name: "Second"}
	require.NoError(t, registry.Add(first))
	require.NoError(t, registry.Add(second))

	platform := fastPlatform("Menu")

	block := make(chan struct{})
	started := make(chan struct{})
	factory := ViewFactoryFunc(func(def *Definition) (Panel, error) {
		p := NewBasePanel(def)
		if def == first {
			p.OnShow = func(context.Context) error {
				close(started)
				<-block
				return nil
			}
		}
		return p, nil
	})

	nav, err := NewNavigator(NavigatorOptions{
		Registry: registry,
		Platform: platform,
		Factory:  factory,
	})
	require.NoError(t, err)

	rec := &eventRecorder{}
	nav.OnTransition(rec.record)

	done := make(chan error, 1)
	go func() { done <- nav.OpenMenu(navContext(t), first, true) }()
	<-started

	// Second request mid-transition: rejected, nothing changes.
	assert.ErrorIs(t, nav.OpenMenu(navContext(t), second, true), ErrTransitionInFlight)
	assert.Same(t, first, nav.ActiveMenu())
	assert.Zero(t, nav.StackDepth())
	assert.Empty(t, rec.Events())

	close(block)
	require.NoError(t, <-done)

	require.Len(t, rec.Events(), 1, "exactly one completion for one transition")
	assert.False(t, nav.IsTransitioning())
}

func TestSameSceneTransitionNeverInvokesCoordinator(t *testing.T) {
	registry := NewRegistry()
	a := &Definition{Name: "A", OwningScene: "Menu"}
	b := &Definition{Name: "B"} // empty scene: current scene, whichever it is
	require.NoError(t, registry.Add(a))
	require.NoError(t, registry.Add(b))

	platform := fastPlatform("Menu")
	coordinator := NewLoadingCoordinator(platform)
	screen := newRecordingScreen()
	coordinator.UseScreen(screen)

	nav, err := NewNavigator(NavigatorOptions{
		Registry:    registry,
		Platform:    platform,
		Coordinator: coordinator,
		Factory:     basePanelFactory(),
	})
	require.NoError(t, err)

	ctx := navContext(t)
	require.NoError(t, nav.OpenMenu(ctx, a, true))
	require.NoError(t, nav.OpenMenu(ctx, b, true))

	assert.Empty(t, screen.Calls(), "same-scene transitions bypass the loading screen")
	assert.False(t, nav.IsLoadingScreenActive())
}

func TestCrossSceneTransition(t *testing.T) {
	// Hierarchy: Root (no scene) -> Child (scene "Game"); current scene
	// "Menu", nothing active yet.
	registry := NewRegistry()
	root := &Definition{Name: "Root"}
	child := &Definition{Name: "Child", OwningScene: "Game"}
	require.NoError(t, registry.Add(root))
	require.NoError(t, registry.Add(child))
	require.NoError(t, registry.AddChild(root, child))

	platform := fastPlatform("Menu", "Game")
	coordinator := NewLoadingCoordinator(platform)
	screen := newRecordingScreen()
	coordinator.UseScreen(screen)

	rootExits := 0
	rootPanel := NewBasePanel(root)
	rootPanel.OnHide = func(context.Context) error {
		rootExits++
		return nil
	}

	nav, err := NewNavigator(NavigatorOptions{
		Registry:    registry,
		Platform:    platform,
		Coordinator: coordinator,
		Factory:     basePanelFactory(),
	})
	require.NoError(t, err)

	rec := &eventRecorder{}
	nav.OnTransition(rec.record)

	require.NoError(t, nav.TransitionTo(navContext(t), "Child"))

	assert.Zero(t, rootExits, "nothing was active, so nothing exits")
	assert.Equal(t, "Game", screen.lastTarget)
	assert.Equal(t, []string{"show", "before", "hide"}, screen.Calls(),
		"coordinator invoked exactly once")
	assert.Same(t, child, nav.ActiveMenu())
	assert.Zero(t, nav.StackDepth(), "no prior active menu to push")
	assert.Equal(t, "Game", platform.ActiveScene())

	events := rec.Events()
	require.Len(t, events, 1, "transition-complete fired exactly once")
	assert.True(t, events[0].SceneChanged)
	assert.NoError(t, events[0].Err)
}

func TestCrossSceneTransitionSnapsOldPanelInvisible(t *testing.T) {
	registry := NewRegistry()
	menu := &Definition{Name: "Main", OwningScene: "Menu"}
	game := &Definition{Name: "HUD", OwningScene: "Game"}
	require.NoError(t, registry.Add(menu))
	require.NoError(t, registry.Add(game))

	platform := fastPlatform("Menu", "Game")
	nav := newTestNavigator(t, registry, platform)

	ctx := navContext(t)
	require.NoError(t, nav.OpenMenu(ctx, menu, true))
	oldPanel := menu.LivePanel()
	require.True(t, oldPanel.Visible())

	require.NoError(t, nav.OpenMenu(ctx, game, true))

	assert.False(t, oldPanel.Visible(),
		"panel owned by the outgoing scene is forced invisible before the swap")
	assert.Same(t, game, nav.ActiveMenu())
}

func TestGoBack(t *testing.T) {
	registry := NewRegistry()
	a := &Definition{Name: "A"}
	b := &Definition{Name: "B"}
	c := &Definition{Name: "C"}
	require.NoError(t, registry.Add(a))
	require.NoError(t, registry.Add(b))
	require.NoError(t, registry.Add(c))

	platform := fastPlatform("Menu")
	nav := newTestNavigator(t, registry, platform)

	ctx := navContext(t)
	require.NoError(t, nav.OpenMenu(ctx, a, true))
	require.NoError(t, nav.OpenMenu(ctx, b, true))
	require.NoError(t, nav.OpenMenu(ctx, c, true))

	// Stack is [A, B], active is C.
	require.Equal(t, 2, nav.StackDepth())

	require.NoError(t, nav.GoBack(ctx))

	assert.Same(t, b, nav.ActiveMenu())
	assert.Equal(t, 1, nav.StackDepth(), "back navigation must not re-push")
}

func TestGoBackEmptyStack(t *testing.T) {
	registry := NewRegistry()
	platform := fastPlatform("Menu")
	nav := newTestNavigator(t, registry, platform)

	rec := &eventRecorder{}
	nav.OnTransition(rec.record)

	require.NoError(t, nav.GoBack(navContext(t)))

	assert.Nil(t, nav.ActiveMenu())
	assert.Empty(t, rec.Events())
	assert.False(t, nav.IsTransitioning())
}

func TestTransitionToUnknownName(t *testing.T) {
	registry := NewRegistry()
	platform := fastPlatform("Menu")
	nav := newTestNavigator(t, registry, platform)

	rec := &eventRecorder{}
	nav.OnTransition(rec.record)

	err := nav.TransitionTo(navContext(t), "Ghost")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMenuNotFound)
	assert.True(t, IsConfigError(err))
	assert.Nil(t, nav.ActiveMenu())
	assert.Empty(t, rec.Events())
}

func TestTransitionToPrefersCurrentScene(t *testing.T) {
	registry := NewRegistry()
	local := &Definition{Name: "Pause", OwningScene: "Game"}
	require.NoError(t, registry.Add(local))

	platform := fastPlatform("Game")
	nav := newTestNavigator(t, registry, platform)

	require.NoError(t, nav.TransitionTo(navContext(t), "Pause"))
	assert.Same(t, local, nav.ActiveMenu())
}

func TestSceneLoadedOpensInitialMenu(t *testing.T) {
	registry := NewRegistry()
	main := &Definition{Name: "Main", OwningScene: "Frontend"}
	require.NoError(t, registry.Add(main))

	platform := fastPlatform("Boot", "Frontend")

	nav, err := NewNavigator(NavigatorOptions{
		Registry:    registry,
		Platform:    platform,
		Factory:     basePanelFactory(),
		InitialMenu: "Main",
	})
	require.NoError(t, err)

	// The host finishes loading the frontend scene on its own.
	platform.CommitScene("Frontend", scene.ModeReplace)

	assert.Same(t, main, nav.ActiveMenu())
	require.NotNil(t, main.LivePanel())
	assert.True(t, main.LivePanel().Visible())
}

func TestSceneLoadedReshowsActiveMenu(t *testing.T) {
	registry := NewRegistry()
	hud := &Definition{Name: "HUD", OwningScene: "Game"}
	require.NoError(t, registry.Add(hud))

	platform := fastPlatform("Game")
	nav := newTestNavigator(t, registry, platform)

	ctx := navContext(t)
	require.NoError(t, nav.OpenMenu(ctx, hud, true))

	panel := hud.LivePanel()
	panel.SetVisible(false)

	// The host reloads the scene outside navigator control.
	platform.CommitScene("Game", scene.ModeReplace)

	assert.True(t, panel.Visible(), "active menu is re-shown after its scene reloads")
	assert.Same(t, hud, nav.ActiveMenu())
}

func TestSceneLoadedPrefersSessionMenu(t *testing.T) {
	registry := NewRegistry()
	main := &Definition{Name: "Main", OwningScene: "Frontend"}
	options := &Definition{Name: "Options", OwningScene: "Frontend"}
	require.NoError(t, registry.Add(main))
	require.NoError(t, registry.Add(options))

	session := newSessionStore(newFakeBackend())
	require.NoError(t, session.SetLastMenu("Options"))

	platform := fastPlatform("Boot", "Frontend")

	nav, err := NewNavigator(NavigatorOptions{
		Registry:    registry,
		Platform:    platform,
		Factory:     basePanelFactory(),
		InitialMenu: "Main",
		Session:     session,
	})
	require.NoError(t, err)

	platform.CommitScene("Frontend", scene.ModeReplace)

	assert.Same(t, options, nav.ActiveMenu())
}

func TestActiveMenuReadableDuringHostInitiatedLoads(t *testing.T) {
	registry := NewRegistry()
	a := &Definition{Name: "A"}
	b := &Definition{Name: "B"}
	require.NoError(t, registry.Add(a))
	require.NoError(t, registry.Add(b))

	platform := fastPlatform("Menu", "Other")
	nav := newTestNavigator(t, registry, platform)

	// The platform's callback goroutine reads the active pointer while
	// transitions run on the caller's flow.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			_ = nav.ActiveMenu()
			platform.CommitScene("Other", scene.ModeAdditive)
		}
	}()

	ctx := navContext(t)
	for i := 0; i < 25; i++ {
		require.NoError(t, nav.OpenMenu(ctx, a, false))
		require.NoError(t, nav.OpenMenu(ctx, b, false))
	}
	<-done

	assert.Same(t, b, nav.ActiveMenu())
}

func TestNewNavigatorRequiresRegistryAndPlatform(t *testing.T) {
	_, err := NewNavigator(NavigatorOptions{Platform: fastPlatform("Menu")})
	assert.Error(t, err)

	_, err = NewNavigator(NavigatorOptions{Registry: NewRegistry()})
	assert.Error(t, err)
}
