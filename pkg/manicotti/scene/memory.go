package scene

import (
	"fmt"
	"sync"
	"time"

	"github.com/BrandonKowalski/manicotti/pkg/manicotti/constants"
	"github.com/BrandonKowalski/manicotti/pkg/manicotti/internal"
)

// MemoryPlatform is an in-process Platform implementation. It is used by
// the test suite, by examples, and by hosts that drive their own scene
// lifecycle and only need the bookkeeping: which scene is active, which
// scenes exist, and who wants to hear about finished loads.
//
// By default every load is driven automatically on a background goroutine:
// progress ramps to the activation hold mark, waits for activation if the
// load was deferred, then completes. Set Manual to true to drive the
// returned operations yourself via SetProgress/Complete and
// CommitScene.
type MemoryPlatform struct {
	mu        sync.Mutex
	active    string
	loaded    map[string]bool // scenes currently loaded (additive set)
	known     map[string]bool
	listeners []LoadedFunc

	// Manual disables the automatic load driver.
	Manual bool

	// StepDelay spaces out automatic progress ticks. Zero means
	// constants.DefaultLoadStep.
	StepDelay time.Duration
}

// NewMemoryPlatform creates a platform whose initial active scene is
// initial and whose known scene set is initial plus scenes. The initial
// scene counts as already loaded; no notification fires for it.
func NewMemoryPlatform(initial string, scenes ...string) *MemoryPlatform {
	p := &MemoryPlatform{
		active: initial,
		loaded: map[string]bool{initial: true},
		known:  map[string]bool{initial: true},
	}
	for _, s := range scenes {
		p.known[s] = true
	}
	return p
}

// AddScene registers another scene name as loadable.
func (p *MemoryPlatform) AddScene(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.known[name] = true
}

// ActiveScene returns the name of the currently active scene.
func (p *MemoryPlatform) ActiveScene() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// IsLoaded reports whether the named scene is currently loaded.
func (p *MemoryPlatform) IsLoaded(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded[name]
}

// SceneLoaded registers fn for scene-finished notifications.
func (p *MemoryPlatform) SceneLoaded(fn LoadedFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// LoadScene begins loading the named scene. Unknown scenes settle the
// returned operation with an error rather than failing the request.
func (p *MemoryPlatform) LoadScene(name string, mode Mode, allowActivation bool) (*Operation, error) {
	if name == "" {
		return nil, fmt.Errorf("scene: empty scene name")
	}

	op := NewOperation(name, mode, allowActivation)
	op.OnComplete(func(err error) {
		if err != nil {
			return
		}
		p.CommitScene(name, mode)
	})

	p.mu.Lock()
	known := p.known[name]
	manual := p.Manual
	step := p.StepDelay
	p.mu.Unlock()

	if step == 0 {
		step = constants.DefaultLoadStep
	}

	if !known {
		op.Complete(fmt.Errorf("scene: scene %q not found", name))
		return op, nil
	}

	if !manual {
		go p.drive(op, step)
	}

	return op, nil
}

// drive ramps an operation's progress to the hold mark, waits for
// activation when deferred, then completes it. A consumer may settle an
// abandoned operation itself, so the wait also watches for settlement.
func (p *MemoryPlatform) drive(op *Operation, step time.Duration) {
	for _, tick := range []float64{0.25, 0.5, 0.75, constants.ActivationHoldProgress} {
		time.Sleep(step)
		op.SetProgress(tick)
	}

	select {
	case <-op.Activation():
	case <-op.Done():
		return
	}

	time.Sleep(step)
	op.Complete(nil)
}

// CommitScene records the named scene as loaded and active and notifies
// listeners. Operations created by LoadScene commit automatically on
// success; call this directly to report loads the engine did not initiate
// (e.g. the very first scene at startup).
func (p *MemoryPlatform) CommitScene(name string, mode Mode) {
	p.mu.Lock()
	if mode == ModeReplace {
		p.loaded = map[string]bool{}
	}
	p.loaded[name] = true
	p.active = name
	p.known[name] = true
	listeners := make([]LoadedFunc, len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	internal.GetInternalLogger().Debug("scene committed", "scene", name, "mode", mode.String())

	for _, fn := range listeners {
		fn(name, mode)
	}
}
