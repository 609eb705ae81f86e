package manicotti

// Definition is a node in the static, application-authored menu hierarchy.
//
// Definitions are configuration: they are created at startup (usually via
// LoadHierarchy) and live for the lifetime of the application. The only
// field that changes during normal operation is the live-panel
// back-reference, which the panel runtime maintains through BindPanel and
// ReleasePanel.
//
// The parent link is navigational, not an ownership relation: exiting or
// destroying a child never destroys its parent, and a definition may be
// reachable from several places in an application's flow.
type Definition struct {
	// Name uniquely identifies the menu. Used for lookup and for external
	// references (config files, session storage).
	Name string

	// OwningScene names the scene that must be active for this menu to be
	// shown. Empty means "current scene, whichever it is".
	OwningScene string

	// Title is an optional localization message ID for the menu's display
	// title. Resolved into DisplayTitle at load time when a localizer is
	// supplied.
	Title string

	// DisplayTitle is the resolved, human-readable title. Falls back to
	// Name when no localization is available.
	DisplayTitle string

	// ViewRef identifies the view template the factory should instantiate
	// for this menu. Opaque to the navigator.
	ViewRef string

	// Preplaced optionally supplies an already-constructed panel to use
	// instead of instantiating one through the factory.
	Preplaced Panel

	parent   *Definition
	children []*Definition
	live     Panel // non-owning; set only by the panel runtime
}

// Parent returns the definition's parent, or nil.
func (d *Definition) Parent() *Definition {
	return d.parent
}

// Children returns a copy of the definition's ordered child list.
func (d *Definition) Children() []*Definition {
	out := make([]*Definition, len(d.children))
	copy(out, d.children)
	return out
}

// LivePanel returns the currently bound runtime panel, or nil.
func (d *Definition) LivePanel() Panel {
	return d.live
}

// BindPanel registers p as the definition's live panel. Called by panel
// implementations when they bind; the navigator never calls this directly.
func (d *Definition) BindPanel(p Panel) {
	d.live = p
}

// ReleasePanel clears the live-panel back-reference, but only if p is
// still the registered instance. This keeps a panel destroyed late from
// clobbering a newer registration.
func (d *Definition) ReleasePanel(p Panel) {
	if d.live == p {
		d.live = nil
	}
}

// IsAncestorOf reports whether a appears on the parent chain of b.
// A definition is not its own ancestor.
func IsAncestorOf(a, b *Definition) bool {
	if a == nil || b == nil {
		return false
	}
	for cur := b.parent; cur != nil; cur = cur.parent {
		if cur == a {
			return true
		}
	}
	return false
}

// Registry owns the menu definitions and maintains the structural
// invariants of the hierarchy: unique names, mutually consistent
// parent/child links, and acyclicity.
//
// The registry is consumed read-only by the Navigator and the panel
// runtime; mutation happens at configuration time.
type Registry struct {
	defs  map[string]*Definition
	order []string // registration order, for deterministic iteration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		defs: make(map[string]*Definition),
	}
}

// Add registers a definition. Empty or duplicate names are configuration
// errors and leave the registry unchanged.
func (r *Registry) Add(def *Definition) error {
	if def == nil || def.Name == "" {
		return NewConfigError("add_menu", "", ErrNilDefinition)
	}
	if _, exists := r.defs[def.Name]; exists {
		return NewConfigError("add_menu", def.Name, ErrDuplicateName)
	}
	r.defs[def.Name] = def
	r.order = append(r.order, def.Name)
	return nil
}

// Lookup resolves a definition by name.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// All returns the definitions in registration order.
func (r *Registry) All() []*Definition {
	out := make([]*Definition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.defs[name])
	}
	return out
}

// MenusInScene returns the definitions whose owning scene is name, in
// registration order.
func (r *Registry) MenusInScene(name string) []*Definition {
	var out []*Definition
	for _, n := range r.order {
		if def := r.defs[n]; def.OwningScene == name {
			out = append(out, def)
		}
	}
	return out
}

// AddChild links child under parent, keeping the bidirectional invariant.
// Self-references and links that would make child an ancestor of itself
// are rejected and leave the graph unchanged. A child that already has a
// different parent is reparented.
func (r *Registry) AddChild(parent, child *Definition) error {
	if parent == nil || child == nil {
		return NewConfigError("add_child", "", ErrNilDefinition)
	}
	if parent == child {
		return NewConfigError("add_child", child.Name, ErrSelfReference)
	}
	if IsAncestorOf(child, parent) {
		return NewConfigError("add_child", child.Name, ErrCycle)
	}

	if child.parent != nil {
		detachChild(child.parent, child)
	}

	child.parent = parent
	parent.children = append(parent.children, child)
	return nil
}

// RemoveChild unlinks child from parent. It is a configuration error if
// child is not currently a child of parent.
func (r *Registry) RemoveChild(parent, child *Definition) error {
	if parent == nil || child == nil {
		return NewConfigError("remove_child", "", ErrNilDefinition)
	}
	if child.parent != parent {
		return NewConfigError("remove_child", child.Name, ErrMenuNotFound)
	}
	detachChild(parent, child)
	child.parent = nil
	return nil
}

func detachChild(parent, child *Definition) {
	for i, c := range parent.children {
		if c == child {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			return
		}
	}
}
