package manicotti

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAddAndLookup(t *testing.T) {
	r := NewRegistry()

	main := &Definition{Name: "Main"}
	require.NoError(t, r.Add(main))

	got, ok := r.Lookup("Main")
	require.True(t, ok)
	assert.Same(t, main, got)

	_, ok = r.Lookup("Missing")
	assert.False(t, ok)
}

func TestRegistryRejectsDuplicateNames(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Add(&Definition{Name: "Main"}))

	err := r.Add(&Definition{Name: "Main"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.True(t, IsConfigError(err))
	assert.Len(t, r.All(), 1)
}

func TestRegistryRejectsEmptyName(t *testing.T) {
	r := NewRegistry()

	assert.ErrorIs(t, r.Add(&Definition{}), ErrNilDefinition)
	assert.ErrorIs(t, r.Add(nil), ErrNilDefinition)
}

func TestAddChildLinksBothDirections(t *testing.T) {
	r := NewRegistry()
	parent := &Definition{Name: "Parent"}
	child := &Definition{Name: "Child"}

	require.NoError(t, r.AddChild(parent, child))

	assert.Same(t, parent, child.Parent())
	require.Len(t, parent.Children(), 1)
	assert.Same(t, child, parent.Children()[0])
}

func TestAddChildRejectsSelfReference(t *testing.T) {
	r := NewRegistry()
	def := &Definition{Name: "Loner"}

	err := r.AddChild(def, def)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSelfReference)
	assert.Nil(t, def.Parent())
	assert.Empty(t, def.Children())
}

func TestAddChildRejectsCycle(t *testing.T) {
	r := NewRegistry()
	a := &Definition{Name: "A"}
	b := &Definition{Name: "B"}
	c := &Definition{Name: "C"}

	require.NoError(t, r.AddChild(a, b))
	require.NoError(t, r.AddChild(b, c))

	// C -> A would make A its own ancestor.
	err := r.AddChild(c, a)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCycle)

	// Graph unchanged.
	assert.Nil(t, a.Parent())
	assert.Same(t, a, b.Parent())
	assert.Same(t, b, c.Parent())
	assert.Empty(t, c.Children())
}

func TestIsAncestorOf(t *testing.T) {
	r := NewRegistry()
	a := &Definition{Name: "A"}
	b := &Definition{Name: "B"}
	c := &Definition{Name: "C"}

	require.NoError(t, r.AddChild(a, b))
	require.NoError(t, r.AddChild(b, c))

	assert.True(t, IsAncestorOf(a, b))
	assert.True(t, IsAncestorOf(a, c))
	assert.True(t, IsAncestorOf(b, c))
	assert.False(t, IsAncestorOf(c, a))
	assert.False(t, IsAncestorOf(b, a))
	assert.False(t, IsAncestorOf(a, a))
}

func TestAddChildReparents(t *testing.T) {
	r := NewRegistry()
	first := &Definition{Name: "First"}
	second := &Definition{Name: "Second"}
	child := &Definition{Name: "Child"}

	require.NoError(t, r.AddChild(first, child))
	require.NoError(t, r.AddChild(second, child))

	assert.Same(t, second, child.Parent())
	assert.Empty(t, first.Children())
	assert.Len(t, second.Children(), 1)
}

func TestRemoveChild(t *testing.T) {
	r := NewRegistry()
	parent := &Definition{Name: "Parent"}
	child := &Definition{Name: "Child"}

	require.NoError(t, r.AddChild(parent, child))
	require.NoError(t, r.RemoveChild(parent, child))

	assert.Nil(t, child.Parent())
	assert.Empty(t, parent.Children())

	// Removing again is a configuration error.
	assert.Error(t, r.RemoveChild(parent, child))
}

func TestMenusInScene(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(&Definition{Name: "Main", OwningScene: "Frontend"}))
	require.NoError(t, r.Add(&Definition{Name: "Options", OwningScene: "Frontend"}))
	require.NoError(t, r.Add(&Definition{Name: "HUD", OwningScene: "Game"}))
	require.NoError(t, r.Add(&Definition{Name: "Anywhere"}))

	frontend := r.MenusInScene("Frontend")
	require.Len(t, frontend, 2)
	assert.Equal(t, "Main", frontend[0].Name)
	assert.Equal(t, "Options", frontend[1].Name)

	assert.Len(t, r.MenusInScene("Game"), 1)
	assert.Empty(t, r.MenusInScene("Nowhere"))
}

func TestReleasePanelKeepsNewerRegistration(t *testing.T) {
	def := &Definition{Name: "Main"}

	old := NewBasePanel(def)
	assert.Same(t, Panel(old), def.LivePanel())

	// A newer panel binds; releasing the old one must not clobber it.
	fresh := NewBasePanel(def)
	old.Destroy()
	assert.Same(t, Panel(fresh), def.LivePanel())

	fresh.Destroy()
	assert.Nil(t, def.LivePanel())
}
