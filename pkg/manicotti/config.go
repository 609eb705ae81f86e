package manicotti

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/BrandonKowalski/manicotti/pkg/manicotti/internal"
)

// HierarchyFile is the on-disk shape of a menu hierarchy asset.
type HierarchyFile struct {
	// Initial names the menu to open once its scene loads at startup.
	Initial string `toml:"initial"`

	// Menus lists every menu definition. Parents may appear after their
	// children; links are resolved after all definitions are registered.
	Menus []MenuConfig `toml:"menus"`
}

// MenuConfig is one menu entry in a hierarchy asset.
type MenuConfig struct {
	Name   string `toml:"name"`
	Parent string `toml:"parent"` // optional, must name another entry
	Scene  string `toml:"scene"`  // optional, empty = current scene
	Title  string `toml:"title"`  // optional i18n message ID
	View   string `toml:"view"`   // opaque view template reference
}

// LoadHierarchy reads a TOML hierarchy asset from path and builds a
// validated registry: unique names, resolvable parents, acyclic graph.
// A non-nil localizer resolves each menu's display title.
//
// Returns the registry and the configured initial menu name.
func LoadHierarchy(path string, loc *i18n.Localizer) (*Registry, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", NewConfigError("load_hierarchy", "", err)
	}
	return ParseHierarchy(data, loc)
}

// ParseHierarchy builds a validated registry from TOML hierarchy data.
// See LoadHierarchy.
func ParseHierarchy(data []byte, loc *i18n.Localizer) (*Registry, string, error) {
	var file HierarchyFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, "", NewConfigError("parse_hierarchy", "", err)
	}

	registry := NewRegistry()

	for _, mc := range file.Menus {
		def := &Definition{
			Name:         mc.Name,
			OwningScene:  mc.Scene,
			Title:        mc.Title,
			DisplayTitle: mc.Name,
			ViewRef:      mc.View,
		}
		if loc != nil && mc.Title != "" {
			title, err := loc.Localize(&i18n.LocalizeConfig{MessageID: mc.Title})
			if err != nil {
				internal.GetLogger().Warn("menu title not localized",
					"menu", mc.Name, "message_id", mc.Title, "error", err)
			} else {
				def.DisplayTitle = title
			}
		}
		if err := registry.Add(def); err != nil {
			return nil, "", err
		}
	}

	// Parent links resolve in a second pass so order in the file does not
	// matter.
	for _, mc := range file.Menus {
		if mc.Parent == "" {
			continue
		}
		parent, ok := registry.Lookup(mc.Parent)
		if !ok {
			return nil, "", NewConfigError("parse_hierarchy", mc.Name,
				fmt.Errorf("parent %q: %w", mc.Parent, ErrMenuNotFound))
		}
		child, _ := registry.Lookup(mc.Name)
		if err := registry.AddChild(parent, child); err != nil {
			return nil, "", err
		}
	}

	if file.Initial != "" {
		if _, ok := registry.Lookup(file.Initial); !ok {
			return nil, "", NewConfigError("parse_hierarchy", file.Initial,
				fmt.Errorf("initial menu: %w", ErrMenuNotFound))
		}
	}

	return registry, file.Initial, nil
}

// LoadLocales builds a localizer from a directory of TOML message files
// (en.toml, de.toml, ...), preferring lang.
func LoadLocales(dir string, lang language.Tag) (*i18n.Localizer, error) {
	bundle := i18n.NewBundle(lang)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, NewConfigError("load_locales", "", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".toml" {
			continue
		}
		if _, err := bundle.LoadMessageFile(filepath.Join(dir, entry.Name())); err != nil {
			internal.GetLogger().Warn("skipping locale file", "file", entry.Name(), "error", err)
		}
	}

	return i18n.NewLocalizer(bundle, lang.String()), nil
}
