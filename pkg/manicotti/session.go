package manicotti

import (
	"log/slog"

	"github.com/quasilyte/gdata/v2"

	"github.com/BrandonKowalski/manicotti/pkg/manicotti/internal"
)

// Storage keys for session state.
const (
	sessionObject = "session"
	lastMenuProp  = "last_menu"
)

// sessionBackend is the slice of the gdata manager the session store
// needs. *gdata.Manager satisfies it; tests substitute an in-memory fake.
type sessionBackend interface {
	ObjectPropExists(objectKey, propKey string) bool
	LoadObjectProp(objectKey, propKey string) ([]byte, error)
	SaveObjectProp(objectKey, propKey string, data []byte) error
}

// SessionStore persists the name of the last menu a transition completed
// on, so a cold start can resume where the user left off. Backed by
// cross-platform app-data storage; a nil backend degrades to memory-only.
type SessionStore struct {
	backend sessionBackend
	log     *slog.Logger

	lastMenu string
	loaded   bool
}

// NewSessionStore opens the app-data storage for appName and returns a
// store over it.
func NewSessionStore(appName string) (*SessionStore, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, err
	}
	return newSessionStore(m), nil
}

func newSessionStore(backend sessionBackend) *SessionStore {
	return &SessionStore{
		backend: backend,
		log:     internal.GetLogger(),
	}
}

// LastMenu returns the persisted last menu name, if any.
func (s *SessionStore) LastMenu() (string, bool) {
	if !s.loaded {
		s.load()
	}
	return s.lastMenu, s.lastMenu != ""
}

// SetLastMenu persists name as the last completed menu.
func (s *SessionStore) SetLastMenu(name string) error {
	s.lastMenu = name
	s.loaded = true

	if s.backend == nil {
		return nil
	}
	return s.backend.SaveObjectProp(sessionObject, lastMenuProp, []byte(name))
}

func (s *SessionStore) load() {
	s.loaded = true

	if s.backend == nil || !s.backend.ObjectPropExists(sessionObject, lastMenuProp) {
		return
	}

	data, err := s.backend.LoadObjectProp(sessionObject, lastMenuProp)
	if err != nil {
		s.log.Warn("failed to load session state", "error", err)
		return
	}
	s.lastMenu = string(data)
}
