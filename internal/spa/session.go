package spa

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/quickbite/storefront/internal/domain"
	"github.com/quickbite/storefront/internal/storage"
)

const (
	themeStoreKey   = "theme"
	visitedStoreKey = "visited"
)

// SessionDeps wires the session preference store.
type SessionDeps struct {
	Store  storage.KeyValueStore
	Logger func(context.Context, string, map[string]any)
}

// Session holds the per-visitor preferences persisted alongside the cart:
// the theme choice and the visited flag that deduplicates visit logging.
// Reads fail soft to defaults; writes are logged on failure and otherwise
// ignored.
type Session struct {
	store  storage.KeyValueStore
	logger func(context.Context, string, map[string]any)
}

// NewSession constructs a session over the given store.
func NewSession(deps SessionDeps) (*Session, error) {
	if deps.Store == nil {
		return nil, errors.New("spa session: store is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &Session{store: deps.Store, logger: logger}, nil
}

// Theme returns the persisted theme preference, defaulting to light.
func (s *Session) Theme() domain.Theme {
	raw, err := s.store.Get(themeStoreKey)
	if err != nil {
		return domain.ThemeLight
	}
	var theme domain.Theme
	if err := json.Unmarshal(raw, &theme); err != nil {
		return domain.ThemeLight
	}
	if theme != domain.ThemeDark {
		return domain.ThemeLight
	}
	return domain.ThemeDark
}

// SetTheme persists the theme preference.
func (s *Session) SetTheme(theme domain.Theme) {
	if theme != domain.ThemeDark {
		theme = domain.ThemeLight
	}
	s.set(themeStoreKey, theme)
}

// Visited reports whether this session already logged a visit.
func (s *Session) Visited() bool {
	raw, err := s.store.Get(visitedStoreKey)
	if err != nil {
		return false
	}
	var visited bool
	if err := json.Unmarshal(raw, &visited); err != nil {
		return false
	}
	return visited
}

// MarkVisited records that the session logged its visit.
func (s *Session) MarkVisited() {
	s.set(visitedStoreKey, true)
}

func (s *Session) set(key string, value any) {
	encoded, err := json.Marshal(value)
	if err == nil {
		err = s.store.Set(key, encoded)
	}
	if err != nil {
		s.logger(context.Background(), "session.save.failed", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
	}
}
