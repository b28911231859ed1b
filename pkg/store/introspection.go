package store

import (
	"github.com/aretw0/introspection"
)

// State snapshot exposed for observability.
type State struct {
	Root          string `json:"root"`
	WatcherActive bool   `json:"watcher_active"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return State{
		Root:          s.root,
		WatcherActive: s.watcherActive,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
