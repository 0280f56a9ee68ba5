// Package settings owns the singleton provider configuration. Every
// feature that calls the completion boundary reads through a Manager;
// writes go through the single Set entry point, which persists and then
// notifies subscribers. This replaces ambient global access with an
// injected object.
package settings

import (
	"database/sql"
	"sync"

	"github.com/sproutnotes/sprout/internal/db"
	"github.com/sproutnotes/sprout/internal/errors"
	"github.com/sproutnotes/sprout/internal/idea"
)

// Manager holds the current settings value and its subscribers.
type Manager struct {
	database *sql.DB

	mu       sync.RWMutex
	current  idea.Settings
	onChange []func(idea.Settings)
}

// NewManager loads the persisted settings (creating defaults on first
// read) and returns a manager around them.
func NewManager(database *sql.DB) (*Manager, error) {
	s, err := db.GetSettings(database)
	if err != nil {
		return nil, err
	}
	return &Manager{
		database: database,
		current:  *s,
	}, nil
}

// Get returns the current settings value.
func (m *Manager) Get() idea.Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Set validates, persists, and publishes a new settings value.
// Subscribers are notified after the store write succeeds.
func (m *Manager) Set(s idea.Settings) error {
	if s.Provider != idea.ProviderGemini && s.Provider != idea.ProviderOllama {
		return errors.NewInvalidRequest("provider must be one of: gemini, ollama")
	}
	if s.Provider == idea.ProviderOllama && s.OllamaEndpoint == "" {
		return errors.NewInvalidRequest("ollama_endpoint must not be empty")
	}

	if err := db.PutSettings(m.database, &s); err != nil {
		return err
	}

	m.mu.Lock()
	m.current = s
	subscribers := append(([]func(idea.Settings))(nil), m.onChange...)
	m.mu.Unlock()

	for _, fn := range subscribers {
		fn(s)
	}
	return nil
}

// Subscribe registers a callback invoked after every successful Set.
// Callbacks run on the caller's goroutine and should be fast.
func (m *Manager) Subscribe(fn func(idea.Settings)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = append(m.onChange, fn)
}
