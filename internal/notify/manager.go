package notify

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotifierNotFound is returned when a requested notifier cannot be found.
var ErrNotifierNotFound = errors.New("notifier not found")

// Manager manages notifier discovery and access.
type Manager struct {
	notifierDir string
	notifiers   map[string]*Notifier
	mu          sync.RWMutex
}

// NewManager creates a new notifier Manager with the given notifier directory.
func NewManager(notifierDir string) *Manager {
	return &Manager{
		notifierDir: notifierDir,
		notifiers:   make(map[string]*Notifier),
	}
}

// Discover scans the notifier directory for notifier.json files and loads
// them. Each subdirectory is expected to be a notifier with a notifier.json
// manifest.
func (m *Manager) Discover() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Clear existing notifiers
	m.notifiers = make(map[string]*Notifier)

	info, err := os.Stat(m.notifierDir)
	if os.IsNotExist(err) {
		return nil // No notifier directory, nothing to discover
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return nil
	}

	entries, err := os.ReadDir(m.notifierDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		notifierPath := filepath.Join(m.notifierDir, entry.Name())
		manifestPath := filepath.Join(notifierPath, "notifier.json")

		if _, err := os.Stat(manifestPath); os.IsNotExist(err) {
			continue
		}

		manifestData, err := os.ReadFile(manifestPath)
		if err != nil {
			continue // Skip notifiers we can't read
		}

		var manifest Manifest
		if err := json.Unmarshal(manifestData, &manifest); err != nil {
			continue // Skip notifiers with invalid JSON
		}

		executablePath := filepath.Join(notifierPath, manifest.Executable)

		m.notifiers[manifest.Name] = &Notifier{
			Manifest:   manifest,
			Path:       notifierPath,
			Executable: executablePath,
		}
	}

	return nil
}

// Get returns a notifier by name.
// Returns ErrNotifierNotFound if the notifier does not exist.
func (m *Manager) Get(name string) (*Notifier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.notifiers[name]
	if !ok {
		return nil, ErrNotifierNotFound
	}

	return n, nil
}

// List returns a slice of all discovered notifiers.
func (m *Manager) List() []*Notifier {
	m.mu.RLock()
	defer m.mu.RUnlock()

	notifiers := make([]*Notifier, 0, len(m.notifiers))
	for _, n := range m.notifiers {
		notifiers = append(notifiers, n)
	}

	return notifiers
}

// NotifierDir returns the notifier directory path.
func (m *Manager) NotifierDir() string {
	return m.notifierDir
}
