package provider

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Manager holds the registered connectors so callers dispatch by provider
// name instead of branching on identity.
type Manager struct {
	mu         sync.RWMutex
	connectors map[string]Connector
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{connectors: make(map[string]Connector)}
}

// Register adds or replaces a connector.
func (m *Manager) Register(c Connector) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectors[c.Name()] = c
}

// Get returns the connector for a provider name.
func (m *Manager) Get(name string) (Connector, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.connectors[name]
	if !ok {
		return nil, fmt.Errorf("no connector registered for provider %q", name)
	}
	return c, nil
}

// Names lists the registered provider names in stable order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.connectors))
	for name := range m.connectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Health runs every connector's health check and reports per provider.
func (m *Manager) Health(ctx context.Context) map[string]bool {
	m.mu.RLock()
	connectors := make([]Connector, 0, len(m.connectors))
	for _, c := range m.connectors {
		connectors = append(connectors, c)
	}
	m.mu.RUnlock()

	out := make(map[string]bool, len(connectors))
	for _, c := range connectors {
		out[c.Name()] = c.CheckHealth(ctx)
	}
	return out
}
