package main

import (
	"sort"
	"strings"
	"sync"
)

// AccessGate decides which identities may join as players. Names are stored
// lowercase and trimmed; the administrator is always allowed. It is consulted
// both by HTTP page handlers and by the hub loop, hence its own lock.
type AccessGate struct {
	mu    sync.RWMutex
	admin string
	names map[string]bool
}

func newAccessGate(adminUser string) *AccessGate {
	return &AccessGate{
		admin: normalizeName(adminUser),
		names: make(map[string]bool),
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Add puts a name on the access list. Adding an already listed or empty name
// is a no-op.
func (g *AccessGate) Add(name string) {
	name = normalizeName(name)
	if name == "" {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.names[name] = true
}

// Remove takes a name off the access list if present.
func (g *AccessGate) Remove(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.names, normalizeName(name))
}

// IsAllowed reports whether the identity may join as a player.
func (g *AccessGate) IsAllowed(name string) bool {
	name = normalizeName(name)
	if name == "" {
		return false
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	return name == g.admin || g.names[name]
}

// IsAdministrator reports whether the identity is the designated admin.
func (g *AccessGate) IsAdministrator(name string) bool {
	name = normalizeName(name)

	g.mu.RLock()
	defer g.mu.RUnlock()

	return name != "" && name == g.admin
}

// Names returns the access list, sorted.
func (g *AccessGate) Names() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	names := make([]string, 0, len(g.names))
	for name := range g.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
