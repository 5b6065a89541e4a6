package app

import (
	"sync"

	"sqlpager/internal/config"
)

// catalogHolder keeps the current catalog; hot reload swaps it in place.
type catalogHolder struct {
	mu  sync.RWMutex
	cat *config.Catalog
}

func newCatalogHolder(c *config.Catalog) *catalogHolder {
	return &catalogHolder{cat: c}
}

func (h *catalogHolder) Load() *config.Catalog {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cat
}

// Resolve implements pager.Resolver over the current catalog.
func (h *catalogHolder) Resolve(name string) (string, string, error) {
	return h.Load().Resolve(name)
}

// Swap installs c and returns the names of connections that were removed or
// now point elsewhere.
func (h *catalogHolder) Swap(c *config.Catalog) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	var changed []string
	for _, name := range h.cat.ConnectionNames() {
		if next, ok := c.Connections[name]; !ok || next != h.cat.Connections[name] {
			changed = append(changed, name)
		}
	}
	h.cat = c
	return changed
}
