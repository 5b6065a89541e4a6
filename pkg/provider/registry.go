package provider

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Registry maps provider ids and aliases to providers. Ids are case-insensitive.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	aliases   map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
		aliases:   make(map[string]string),
	}
}

// Register adds p under its Name and the given aliases.
// A provider registered under an existing name replaces the previous one.
func (r *Registry) Register(p Provider, aliases ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := normalize(p.Name())
	r.providers[name] = p
	for _, alias := range aliases {
		if alias = normalize(alias); alias != "" && alias != name {
			r.aliases[alias] = name
		}
	}
}

// Lookup returns the provider registered under id or one of its aliases.
func (r *Registry) Lookup(id string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := normalize(id)
	if name, ok := r.aliases[key]; ok {
		key = name
	}
	p, ok := r.providers[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, id)
	}
	return p, nil
}

// IsRegistered reports whether id resolves to a provider.
func (r *Registry) IsRegistered(id string) bool {
	_, err := r.Lookup(id)
	return err == nil
}

// Names returns the sorted canonical provider names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

type builtin struct {
	provider Provider
	aliases  []string
}

// builtins is filled by init functions of the provider files; some are build-tag gated.
var builtins []builtin

func registerBuiltin(p Provider, aliases ...string) {
	builtins = append(builtins, builtin{provider: p, aliases: aliases})
}

// NewDefaultRegistry returns a fresh registry holding every built-in provider
// compiled into the binary.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, b := range builtins {
		r.Register(b.provider, b.aliases...)
	}
	return r
}

var defaultRegistry = sync.OnceValue(NewDefaultRegistry)

// Default returns the shared registry of built-in providers.
func Default() *Registry {
	return defaultRegistry()
}
