package presets

import (
	"sync"
	"time"
)

// Registry holds the current presets in file order.
type Registry struct {
	mu         sync.RWMutex
	presets    []Preset
	byName     map[string]int
	lastReload time.Time
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Replace swaps the whole preset list.
func (r *Registry) Replace(presets []Preset) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.presets = make([]Preset, len(presets))
	r.byName = make(map[string]int, len(presets))
	for i, p := range presets {
		p.Filter = p.Filter.Clone()
		r.presets[i] = p
		r.byName[p.Name] = i
	}
	r.lastReload = time.Now()
}

// Get returns the preset called name.
func (r *Registry) Get(name string) (Preset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byName[name]
	if !ok {
		return Preset{}, false
	}
	p := r.presets[i]
	p.Filter = p.Filter.Clone()
	return p, true
}

// List returns all presets
func (r *Registry) List() []Preset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Preset, len(r.presets))
	for i, p := range r.presets {
		p.Filter = p.Filter.Clone()
		out[i] = p
	}
	return out
}

// Count returns the number of presets
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.presets)
}

// LastReload returns the time of the last Replace
func (r *Registry) LastReload() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastReload
}
