package link

import (
	"sync"

	"github.com/google/uuid"
)

type entry struct {
	template string
	sections map[string]struct{}
}

// Registry retains the pristine template of every qualifying link seen on the site,
// together with the page sections it was found in.
// Each click rewrites from the registered template, never from a previous output.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// ID returns the stable identifier of a template.
// Identical templates always share an id, across refreshes and restarts.
func ID(template string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(template)).String()
}

// Register stores template as seen in section and returns its id.
func (r *Registry) Register(template, section string) string {
	id := ID(template)

	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		e = &entry{template: template, sections: make(map[string]struct{})}
		r.entries[id] = e
	}
	e.sections[section] = struct{}{}

	return id
}

// Lookup returns the template registered under id.
func (r *Registry) Lookup(id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok {
		return "", false
	}
	return e.template, true
}

// HasSection reports whether the link registered under id was found in section.
func (r *Registry) HasSection(id, section string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok {
		return false
	}
	_, ok = e.sections[section]
	return ok
}

// Len returns the number of registered templates.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
