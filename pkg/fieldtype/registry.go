// Package fieldtype holds the static metadata catalog for form field types:
// display label, catalog group, whether the value is compound, and the
// default properties a freshly created field of that type starts from.
//
// The catalog is a read-only lookup input for the field operations engine.
// Unknown type tags are not an error at this layer; callers decide whether
// an unregistered tag is fatal.
package fieldtype

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Kind groups field types for catalog filtering.
type Kind string

const (
	KindStandard Kind = "standard"
	KindAdvanced Kind = "advanced"
	KindPost     Kind = "post"
	KindPricing  Kind = "pricing"
)

// Definition is the static metadata for one field type tag.
type Definition struct {
	Type        string         `json:"type"`
	Label       string         `json:"label"`
	Kind        Kind           `json:"kind"`
	Description string         `json:"description,omitempty"`
	Compound    bool           `json:"compound,omitempty"`
	HasChoices  bool           `json:"has_choices,omitempty"`
	Defaults    map[string]any `json:"defaults,omitempty"`
}

// Registry stores field type definitions by tag.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds a definition by its Type tag. Duplicate tags return an error.
func (r *Registry) Register(def Definition) error {
	tag := normalizeTag(def.Type)
	if tag == "" {
		return fmt.Errorf("fieldtype: type tag is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[tag]; exists {
		return fmt.Errorf("fieldtype: type %q already registered", tag)
	}
	r.defs[tag] = def
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(def Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Get retrieves a definition by tag. The boolean reports whether the tag is
// registered; an unregistered tag yields the zero Definition.
func (r *Registry) Get(tag string) (Definition, bool) {
	key := normalizeTag(tag)
	if key == "" {
		return Definition{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[key]
	return def, ok
}

// Has reports whether a tag is registered.
func (r *Registry) Has(tag string) bool {
	_, ok := r.Get(tag)
	return ok
}

// List returns all definitions sorted by type tag.
func (r *Registry) List() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Definition, 0, len(r.defs))
	for _, def := range r.defs {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Type < defs[j].Type })
	return defs
}

// ListKind returns the definitions in one catalog group, sorted by tag.
func (r *Registry) ListKind(kind Kind) []Definition {
	all := r.List()
	filtered := all[:0:0]
	for _, def := range all {
		if def.Kind == kind {
			filtered = append(filtered, def)
		}
	}
	return filtered
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
