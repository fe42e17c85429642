package templates

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var ErrTemplateNotFound = errors.New("templates: template not found")

type TemplateNotFoundError struct {
	System  string
	Service string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("templates: no template registered for system %q service %q", e.System, e.Service)
}

func (e *TemplateNotFoundError) Unwrap() error {
	return ErrTemplateNotFound
}

type registryKey struct {
	system  string
	service string
}

func newRegistryKey(system, service string) registryKey {
	return registryKey{
		system:  strings.ToUpper(strings.TrimSpace(system)),
		service: strings.ToUpper(strings.TrimSpace(service)),
	}
}

// Registry holds templates keyed by (idSistema, idServico). Construction
// is explicit: callers register templates or start from DefaultRegistry.
type Registry struct {
	mu      sync.RWMutex
	entries map[registryKey]Template
}

func NewRegistry(templates ...Template) (*Registry, error) {
	registry := &Registry{entries: map[registryKey]Template{}}
	for _, template := range templates {
		if err := registry.Register(template); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func (r *Registry) Register(template Template) error {
	if r == nil {
		return fmt.Errorf("templates: registry is nil")
	}
	if template == nil {
		return fmt.Errorf("templates: template is required")
	}
	descriptor := template.Descriptor()
	if strings.TrimSpace(descriptor.System) == "" || strings.TrimSpace(descriptor.Service) == "" {
		return fmt.Errorf("templates: template system and service ids are required")
	}
	key := newRegistryKey(descriptor.System, descriptor.Service)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[key]; exists {
		return fmt.Errorf("templates: template already registered for system %q service %q",
			descriptor.System, descriptor.Service)
	}
	r.entries[key] = template
	return nil
}

func (r *Registry) Lookup(system, service string) (Template, error) {
	if r == nil {
		return nil, fmt.Errorf("templates: registry is nil")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	template, ok := r.entries[newRegistryKey(system, service)]
	if !ok {
		return nil, &TemplateNotFoundError{
			System:  strings.ToUpper(strings.TrimSpace(system)),
			Service: strings.ToUpper(strings.TrimSpace(service)),
		}
	}
	return template, nil
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Descriptors lists every registered template, ordered by system then
// service id.
func (r *Registry) Descriptors() []Descriptor {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.entries))
	for _, template := range r.entries {
		out = append(out, template.Descriptor())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].System != out[j].System {
			return out[i].System < out[j].System
		}
		return out[i].Service < out[j].Service
	})
	return out
}

// DefaultRegistry returns a registry with every built-in template.
func DefaultRegistry() *Registry {
	all := [][]Definition{
		dctfwebTemplates(),
		pgdasdTemplates(),
		pgmeiTemplates(),
		ccmeiTemplates(),
		caixaPostalTemplates(),
		sitfisTemplates(),
	}
	registry := &Registry{entries: map[registryKey]Template{}}
	for _, group := range all {
		for _, definition := range group {
			// Built-in ids are unique by construction.
			_ = registry.Register(definition)
		}
	}
	return registry
}
