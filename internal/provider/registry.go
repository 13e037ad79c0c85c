package provider

import (
	"fmt"
	"sort"
)

// Factory builds a provider from shared options.
type Factory func(opts Options) Provider

// Registry maps provider names to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry knows the built-in providers under their own names and
// under the upstream names mojang and bmclapi.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	official := func(opts Options) Provider { return NewOfficial(opts) }
	mirror := func(opts Options) Provider { return NewMirror(opts) }
	r.Register("official", official)
	r.Register("mojang", official)
	r.Register("mirror", mirror)
	r.Register("bmclapi", mirror)
	r.Register("auto", func(opts Options) Provider { return NewAuto(opts) })
	return r
}

// Register adds a factory for the given name.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// New builds the provider registered under name.
func (r *Registry) New(name string, opts Options) (Provider, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider '%s'; supported providers: %s", name, r.supported())
	}
	return f(opts), nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) supported() string {
	names := r.Names()
	if len(names) == 0 {
		return "(none registered)"
	}
	return fmt.Sprintf("%v", names)
}
