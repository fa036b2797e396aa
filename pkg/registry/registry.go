// Package registry keeps a named catalog of machine definitions so services
// and CLI commands can address automata by name instead of carrying tables
// around.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/espalier/pkg/automaton"
	"github.com/aretw0/espalier/pkg/modthree"
)

// ModThree is the name of the built-in remainder machine.
const ModThree = "mod3"

// ErrMachineNotFound is returned by Get for names never registered.
var ErrMachineNotFound = errors.New("machine not found")

// Registry manages the available machine definitions. Definitions are
// validated on registration, so anything handed out by Get is known buildable.
type Registry struct {
	mu       sync.RWMutex
	machines map[string]automaton.Definition
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		machines: make(map[string]automaton.Definition),
	}
}

// Default creates a registry preloaded with the built-in machines.
func Default() *Registry {
	r := New()
	// The mod-three table is fixed and valid; a failure here is a defect.
	if err := r.Register(ModThree, modthree.Definition()); err != nil {
		panic(err)
	}
	return r
}

// Register validates def and adds it under name. A definition registered
// under an existing name overwrites the previous one. The registry stores a
// normalized deep copy, so the caller keeps ownership of def.
func (r *Registry) Register(name string, def automaton.Definition) error {
	if name == "" {
		return &automaton.ConfigError{Field: "name", Reason: "must not be empty"}
	}

	// Building a throwaway instance runs the full validation and yields the
	// normalized (sorted, copied) form to store.
	eng, err := automaton.New(def)
	if err != nil {
		return fmt.Errorf("register %q: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.machines[name] = eng.Definition()
	return nil
}

// Get looks up a definition by name. The returned value is a deep copy; the
// caller may mutate it freely.
func (r *Registry) Get(name string) (automaton.Definition, error) {
	r.mu.RLock()
	def, ok := r.machines[name]
	r.mu.RUnlock()

	if !ok {
		return automaton.Definition{}, fmt.Errorf("%w: %s", ErrMachineNotFound, name)
	}
	return def.Clone(), nil
}

// Names returns the registered machine names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.machines))
	for name := range r.machines {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
