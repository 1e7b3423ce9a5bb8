package memory

import (
	"context"
	"sync"

	modengine "github.com/wippyai/module-engine"
	"github.com/wippyai/module-engine/errors"
)

type definition struct {
	dependencies []string
	declare      modengine.DeclareFunc
}

// Instantiator serves module definitions held in memory.
// Safe for concurrent use.
type Instantiator struct {
	mu   sync.RWMutex
	defs map[string]*definition
}

// New creates an empty in-memory instantiator.
func New() *Instantiator {
	return &Instantiator{defs: make(map[string]*definition)}
}

// Define registers a module shape under its canonical key.
// Defining the same key twice is an error.
func (m *Instantiator) Define(key string, dependencies []string, declare modengine.DeclareFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.defs[key]; ok {
		return errors.Conflict(errors.PhaseInstantiate, "module", key)
	}
	m.defs[key] = &definition{dependencies: dependencies, declare: declare}
	return nil
}

// DefineValues registers a dependency-free module exporting fixed values.
func (m *Instantiator) DefineValues(key string, exports map[string]any) error {
	return m.DefineConstants(key, nil, exports)
}

// DefineConstants registers a module with dependencies whose body only
// exports fixed values.
func (m *Instantiator) DefineConstants(key string, dependencies []string, exports map[string]any) error {
	return m.Define(key, dependencies, func(export modengine.ExportFunc, _ *modengine.Context) modengine.Declaration {
		return modengine.Declaration{Execute: func() error {
			for name, value := range exports {
				export(name, value)
			}
			return nil
		}}
	})
}

// Remove drops a definition, reporting whether it was present.
func (m *Instantiator) Remove(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.defs[key]
	delete(m.defs, key)
	return ok
}

// Instantiate implements modengine.Instantiator.
func (m *Instantiator) Instantiate(ctx context.Context, key string) (*modengine.Instantiation, error) {
	m.mu.RLock()
	def, ok := m.defs[key]
	m.mu.RUnlock()
	if !ok {
		return nil, errors.NotFound(errors.PhaseInstantiate, "module", key)
	}
	return &modengine.Instantiation{
		Dependencies: def.dependencies,
		Declare:      def.declare,
	}, nil
}
