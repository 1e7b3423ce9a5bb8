package wasmmod

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"

	modengine "github.com/wippyai/module-engine"
	"github.com/wippyai/module-engine/errors"
)

// Instantiator serves WASM binaries as engine modules. Safe for concurrent
// use. Close releases the underlying wazero runtime.
type Instantiator struct {
	runtime wazero.Runtime

	mu      sync.RWMutex
	sources map[string][]byte
}

// New creates an instantiator with its own wazero runtime.
func New(ctx context.Context) *Instantiator {
	return &Instantiator{
		runtime: wazero.NewRuntime(ctx),
		sources: make(map[string][]byte),
	}
}

// Add registers the WASM binary served for key. Re-adding a key is an error.
func (w *Instantiator) Add(key string, wasm []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.sources[key]; ok {
		return errors.Conflict(errors.PhaseInstantiate, "wasm module", key)
	}
	w.sources[key] = wasm
	return nil
}

// Close releases the wazero runtime and every module instantiated through it.
func (w *Instantiator) Close(ctx context.Context) error {
	return w.runtime.Close(ctx)
}

// Instantiate implements modengine.Instantiator. The binary is compiled here
// so malformed modules fail at instantiation time; the WASM instance itself
// is created when the engine runs the module body, after linking.
func (w *Instantiator) Instantiate(ctx context.Context, key string) (*modengine.Instantiation, error) {
	w.mu.RLock()
	src, ok := w.sources[key]
	w.mu.RUnlock()
	if !ok {
		return nil, errors.NotFound(errors.PhaseInstantiate, "wasm module", key)
	}

	compiled, err := w.runtime.CompileModule(ctx, src)
	if err != nil {
		return nil, errors.Load("compile wasm module", err)
	}

	return &modengine.Instantiation{
		Declare: func(export modengine.ExportFunc, _ *modengine.Context) modengine.Declaration {
			return modengine.Declaration{Execute: func() error {
				cfg := wazero.NewModuleConfig().WithName(key)
				instance, err := w.runtime.InstantiateModule(ctx, compiled, cfg)
				if err != nil {
					return errors.Load("instantiate wasm module", err)
				}
				for name := range instance.ExportedFunctionDefinitions() {
					export(name, instance.ExportedFunction(name))
				}
				return nil
			}}
		},
	}, nil
}
