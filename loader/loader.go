package loader

import (
	"context"
	"sync"

	"go.uber.org/zap"

	modengine "github.com/wippyai/module-engine"
	"github.com/wippyai/module-engine/registry"
)

// Registration is a module shape registered out-of-band through Register,
// for source formats that self-register when executed.
type Registration struct {
	Dependencies []string
	Declare      modengine.DeclareFunc
}

// Loader is the module engine. Create one with New; the zero value is not
// usable. Safe for concurrent use.
type Loader struct {
	resolver     modengine.Resolver
	instantiator modengine.Instantiator
	reg          *registry.Registry
	log          *zap.Logger

	// OnLoad, when set, is invoked exactly once per module settlement:
	// after the record reaches a terminal state, before the outer Import
	// returns. err is nil on success. Panics inside the hook are not
	// recovered.
	OnLoad func(key string, err error)

	// CreateContext builds the per-module metadata record, once per
	// module, before its declaration callback runs. Defaults to
	// DefaultContext; overrides typically delegate to it and augment the
	// result.
	CreateContext func(key string) *modengine.Context

	// pipelineMu serializes import operations end to end.
	pipelineMu sync.Mutex

	registerMu sync.Mutex
	registered *Registration
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the loader's logger, overriding the package logger.
func WithLogger(l *zap.Logger) Option {
	return func(ld *Loader) { ld.log = l }
}

// WithRegistry makes the loader share an existing registry.
func WithRegistry(r *registry.Registry) Option {
	return func(ld *Loader) { ld.reg = r }
}

// New creates a Loader over the given adapters.
func New(resolver modengine.Resolver, instantiator modengine.Instantiator, opts ...Option) *Loader {
	l := &Loader{
		resolver:     resolver,
		instantiator: instantiator,
		reg:          registry.New(),
		log:          Logger(),
	}
	l.CreateContext = l.DefaultContext
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Registry returns the loader's registry for introspection.
func (l *Loader) Registry() *registry.Registry {
	return l.reg
}

// DefaultContext is the default CreateContext implementation. It is exported
// so overrides can compose by delegation:
//
//	l.CreateContext = func(key string) *modengine.Context {
//	    mctx := l.DefaultContext(key)
//	    mctx.Meta["env"] = "production"
//	    return mctx
//	}
func (l *Loader) DefaultContext(key string) *modengine.Context {
	return &modengine.Context{
		Key:  key,
		Meta: map[string]any{"url": key},
		ResolveFunc: func(ctx context.Context, specifier string) (string, error) {
			return l.resolver.Resolve(ctx, specifier, key)
		},
		ImportFunc: func(ctx context.Context, specifier string) (modengine.Namespace, error) {
			ns, err := l.ImportFrom(ctx, specifier, key)
			if err != nil {
				return nil, err
			}
			return ns, nil
		},
	}
}

// Import resolves, links and evaluates the module graph rooted at specifier
// and returns the root module's namespace. A key already settled in the
// registry is returned from cache: the identical namespace on success, the
// identical failure on error, with no adapter re-invoked.
func (l *Loader) Import(ctx context.Context, specifier string) (*registry.Namespace, error) {
	return l.ImportFrom(ctx, specifier, "")
}

// ImportFrom is Import with an explicit referrer key.
func (l *Loader) ImportFrom(ctx context.Context, specifier, referrer string) (*registry.Namespace, error) {
	op := newOperation()
	l.log.Debug("import",
		zap.String("op", op.id),
		zap.String("specifier", specifier),
		zap.String("referrer", referrer))

	key, err := l.resolveKey(ctx, specifier, referrer)
	if err != nil {
		return nil, err
	}

	l.pipelineMu.Lock()
	defer l.pipelineMu.Unlock()

	rec, err := l.link(ctx, op, key)
	if err != nil {
		return nil, err
	}
	if err := l.evaluate(ctx, op, rec); err != nil {
		return nil, err
	}
	return rec.Namespace(), nil
}

// Get returns the namespace for an evaluated key, nil otherwise. No
// resolution is performed.
func (l *Loader) Get(key string) *registry.Namespace {
	rec, ok := l.reg.Get(key)
	if !ok || rec.Status() != registry.StatusEvaluated {
		return nil
	}
	return rec.Namespace()
}

// Delete removes the registry entry for key, reporting whether it was
// present. In-flight imports holding the record are unaffected; a later
// import of the key runs a fresh resolve/instantiate/link/evaluate cycle.
func (l *Loader) Delete(key string) bool {
	return l.reg.Delete(key)
}

// Register records a module shape out-of-band. An instantiator whose
// underlying format self-registers calls this while handling Instantiate and
// returns a nil instantiation; the pipeline consumes the registration
// immediately after.
func (l *Loader) Register(dependencies []string, declare modengine.DeclareFunc) {
	l.registerMu.Lock()
	defer l.registerMu.Unlock()
	l.registered = &Registration{Dependencies: dependencies, Declare: declare}
}

// GetRegister returns the last registration and clears it, or nil.
func (l *Loader) GetRegister() *Registration {
	l.registerMu.Lock()
	defer l.registerMu.Unlock()
	r := l.registered
	l.registered = nil
	return r
}

// onload fires the OnLoad hook for one module settlement.
func (l *Loader) onload(key string, err error) {
	if err != nil {
		l.log.Debug("module errored", zap.String("key", key), zap.Error(err))
	} else {
		l.log.Debug("module evaluated", zap.String("key", key))
	}
	if l.OnLoad != nil {
		l.OnLoad(key, err)
	}
}
