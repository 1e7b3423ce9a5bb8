package modengine

import "context"

// Resolver turns a raw specifier plus referrer into a canonical module key.
// Key equality defines module identity in the registry. The referrer is the
// importing module's key, or "" for a top-level import.
type Resolver interface {
	Resolve(ctx context.Context, specifier, referrer string) (string, error)
}

// Instantiator turns a canonical module key into an Instantiation: the
// module's declared dependency specifiers plus its declaration callback.
//
// Returning (nil, nil) signals an out-of-band registration: the instantiator
// arranged for the module to register itself through the loader's Register
// entry point (self-registering source formats), and the loader picks the
// registration up immediately after the call returns.
type Instantiator interface {
	Instantiate(ctx context.Context, key string) (*Instantiation, error)
}

// Instantiation is the declared shape of one module before linking.
type Instantiation struct {
	// Dependencies lists the module's dependency specifiers in declared
	// import order. Duplicates are allowed.
	Dependencies []string

	// Declare wires the module up at link time.
	Declare DeclareFunc
}

// DeclareFunc receives the module's export function and per-module context,
// and returns the declaration carrying the execute callback. It runs once per
// module, at link time, before any module in the graph executes. It may call
// export immediately for hoisted bindings.
type DeclareFunc func(export ExportFunc, mctx *Context) Declaration

// ExportFunc writes one named value into the exporting module's binding
// cells, creating the cell on first write to a given name. It returns the
// value written so exports can be chained into expressions. Only the owning
// module's declaration and execute callbacks ever hold this function.
type ExportFunc func(name string, value any) any

// Declaration is the result of declaring a module.
type Declaration struct {
	// Execute runs the module body. Invoked at most once, after every
	// module in the dependency closure is linked. A nil Execute is treated
	// as an empty body.
	Execute func() error
}

// Namespace is the read-only external view of a module's bindings. Reads go
// through the live binding cells, never through a snapshot.
type Namespace interface {
	// Get returns the current value of a named binding. The second result
	// is false when the name was never exported, or was declared but not
	// yet written (a cycle read ahead of the owner's execution).
	Get(name string) (any, bool)

	// Names returns the sorted exported names present so far.
	Names() []string

	// Tag returns the reserved tag identifying module namespaces.
	Tag() string
}

// Context is the per-module metadata record created once per module (via the
// loader's CreateContext hook) and passed to the declaration callback.
//
// The function fields are populated by the loader; they are exported so that
// CreateContext overrides can build on a delegated default.
type Context struct {
	// Key is the module's canonical key.
	Key string

	// Meta carries open metadata for the module. The default context maps
	// "url" to the canonical key.
	Meta map[string]any

	// ResolveFunc resolves a specifier against this module.
	ResolveFunc func(ctx context.Context, specifier string) (string, error)

	// ImportFunc triggers a dynamic import relative to this module.
	ImportFunc func(ctx context.Context, specifier string) (Namespace, error)

	// DependencyFunc returns the live namespace of the i-th declared
	// dependency, nil when out of range or not yet linked.
	DependencyFunc func(i int) Namespace
}

// Resolve resolves a specifier against this module's key.
func (c *Context) Resolve(ctx context.Context, specifier string) (string, error) {
	return c.ResolveFunc(ctx, specifier)
}

// Import triggers a dynamic import relative to this module.
//
// Import operations are serialized by the loader, so Import must not be
// called synchronously from inside an Execute callback of the same loader;
// doing so self-deadlocks. Call it from a separate goroutine, or after the
// enclosing import settles.
func (c *Context) Import(ctx context.Context, specifier string) (Namespace, error) {
	return c.ImportFunc(ctx, specifier)
}

// Dependency returns the live namespace of the i-th declared dependency.
// Valid once the module is linked; reads through it are always live. Returns
// nil when i is out of range.
func (c *Context) Dependency(i int) Namespace {
	if c.DependencyFunc == nil {
		return nil
	}
	return c.DependencyFunc(i)
}
