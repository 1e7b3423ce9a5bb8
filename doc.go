// Package modengine provides a dynamic module loading and linking engine.
//
// Given a root module specifier, the engine resolves a dependency graph,
// instantiates each node exactly once, establishes live export bindings
// between dependents and dependencies (including across circular references),
// and executes each module body at most once in dependency order, producing a
// namespace per module.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	module-engine/       Root package with the adapter contracts and
//	                     declaration types consumed by every other package
//	├── loader/          The engine: import pipeline, linker, evaluator, hooks
//	├── registry/        Module records, binding cells, namespaces, registry
//	├── resolve/         Reference Resolver adapters (URL and prefix-map)
//	├── adapter/memory/  Reference Instantiator backed by in-memory definitions
//	├── adapter/wasmmod/ Reference Instantiator backed by wazero
//	└── errors/          Structured error types with load-stack annotation
//
// # Quick Start
//
// Define two modules and import one:
//
//	src := memory.New()
//	src.Define("app:/greet", []string{"./name"}, func(export modengine.ExportFunc, mctx *modengine.Context) modengine.Declaration {
//	    return modengine.Declaration{Execute: func() error {
//	        name, _ := mctx.Dependency(0).Get("name")
//	        export("greeting", fmt.Sprintf("hello, %v", name))
//	        return nil
//	    }}
//	})
//	src.DefineValues("app:/name", map[string]any{"name": "world"})
//
//	l := loader.New(&resolve.URLResolver{Base: "app:/"}, src)
//	ns, err := l.Import(ctx, "./greet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	greeting, _ := ns.Get("greeting") // "hello, world"
//
// # Linking Protocol
//
// The engine never parses or transforms module source. An Instantiator hands
// it an already-declared unit: an ordered dependency-specifier list plus a
// declaration callback. The declaration callback receives an export function
// writing into the module's binding cells and the module's Context, and
// returns the execute callback. Binding cells are mutable slots owned by the
// exporting module and read live by every importer, which is what gives
// circular graphs correct output: a value written late in one module's body
// is visible to a dependent that linked earlier.
//
// # Thread Safety
//
// Loader, Registry and Namespace are safe for concurrent use. Import
// operations are serialized by the loader; cache peeks and deletes are not.
package modengine
